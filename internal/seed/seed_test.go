package seed

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/claimdesk/claimdesk/internal/domain"
)

type mockUserRepository struct {
	mock.Mock
}

func (m *mockUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepository) FindByIDs(ctx context.Context, ids []string) (map[string]*domain.User, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]*domain.User), args.Error(1)
}

func (m *mockUserRepository) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *mockUserRepository) List(ctx context.Context) ([]*domain.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.User), args.Error(1)
}

func (m *mockUserRepository) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *mockUserRepository) UpdateLastLogin(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockUserRepository) EnsureRole(ctx context.Context, name string) error {
	args := m.Called(ctx, name)
	return args.Error(0)
}

type mockPasswordService struct {
	mock.Mock
}

func (m *mockPasswordService) HashPassword(password string) (string, error) {
	args := m.Called(password)
	return args.String(0), args.Error(1)
}

func (m *mockPasswordService) VerifyPassword(hashedPassword, password string) error {
	args := m.Called(hashedPassword, password)
	return args.Error(0)
}

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestSeederRun(t *testing.T) {
	users := new(mockUserRepository)
	passwords := new(mockPasswordService)
	admin := DefaultAdmin()

	for _, role := range domain.Roles() {
		users.On("EnsureRole", mock.Anything, role).Return(nil)
	}
	users.On("FindByEmail", mock.Anything, admin.Email).Return(nil, nil)
	passwords.On("HashPassword", admin.Password).Return("hashed", nil)
	users.On("Create", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
		return u.Email == admin.Email &&
			u.Password == "hashed" &&
			len(u.Roles) == 1 && u.Roles[0] == domain.RoleCpdAdmin
	})).Return(nil)

	err := NewSeeder(users, passwords, testLogger()).Run(context.Background(), admin)
	require.NoError(t, err)
	users.AssertExpectations(t)
}

func TestSeederRunIsIdempotent(t *testing.T) {
	users := new(mockUserRepository)
	passwords := new(mockPasswordService)
	admin := DefaultAdmin()

	for _, role := range domain.Roles() {
		users.On("EnsureRole", mock.Anything, role).Return(nil)
	}
	users.On("FindByEmail", mock.Anything, admin.Email).
		Return(&domain.User{ID: "existing", Email: admin.Email}, nil)

	err := NewSeeder(users, passwords, testLogger()).Run(context.Background(), admin)
	require.NoError(t, err)
	users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	passwords.AssertNotCalled(t, "HashPassword", mock.Anything)
}

func TestSeederRunReportsRoleFailure(t *testing.T) {
	users := new(mockUserRepository)
	passwords := new(mockPasswordService)

	users.On("EnsureRole", mock.Anything, mock.Anything).Return(errors.New("db down"))

	err := NewSeeder(users, passwords, testLogger()).Run(context.Background(), DefaultAdmin())
	assert.Error(t, err)
}
