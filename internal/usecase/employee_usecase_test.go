package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/claimdesk/claimdesk/internal/domain"
	"github.com/claimdesk/claimdesk/pkg/apperror"
)

func newEmployeeFixture() (*EmployeeUseCase, *MockUserRepository, *MockPasswordService) {
	users := new(MockUserRepository)
	passwords := new(MockPasswordService)
	return NewEmployeeUseCase(users, passwords), users, passwords
}

func TestCreateEmployee(t *testing.T) {
	uc, users, passwords := newEmployeeFixture()

	users.On("FindByEmail", mock.Anything, "grace@example.com").Return(nil, nil)
	passwords.On("HashPassword", DefaultInitialPassword).Return("hashed", nil)
	users.On("Create", mock.Anything, mock.AnythingOfType("*domain.User")).Return(nil)

	user, err := uc.Create(context.Background(), CreateEmployeeInput{
		Email:      "Grace@Example.com",
		FullName:   "Grace Hopper",
		EmployeeNo: "EMP042",
	})
	require.NoError(t, err)

	assert.Equal(t, "grace@example.com", user.Email)
	assert.Equal(t, []string{domain.RoleEmployee}, user.Roles)
	assert.Equal(t, "hashed", user.Password)
	assert.NotEmpty(t, user.ID)
}

func TestCreateEmployeeWithExplicitRoleAndPassword(t *testing.T) {
	uc, users, passwords := newEmployeeFixture()

	users.On("FindByEmail", mock.Anything, "grace@example.com").Return(nil, nil)
	passwords.On("HashPassword", "Temp@456").Return("hashed", nil)
	users.On("Create", mock.Anything, mock.AnythingOfType("*domain.User")).Return(nil)

	user, err := uc.Create(context.Background(), CreateEmployeeInput{
		Email:           "grace@example.com",
		FullName:        "Grace Hopper",
		Roles:           []string{domain.RoleCpdAdmin},
		InitialPassword: "Temp@456",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{domain.RoleCpdAdmin}, user.Roles)
}

func TestCreateEmployeeValidation(t *testing.T) {
	uc, _, _ := newEmployeeFixture()

	_, err := uc.Create(context.Background(), CreateEmployeeInput{Email: "not-an-email", FullName: "X"})
	assert.True(t, apperror.IsValidation(err))

	_, err = uc.Create(context.Background(), CreateEmployeeInput{Email: "x@example.com", FullName: "  "})
	assert.True(t, apperror.IsValidation(err))
}

func TestCreateEmployeeRejectsUnknownRole(t *testing.T) {
	uc, users, _ := newEmployeeFixture()

	_, err := uc.Create(context.Background(), CreateEmployeeInput{
		Email:    "grace@example.com",
		FullName: "Grace Hopper",
		Roles:    []string{"SuperUser"},
	})
	assert.True(t, apperror.IsValidation(err))
	users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateEmployeeDuplicateEmail(t *testing.T) {
	uc, users, _ := newEmployeeFixture()
	users.On("FindByEmail", mock.Anything, "grace@example.com").
		Return(&domain.User{ID: "existing"}, nil)

	_, err := uc.Create(context.Background(), CreateEmployeeInput{
		Email:    "grace@example.com",
		FullName: "Grace Hopper",
	})
	assert.True(t, apperror.IsValidation(err))
}

func TestGetEmployeeNotFound(t *testing.T) {
	uc, users, _ := newEmployeeFixture()
	users.On("FindByID", mock.Anything, "missing").Return(nil, nil)

	_, err := uc.Get(context.Background(), "missing")
	assert.True(t, apperror.IsNotFound(err))
}
