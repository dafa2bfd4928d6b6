package usecase

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"github.com/claimdesk/claimdesk/internal/domain"
	"github.com/claimdesk/claimdesk/internal/ports"
	"github.com/claimdesk/claimdesk/internal/upload"
)

// Mock implementations

type MockClaimRepository struct {
	mock.Mock
}

func (m *MockClaimRepository) Create(ctx context.Context, claim *domain.Claim) error {
	args := m.Called(ctx, claim)
	return args.Error(0)
}

func (m *MockClaimRepository) FindByID(ctx context.Context, id int64) (*domain.Claim, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Claim), args.Error(1)
}

func (m *MockClaimRepository) FindByIDForUpdate(ctx context.Context, id int64) (*domain.Claim, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Claim), args.Error(1)
}

func (m *MockClaimRepository) Update(ctx context.Context, claim *domain.Claim) error {
	args := m.Called(ctx, claim)
	return args.Error(0)
}

func (m *MockClaimRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockClaimRepository) ListByEmployee(ctx context.Context, employeeID string) ([]*domain.Claim, error) {
	args := m.Called(ctx, employeeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Claim), args.Error(1)
}

func (m *MockClaimRepository) ListPending(ctx context.Context) ([]*domain.Claim, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Claim), args.Error(1)
}

func (m *MockClaimRepository) RecentByEmployee(ctx context.Context, employeeID string, limit int) ([]*domain.Claim, error) {
	args := m.Called(ctx, employeeID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Claim), args.Error(1)
}

func (m *MockClaimRepository) CountByEmployee(ctx context.Context, employeeID string, status *domain.ClaimStatus) (int, error) {
	args := m.Called(ctx, employeeID, status)
	return args.Int(0), args.Error(1)
}

func (m *MockClaimRepository) CountByStatus(ctx context.Context, status domain.ClaimStatus) (int, error) {
	args := m.Called(ctx, status)
	return args.Int(0), args.Error(1)
}

type MockAuditRepository struct {
	mock.Mock
}

func (m *MockAuditRepository) Append(ctx context.Context, entry *domain.AuditEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockAuditRepository) Recent(ctx context.Context, limit int) ([]*domain.AuditEntry, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.AuditEntry), args.Error(1)
}

func (m *MockAuditRepository) ListByEntity(ctx context.Context, entity string, entityID int64) ([]*domain.AuditEntry, error) {
	args := m.Called(ctx, entity, entityID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.AuditEntry), args.Error(1)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) FindByIDs(ctx context.Context, ids []string) (map[string]*domain.User, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]*domain.User), args.Error(1)
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) List(ctx context.Context) ([]*domain.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.User), args.Error(1)
}

func (m *MockUserRepository) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockUserRepository) UpdateLastLogin(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserRepository) EnsureRole(ctx context.Context, name string) error {
	args := m.Called(ctx, name)
	return args.Error(0)
}

// passthroughUnitOfWork runs fn directly against the given repos, standing in
// for a real transaction in unit tests.
type passthroughUnitOfWork struct {
	claims ports.ClaimRepository
	audit  ports.AuditRepository
}

func (u *passthroughUnitOfWork) Do(ctx context.Context, fn func(repos ports.TxRepos) error) error {
	return fn(ports.TxRepos{Claims: u.claims, Audit: u.audit})
}

type MockReceiptStore struct {
	mock.Mock
}

func (m *MockReceiptStore) Save(ctx context.Context, ownerID string, file *upload.ValidatedFile) (string, error) {
	args := m.Called(ctx, ownerID, file)
	return args.String(0), args.Error(1)
}

func (m *MockReceiptStore) Open(ctx context.Context, relPath string) (io.ReadCloser, error) {
	args := m.Called(ctx, relPath)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.ReadCloser), args.Error(1)
}

func (m *MockReceiptStore) Remove(ctx context.Context, relPath string) error {
	args := m.Called(ctx, relPath)
	return args.Error(0)
}

type MockPasswordService struct {
	mock.Mock
}

func (m *MockPasswordService) HashPassword(password string) (string, error) {
	args := m.Called(password)
	return args.String(0), args.Error(1)
}

func (m *MockPasswordService) VerifyPassword(hashedPassword, password string) error {
	args := m.Called(hashedPassword, password)
	return args.Error(0)
}

type MockTokenService struct {
	mock.Mock
}

func (m *MockTokenService) GenerateAccessToken(p domain.Principal) (string, error) {
	args := m.Called(p)
	return args.String(0), args.Error(1)
}

func (m *MockTokenService) ValidateAccessToken(token string) (domain.Principal, error) {
	args := m.Called(token)
	return args.Get(0).(domain.Principal), args.Error(1)
}
