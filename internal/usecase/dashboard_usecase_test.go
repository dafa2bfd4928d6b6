package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/claimdesk/claimdesk/internal/domain"
)

func newDashboardFixture() (*DashboardUseCase, *MockClaimRepository, *MockAuditRepository, *MockUserRepository) {
	claims := new(MockClaimRepository)
	audit := new(MockAuditRepository)
	users := new(MockUserRepository)
	uow := &passthroughUnitOfWork{claims: claims, audit: audit}
	admin := NewAdminUseCase(claims, audit, users, uow)
	return NewDashboardUseCase(claims, users, admin), claims, audit, users
}

func statusCount(status domain.ClaimStatus) interface{} {
	return mock.MatchedBy(func(s *domain.ClaimStatus) bool { return s != nil && *s == status })
}

func TestDashboardForEmployee(t *testing.T) {
	uc, claims, _, _ := newDashboardFixture()
	p := domain.Principal{ID: "emp-1", Roles: []string{domain.RoleEmployee}}

	claims.On("CountByEmployee", mock.Anything, "emp-1", (*domain.ClaimStatus)(nil)).Return(5, nil)
	claims.On("CountByEmployee", mock.Anything, "emp-1", statusCount(domain.ClaimStatusPending)).Return(2, nil)
	claims.On("CountByEmployee", mock.Anything, "emp-1", statusCount(domain.ClaimStatusApproved)).Return(2, nil)
	claims.On("CountByEmployee", mock.Anything, "emp-1", statusCount(domain.ClaimStatusRejected)).Return(1, nil)
	recent := []*domain.Claim{pendingClaim(9, "emp-1")}
	claims.On("RecentByEmployee", mock.Anything, "emp-1", recentClaimsLimit).Return(recent, nil)

	d, err := uc.Build(context.Background(), p)
	require.NoError(t, err)

	assert.Equal(t, 5, d.MyTotalClaims)
	assert.Equal(t, 2, d.MyPendingClaims)
	assert.Equal(t, 2, d.MyApprovedClaims)
	assert.Equal(t, 1, d.MyRejectedClaims)
	assert.Equal(t, recent, d.RecentClaims)
	assert.Nil(t, d.Admin)
}

func TestDashboardForAdmin(t *testing.T) {
	uc, claims, audit, users := newDashboardFixture()
	p := domain.Principal{ID: "adm-1", Roles: []string{domain.RoleCpdAdmin}}

	claims.On("CountByEmployee", mock.Anything, "adm-1", mock.Anything).Return(0, nil)
	claims.On("RecentByEmployee", mock.Anything, "adm-1", recentClaimsLimit).Return([]*domain.Claim{}, nil)
	claims.On("CountByStatus", mock.Anything, domain.ClaimStatusPending).Return(3, nil)
	claims.On("CountByStatus", mock.Anything, domain.ClaimStatusApproved).Return(10, nil)
	claims.On("CountByStatus", mock.Anything, domain.ClaimStatusRejected).Return(4, nil)
	users.On("Count", mock.Anything).Return(12, nil)
	audit.On("Recent", mock.Anything, recentActivityLimit).Return([]*domain.AuditEntry{}, nil)

	d, err := uc.Build(context.Background(), p)
	require.NoError(t, err)

	require.NotNil(t, d.Admin)
	assert.Equal(t, 3, d.Admin.PendingClaims)
	assert.Equal(t, 10, d.Admin.ApprovedClaims)
	assert.Equal(t, 4, d.Admin.RejectedClaims)
	assert.Equal(t, 12, d.Admin.TotalEmployees)
	assert.Empty(t, d.Admin.RecentActivity)
}
