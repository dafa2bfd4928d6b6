package usecase

import (
	"context"

	"github.com/claimdesk/claimdesk/internal/access"
	"github.com/claimdesk/claimdesk/internal/domain"
	"github.com/claimdesk/claimdesk/internal/ports"
)

const (
	recentClaimsLimit   = 6
	recentActivityLimit = 10
)

// Dashboard aggregates the landing-page numbers. The admin section is only
// populated for principals who can process claims.
type Dashboard struct {
	MyTotalClaims    int             `json:"my_total_claims"`
	MyPendingClaims  int             `json:"my_pending_claims"`
	MyApprovedClaims int             `json:"my_approved_claims"`
	MyRejectedClaims int             `json:"my_rejected_claims"`
	RecentClaims     []*domain.Claim `json:"recent_claims"`

	Admin *AdminDashboard `json:"admin,omitempty"`
}

// AdminDashboard carries the processing-queue statistics.
type AdminDashboard struct {
	PendingClaims  int         `json:"pending_claims"`
	ApprovedClaims int         `json:"approved_claims"`
	RejectedClaims int         `json:"rejected_claims"`
	TotalEmployees int         `json:"total_employees"`
	RecentActivity []AuditView `json:"recent_activity"`
}

// DashboardUseCase computes per-user and admin statistics.
type DashboardUseCase struct {
	claims ports.ClaimRepository
	users  ports.UserRepository
	admin  *AdminUseCase
}

func NewDashboardUseCase(claims ports.ClaimRepository, users ports.UserRepository, admin *AdminUseCase) *DashboardUseCase {
	return &DashboardUseCase{claims: claims, users: users, admin: admin}
}

func (uc *DashboardUseCase) Build(ctx context.Context, p domain.Principal) (*Dashboard, error) {
	d := &Dashboard{}

	var err error
	if d.MyTotalClaims, err = uc.claims.CountByEmployee(ctx, p.ID, nil); err != nil {
		return nil, err
	}
	for status, target := range map[domain.ClaimStatus]*int{
		domain.ClaimStatusPending:  &d.MyPendingClaims,
		domain.ClaimStatusApproved: &d.MyApprovedClaims,
		domain.ClaimStatusRejected: &d.MyRejectedClaims,
	} {
		s := status
		if *target, err = uc.claims.CountByEmployee(ctx, p.ID, &s); err != nil {
			return nil, err
		}
	}
	if d.RecentClaims, err = uc.claims.RecentByEmployee(ctx, p.ID, recentClaimsLimit); err != nil {
		return nil, err
	}

	if access.CanProcess(p) {
		admin := &AdminDashboard{}
		if admin.PendingClaims, err = uc.claims.CountByStatus(ctx, domain.ClaimStatusPending); err != nil {
			return nil, err
		}
		if admin.ApprovedClaims, err = uc.claims.CountByStatus(ctx, domain.ClaimStatusApproved); err != nil {
			return nil, err
		}
		if admin.RejectedClaims, err = uc.claims.CountByStatus(ctx, domain.ClaimStatusRejected); err != nil {
			return nil, err
		}
		if admin.TotalEmployees, err = uc.users.Count(ctx); err != nil {
			return nil, err
		}
		activity, err := uc.admin.audit.Recent(ctx, recentActivityLimit)
		if err != nil {
			return nil, err
		}
		if admin.RecentActivity, err = uc.admin.decorate(ctx, activity); err != nil {
			return nil, err
		}
		d.Admin = admin
	}

	return d, nil
}
