// Package access centralizes the claim authorization policy. All handlers and
// usecases consult these predicates instead of branching on roles inline, so
// the policy lives (and is tested) in one place.
package access

import "github.com/claimdesk/claimdesk/internal/domain"

// CanView reports whether the principal may see the claim: the owner, or
// anyone holding the CpdAdmin or Finance role.
func CanView(c *domain.Claim, p domain.Principal) bool {
	if c.EmployeeID == p.ID {
		return true
	}
	return p.HasRole(domain.RoleCpdAdmin) || p.HasRole(domain.RoleFinance)
}

// CanEdit reports whether the principal may edit the claim. Only the owner
// may edit, and only while the claim is still pending. Admins never edit;
// they process through the admin endpoint instead.
func CanEdit(c *domain.Claim, p domain.Principal) bool {
	return c.EmployeeID == p.ID && c.Status == domain.ClaimStatusPending
}

// CanDelete reports whether the principal may delete the claim: the owner
// while pending, or CpdAdmin/Finance regardless of status.
func CanDelete(c *domain.Claim, p domain.Principal) bool {
	if p.HasRole(domain.RoleCpdAdmin) || p.HasRole(domain.RoleFinance) {
		return true
	}
	return c.EmployeeID == p.ID && c.Status == domain.ClaimStatusPending
}

// CanProcess reports whether the principal may approve or reject claims.
// Processing is reserved for CpdAdmin.
func CanProcess(p domain.Principal) bool {
	return p.HasRole(domain.RoleCpdAdmin)
}
