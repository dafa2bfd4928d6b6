package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/claimdesk/claimdesk/internal/access"
	"github.com/claimdesk/claimdesk/internal/domain"
	"github.com/claimdesk/claimdesk/internal/ports"
	"github.com/claimdesk/claimdesk/pkg/apperror"
)

// Process action verbs accepted from the admin form.
const (
	ProcessActionApprove = "approve"
	ProcessActionReject  = "reject"
)

// AuditLogLimit caps the admin audit page at the most recent entries.
const AuditLogLimit = 200

// AuditView is an audit entry decorated with the performer's display name.
type AuditView struct {
	Entity        string    `json:"entity"`
	EntityID      int64     `json:"entity_id"`
	Action        string    `json:"action"`
	PerformedBy   *string   `json:"performed_by,omitempty"`
	PerformerName string    `json:"performer_name"`
	CreatedAt     time.Time `json:"created_at"`
}

// ClaimWithHistory is the admin process view: the claim plus its audit trail.
type ClaimWithHistory struct {
	Claim   *domain.Claim `json:"claim"`
	History []AuditView   `json:"history"`
}

// AdminUseCase implements the administrator side of the claim lifecycle:
// the pending queue, approve/reject processing and the audit log.
type AdminUseCase struct {
	claims ports.ClaimRepository
	audit  ports.AuditRepository
	users  ports.UserRepository
	uow    ports.UnitOfWork
}

func NewAdminUseCase(
	claims ports.ClaimRepository,
	audit ports.AuditRepository,
	users ports.UserRepository,
	uow ports.UnitOfWork,
) *AdminUseCase {
	return &AdminUseCase{claims: claims, audit: audit, users: users, uow: uow}
}

// ListPending returns the approval queue, oldest claims first.
func (uc *AdminUseCase) ListPending(ctx context.Context, p domain.Principal) ([]*domain.Claim, error) {
	if !access.CanProcess(p) {
		return nil, apperror.NewForbidden("processing claims requires the CpdAdmin role")
	}
	return uc.claims.ListPending(ctx)
}

// GetForProcess returns a claim together with its audit history for the
// admin review screen.
func (uc *AdminUseCase) GetForProcess(ctx context.Context, p domain.Principal, id int64) (*ClaimWithHistory, error) {
	if !access.CanProcess(p) {
		return nil, apperror.NewForbidden("processing claims requires the CpdAdmin role")
	}
	claim, err := uc.claims.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if claim == nil {
		return nil, apperror.NewNotFound("claim not found")
	}
	entries, err := uc.audit.ListByEntity(ctx, domain.AuditEntityClaim, claim.ID)
	if err != nil {
		return nil, err
	}
	history, err := uc.decorate(ctx, entries)
	if err != nil {
		return nil, err
	}
	return &ClaimWithHistory{Claim: claim, History: history}, nil
}

// Process applies an approve or reject decision to a pending claim.
//
// The claim row is re-read under a row lock inside the transaction, so of two
// concurrent decisions the second observes the updated status and fails the
// pending-state precondition instead of overwriting the first.
func (uc *AdminUseCase) Process(ctx context.Context, p domain.Principal, id int64, action string, amountApprovedCents *int64) (*domain.Claim, error) {
	if !access.CanProcess(p) {
		return nil, apperror.NewForbidden("processing claims requires the CpdAdmin role")
	}
	if action != ProcessActionApprove && action != ProcessActionReject {
		return nil, apperror.NewValidation("action", "unknown action")
	}

	var processed *domain.Claim
	err := uc.uow.Do(ctx, func(repos ports.TxRepos) error {
		claim, err := repos.Claims.FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if claim == nil {
			return apperror.NewNotFound("claim not found")
		}

		now := time.Now().UTC()
		switch action {
		case ProcessActionApprove:
			if amountApprovedCents == nil {
				return apperror.NewValidation("amount_approved", "approved amount must be greater than 0")
			}
			if err := claim.Approve(*amountApprovedCents, p.ID, now); err != nil {
				return err
			}
		case ProcessActionReject:
			if err := claim.Reject(p.ID, now); err != nil {
				return err
			}
		}

		if err := repos.Claims.Update(ctx, claim); err != nil {
			return err
		}
		if err := repos.Audit.Append(ctx, domain.NewClaimAudit(claim.ID, strings.ToUpper(action), p.ID)); err != nil {
			return err
		}
		processed = claim
		return nil
	})
	if err != nil {
		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to process claim: %w", err)
	}

	return processed, nil
}

// AuditLog returns the most recent audit entries with performer names
// resolved, newest first.
func (uc *AdminUseCase) AuditLog(ctx context.Context, p domain.Principal) ([]AuditView, error) {
	if !access.CanProcess(p) {
		return nil, apperror.NewForbidden("the audit log requires the CpdAdmin role")
	}
	entries, err := uc.audit.Recent(ctx, AuditLogLimit)
	if err != nil {
		return nil, err
	}
	return uc.decorate(ctx, entries)
}

func (uc *AdminUseCase) decorate(ctx context.Context, entries []*domain.AuditEntry) ([]AuditView, error) {
	ids := make([]string, 0, len(entries))
	seen := make(map[string]bool)
	for _, e := range entries {
		if e.PerformedBy != nil && !seen[*e.PerformedBy] {
			seen[*e.PerformedBy] = true
			ids = append(ids, *e.PerformedBy)
		}
	}

	var performers map[string]*domain.User
	if len(ids) > 0 {
		var err error
		performers, err = uc.users.FindByIDs(ctx, ids)
		if err != nil {
			return nil, err
		}
	}

	views := make([]AuditView, 0, len(entries))
	for _, e := range entries {
		name := "System"
		if e.PerformedBy != nil {
			name = *e.PerformedBy
			if u, ok := performers[*e.PerformedBy]; ok && u.FullName != "" {
				name = u.FullName
			}
		}
		views = append(views, AuditView{
			Entity:        e.Entity,
			EntityID:      e.EntityID,
			Action:        e.Action,
			PerformedBy:   e.PerformedBy,
			PerformerName: name,
			CreatedAt:     e.CreatedAt,
		})
	}
	return views, nil
}
