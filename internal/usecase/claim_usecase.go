package usecase

import (
	"context"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/claimdesk/claimdesk/internal/access"
	"github.com/claimdesk/claimdesk/internal/domain"
	"github.com/claimdesk/claimdesk/internal/ports"
	"github.com/claimdesk/claimdesk/internal/upload"
	"github.com/claimdesk/claimdesk/pkg/apperror"
)

// CreateClaimInput carries the fields for a new claim. Receipt is optional
// and must already have passed intake validation.
type CreateClaimInput struct {
	Title       string
	Description string
	AmountCents int64
	Receipt     *upload.ValidatedFile
}

// EditClaimInput carries the replacement fields for a pending claim.
type EditClaimInput struct {
	Title       string
	Description string
	AmountCents int64
	NewReceipt  *upload.ValidatedFile
}

// ReceiptMode selects inline preview or forced download when serving a
// stored receipt.
type ReceiptMode string

const (
	ReceiptModePreview  ReceiptMode = "preview"
	ReceiptModeDownload ReceiptMode = "download"
)

// ReceiptFile is an open receipt stream ready to be written to a response.
type ReceiptFile struct {
	Content     io.ReadCloser
	ContentType string
	FileName    string
	Mode        ReceiptMode
}

// ClaimUseCase implements the claim lifecycle for employees: create, edit,
// delete and receipt access. Every mutation appends exactly one audit entry
// in the same transaction as the claim write.
type ClaimUseCase struct {
	claims   ports.ClaimRepository
	audit    ports.AuditRepository
	uow      ports.UnitOfWork
	receipts ports.ReceiptStore
	log      *logrus.Logger
}

func NewClaimUseCase(
	claims ports.ClaimRepository,
	audit ports.AuditRepository,
	uow ports.UnitOfWork,
	receipts ports.ReceiptStore,
	log *logrus.Logger,
) *ClaimUseCase {
	return &ClaimUseCase{
		claims:   claims,
		audit:    audit,
		uow:      uow,
		receipts: receipts,
		log:      log,
	}
}

// Create validates and stores a new pending claim owned by the principal.
func (uc *ClaimUseCase) Create(ctx context.Context, p domain.Principal, in CreateClaimInput) (*domain.Claim, error) {
	claim, err := domain.NewClaim(p.ID, in.Title, in.Description, in.AmountCents)
	if err != nil {
		return nil, err
	}

	if in.Receipt != nil {
		relPath, err := uc.receipts.Save(ctx, p.ID, in.Receipt)
		if err != nil {
			// A failed write aborts the whole operation; the caller sees a
			// field-level message, not filesystem detail.
			uc.log.WithError(err).WithField("employee_id", p.ID).Error("receipt save failed")
			return nil, apperror.NewStorage("could not store the receipt, please try again")
		}
		claim.ReceiptPath = &relPath
	}

	err = uc.uow.Do(ctx, func(repos ports.TxRepos) error {
		if err := repos.Claims.Create(ctx, claim); err != nil {
			return err
		}
		return repos.Audit.Append(ctx, domain.NewClaimAudit(claim.ID, domain.AuditActionCreate, p.ID))
	})
	if err != nil {
		// The claim row never landed; clean up the stored file so it does not
		// dangle. Best-effort only.
		if claim.ReceiptPath != nil {
			uc.removeReceipt(ctx, *claim.ReceiptPath)
		}
		return nil, fmt.Errorf("failed to create claim: %w", err)
	}

	return claim, nil
}

// Get returns a single claim after the view authorization check.
func (uc *ClaimUseCase) Get(ctx context.Context, p domain.Principal, id int64) (*domain.Claim, error) {
	claim, err := uc.claims.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if claim == nil {
		return nil, apperror.NewNotFound("claim not found")
	}
	if !access.CanView(claim, p) {
		return nil, apperror.NewForbidden("you are not allowed to view this claim")
	}
	return claim, nil
}

// ListMine returns the principal's claims, newest first.
func (uc *ClaimUseCase) ListMine(ctx context.Context, p domain.Principal) ([]*domain.Claim, error) {
	return uc.claims.ListByEmployee(ctx, p.ID)
}

// Edit replaces the mutable fields of a pending claim owned by the principal.
// When a new receipt is supplied the previous file is removed best-effort
// after the transaction commits; a failed delete is logged, never fatal.
func (uc *ClaimUseCase) Edit(ctx context.Context, p domain.Principal, id int64, in EditClaimInput) (*domain.Claim, error) {
	claim, err := uc.claims.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if claim == nil {
		return nil, apperror.NewNotFound("claim not found")
	}
	if !access.CanEdit(claim, p) {
		if claim.EmployeeID != p.ID {
			return nil, apperror.NewForbidden("only the claim owner can edit it")
		}
		return nil, apperror.NewState("only pending claims can be edited")
	}

	if err := claim.UpdateDetails(in.Title, in.Description, in.AmountCents); err != nil {
		return nil, err
	}

	var oldReceipt *string
	if in.NewReceipt != nil {
		relPath, err := uc.receipts.Save(ctx, p.ID, in.NewReceipt)
		if err != nil {
			uc.log.WithError(err).WithField("claim_id", id).Error("receipt save failed")
			return nil, apperror.NewStorage("could not store the receipt, please try again")
		}
		oldReceipt = claim.ReceiptPath
		claim.ReceiptPath = &relPath
	}

	err = uc.uow.Do(ctx, func(repos ports.TxRepos) error {
		if err := repos.Claims.Update(ctx, claim); err != nil {
			return err
		}
		return repos.Audit.Append(ctx, domain.NewClaimAudit(claim.ID, domain.AuditActionUpdate, p.ID))
	})
	if err != nil {
		if in.NewReceipt != nil && claim.ReceiptPath != nil {
			uc.removeReceipt(ctx, *claim.ReceiptPath)
		}
		return nil, fmt.Errorf("failed to update claim: %w", err)
	}

	if oldReceipt != nil {
		uc.removeReceipt(ctx, *oldReceipt)
	}

	return claim, nil
}

// Delete removes a claim under the delete policy. The audit entry is written
// in the same transaction as the row removal and survives it; the receipt
// file is removed best-effort after commit.
func (uc *ClaimUseCase) Delete(ctx context.Context, p domain.Principal, id int64) error {
	claim, err := uc.claims.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if claim == nil {
		return apperror.NewNotFound("claim not found")
	}
	if !access.CanDelete(claim, p) {
		if claim.EmployeeID == p.ID {
			return apperror.NewState("only pending claims can be deleted")
		}
		return apperror.NewForbidden("you are not allowed to delete this claim")
	}

	err = uc.uow.Do(ctx, func(repos ports.TxRepos) error {
		if err := repos.Audit.Append(ctx, domain.NewClaimAudit(claim.ID, domain.AuditActionDelete, p.ID)); err != nil {
			return err
		}
		return repos.Claims.Delete(ctx, claim.ID)
	})
	if err != nil {
		return fmt.Errorf("failed to delete claim: %w", err)
	}

	if claim.ReceiptPath != nil {
		uc.removeReceipt(ctx, *claim.ReceiptPath)
	}

	return nil
}

// OpenReceipt streams a claim's receipt after the view check, recording the
// access in the audit trail. Storage failures surface as not-found so the
// response never leaks filesystem detail.
func (uc *ClaimUseCase) OpenReceipt(ctx context.Context, p domain.Principal, id int64, mode ReceiptMode) (*ReceiptFile, error) {
	claim, err := uc.claims.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if claim == nil || claim.ReceiptPath == nil {
		return nil, apperror.NewNotFound("receipt not found")
	}
	if !access.CanView(claim, p) {
		return nil, apperror.NewForbidden("you are not allowed to view this claim")
	}

	if mode != ReceiptModeDownload {
		mode = ReceiptModePreview
	}

	content, err := uc.receipts.Open(ctx, *claim.ReceiptPath)
	if err != nil {
		uc.log.WithError(err).WithField("claim_id", id).Warn("receipt open failed")
		return nil, apperror.NewNotFound("receipt not found")
	}

	action := domain.AuditActionReceiptPreview
	if mode == ReceiptModeDownload {
		action = domain.AuditActionReceiptDownload
	}
	if err := uc.audit.Append(ctx, domain.NewClaimAudit(claim.ID, action, p.ID)); err != nil {
		_ = content.Close()
		return nil, fmt.Errorf("failed to record receipt access: %w", err)
	}

	return &ReceiptFile{
		Content:     content,
		ContentType: upload.ContentTypeForPath(*claim.ReceiptPath),
		FileName:    claim.ClaimRef + upload.ExtForPath(*claim.ReceiptPath),
		Mode:        mode,
	}, nil
}

func (uc *ClaimUseCase) removeReceipt(ctx context.Context, relPath string) {
	if err := uc.receipts.Remove(ctx, relPath); err != nil {
		uc.log.WithError(err).WithField("receipt_path", relPath).Warn("orphaned receipt file left behind")
	}
}
