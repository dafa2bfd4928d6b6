package domain

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/claimdesk/claimdesk/pkg/apperror"
)

// ClaimStatus represents the lifecycle state of a claim.
type ClaimStatus string

const (
	ClaimStatusPending  ClaimStatus = "PENDING"
	ClaimStatusApproved ClaimStatus = "APPROVED"
	ClaimStatusRejected ClaimStatus = "REJECTED"
)

const (
	// MaxTitleLength bounds the claim title.
	MaxTitleLength = 100

	// MaxAmountCents is the upper bound for claimed and approved amounts:
	// 100000 currency units, stored as cents.
	MaxAmountCents int64 = 100000 * 100
)

// Claim is a reimbursement request submitted by an employee.
//
// Invariants:
// - AmountClaimedCents is in (0, MaxAmountCents].
// - AmountApprovedCents is non-nil only when Status is APPROVED, and then in (0, MaxAmountCents].
// - Status only ever moves PENDING -> APPROVED or PENDING -> REJECTED.
// - ClaimRef is generated once at creation and never changes.
type Claim struct {
	ID                  int64       `json:"id"`
	ClaimRef            string      `json:"claim_ref"`
	EmployeeID          string      `json:"employee_id"`
	Title               string      `json:"title"`
	Description         string      `json:"description"`
	AmountClaimedCents  int64       `json:"amount_claimed_cents"`
	AmountApprovedCents *int64      `json:"amount_approved_cents,omitempty"`
	Status              ClaimStatus `json:"status"`
	ReceiptPath         *string     `json:"receipt_path,omitempty"`
	ProcessedAt         *time.Time  `json:"processed_at,omitempty"`
	ProcessedBy         *string     `json:"processed_by,omitempty"`
	CreatedAt           time.Time   `json:"created_at"`
}

// NewClaim creates a pending claim with a fresh claim reference.
func NewClaim(employeeID, title, description string, amountCents int64) (*Claim, error) {
	if err := validateTitle(title); err != nil {
		return nil, err
	}
	if err := validateAmount(amountCents); err != nil {
		return nil, err
	}
	if employeeID == "" {
		return nil, apperror.NewValidation("employee_id", "employee id is required")
	}

	return &Claim{
		ClaimRef:           strings.ReplaceAll(uuid.NewString(), "-", ""),
		EmployeeID:         employeeID,
		Title:              title,
		Description:        description,
		AmountClaimedCents: amountCents,
		Status:             ClaimStatusPending,
		CreatedAt:          time.Now().UTC(),
	}, nil
}

// UpdateDetails replaces the mutable fields of a pending claim.
// Callers are responsible for the owner/status authorization check.
func (c *Claim) UpdateDetails(title, description string, amountCents int64) error {
	if c.Status != ClaimStatusPending {
		return apperror.NewState("only pending claims can be edited")
	}
	if err := validateTitle(title); err != nil {
		return err
	}
	if err := validateAmount(amountCents); err != nil {
		return err
	}
	c.Title = title
	c.Description = description
	c.AmountClaimedCents = amountCents
	return nil
}

// Approve transitions a pending claim to APPROVED with the granted amount.
func (c *Claim) Approve(amountCents int64, adminID string, now time.Time) error {
	if c.Status != ClaimStatusPending {
		return apperror.NewState("claim has already been processed")
	}
	if amountCents <= 0 {
		return apperror.NewValidation("amount_approved", "approved amount must be greater than 0")
	}
	if amountCents > MaxAmountCents {
		return apperror.NewValidation("amount_approved", "approved amount exceeds the allowed maximum")
	}
	c.Status = ClaimStatusApproved
	c.AmountApprovedCents = &amountCents
	c.ProcessedAt = &now
	c.ProcessedBy = &adminID
	return nil
}

// Reject transitions a pending claim to REJECTED. Any approved amount is
// cleared so the invariant "approved amount only when approved" holds.
func (c *Claim) Reject(adminID string, now time.Time) error {
	if c.Status != ClaimStatusPending {
		return apperror.NewState("claim has already been processed")
	}
	c.Status = ClaimStatusRejected
	c.AmountApprovedCents = nil
	c.ProcessedAt = &now
	c.ProcessedBy = &adminID
	return nil
}

func validateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return apperror.NewValidation("title", "title is required")
	}
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return apperror.NewValidation("title", "title must not exceed 100 characters")
	}
	return nil
}

func validateAmount(amountCents int64) error {
	if amountCents <= 0 {
		return apperror.NewValidation("amount_claimed", "claimed amount must be greater than 0")
	}
	if amountCents > MaxAmountCents {
		return apperror.NewValidation("amount_claimed", "claimed amount exceeds the allowed maximum of 100000")
	}
	return nil
}
