package domain

import "time"

// Audit action vocabulary. APPROVE and REJECT are the uppercased process
// action verbs; the receipt actions record read access to stored files.
const (
	AuditActionCreate          = "CREATE"
	AuditActionUpdate          = "UPDATE"
	AuditActionDelete          = "DELETE"
	AuditActionApprove         = "APPROVE"
	AuditActionReject          = "REJECT"
	AuditActionReceiptPreview  = "RECEIPT_PREVIEW"
	AuditActionReceiptDownload = "RECEIPT_DOWNLOAD"
)

// AuditEntityClaim is the entity name recorded for claim audit entries.
const AuditEntityClaim = "claim"

// AuditEntry is an immutable audit log record. Entries are append-only:
// application logic never updates or deletes them, and deleting a claim does
// not remove its trail.
type AuditEntry struct {
	ID          string    `json:"id"`
	Entity      string    `json:"entity"`
	EntityID    int64     `json:"entity_id"`
	Action      string    `json:"action"`
	PerformedBy *string   `json:"performed_by,omitempty"` // nil means system-initiated
	CreatedAt   time.Time `json:"created_at"`
}

// NewClaimAudit builds an audit entry for a claim action performed by the
// given principal.
func NewClaimAudit(claimID int64, action, performedBy string) *AuditEntry {
	e := &AuditEntry{
		Entity:    AuditEntityClaim,
		EntityID:  claimID,
		Action:    action,
		CreatedAt: time.Now().UTC(),
	}
	if performedBy != "" {
		e.PerformedBy = &performedBy
	}
	return e
}
