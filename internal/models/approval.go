package models

import (
	"time"

	"github.com/google/uuid"
)

// Approval actions a recipient can record against a material.
const (
	ActionApprove = "approve"
	ActionReject  = "reject"
	ActionComment = "comment"
)

// ValidAction reports whether s is a recordable approval action.
func ValidAction(s string) bool {
	switch s {
	case ActionApprove, ActionReject, ActionComment:
		return true
	}
	return false
}

// Approval is one append-only row in the audit trail. Rows are never updated
// or deleted by the workflow; the same account may approve, reject, and
// comment on the same material any number of times.
type Approval struct {
	ID         uuid.UUID `json:"id"`
	MaterialID uuid.UUID `json:"material_id"`
	AccountID  uuid.UUID `json:"account_id"`
	Action     string    `json:"action"`
	Comment    string    `json:"comment"`
	CreatedAt  time.Time `json:"created_at"`
}

// ApprovalFeedEntry is one row of the operator notification feed: an approval
// joined with human-readable labels. Label fields fall back to placeholders
// when the referenced material or account no longer exists.
type ApprovalFeedEntry struct {
	Approval
	MaterialTitle string `json:"material_title"`
	ClientName    string `json:"client_name"`
	AccountName   string `json:"account_name"`
	AccountEmail  string `json:"account_email"`
}
