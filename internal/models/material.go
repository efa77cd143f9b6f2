package models

import (
	"time"

	"github.com/google/uuid"
)

// Preview asset health states, written by the background checker.
const (
	PreviewUnknown   = "unknown"
	PreviewHealthy   = "healthy"
	PreviewUnhealthy = "unhealthy"
)

// Material is a deliverable owned by exactly one client. Status is a
// free-form label under operator control; it is never derived from the
// approvals trail.
type Material struct {
	ID               uuid.UUID  `json:"id"`
	ClientID         uuid.UUID  `json:"client_id"`
	Title            string     `json:"title"`
	Description      string     `json:"description"`
	Status           string     `json:"status"`
	PreviewURL       string     `json:"preview_url"`
	PreviewStatus    string     `json:"preview_status"`
	PreviewCheckedAt *time.Time `json:"preview_checked_at"`
	PreviewError     *string    `json:"preview_error"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}
