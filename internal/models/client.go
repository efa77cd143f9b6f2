package models

import (
	"time"

	"github.com/google/uuid"
)

// Client represents a studio client whose materials can be shared for review.
type Client struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Company      string    `json:"company"`
	ContactEmail string    `json:"contact_email"`
	Notes        string    `json:"notes"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ClientAccount is a recipient identity for the material portal.
// Authenticated with email/password, independent of any share token.
type ClientAccount struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Name         string    `json:"name"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ClientMember grants an account standing access to one client's materials.
type ClientMember struct {
	ClientID  uuid.UUID `json:"client_id"`
	AccountID uuid.UUID `json:"account_id"`
	CreatedAt time.Time `json:"created_at"`
}
