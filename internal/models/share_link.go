package models

import (
	"time"

	"github.com/google/uuid"
)

// Operator-facing link states. Anonymous recipients never see these; the
// public pages collapse every failure into one generic message.
const (
	LinkStateActive      = "active"
	LinkStateDeactivated = "deactivated"
	LinkStateExpired     = "expired"
)

// ServiceLink is a shareable, tokenized view onto a set of catalog services.
// The token is the sole bearer credential; no login is required to open it.
type ServiceLink struct {
	ID            uuid.UUID  `json:"id"`
	Token         string     `json:"token"`
	Name          string     `json:"name"`
	RecipientName string     `json:"recipient_name"`
	IsActive      bool       `json:"is_active"`
	ExpiresAt     *time.Time `json:"expires_at"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// State returns the operator-facing state of the link.
func (l *ServiceLink) State(now time.Time) string {
	return linkState(l.IsActive, l.ExpiresAt, now)
}

// ClientLink is a shareable, tokenized entry to one client's material portal.
// Opening it additionally requires an account with membership on the client.
type ClientLink struct {
	ID            uuid.UUID  `json:"id"`
	Token         string     `json:"token"`
	ClientID      uuid.UUID  `json:"client_id"`
	Name          string     `json:"name"`
	RecipientName string     `json:"recipient_name"`
	IsActive      bool       `json:"is_active"`
	ExpiresAt     *time.Time `json:"expires_at"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// State returns the operator-facing state of the link.
func (l *ClientLink) State(now time.Time) string {
	return linkState(l.IsActive, l.ExpiresAt, now)
}

// linkState reports deactivation before expiry: a link that is both wins the
// label an operator can act on.
func linkState(isActive bool, expiresAt *time.Time, now time.Time) string {
	if !isActive {
		return LinkStateDeactivated
	}
	if expiresAt != nil && !now.Before(*expiresAt) {
		return LinkStateExpired
	}
	return LinkStateActive
}
