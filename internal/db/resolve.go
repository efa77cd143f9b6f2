package db

import (
	"context"
	"time"

	"github.com/google/uuid"

	"atelier/internal/models"
)

// resolveChecks applies the resolution state machine shared by both link
// variants: active flag first, then the lazy expiration check. Expired links
// are never swept from storage; this check at resolution time is the only
// enforcement.
func resolveChecks(isActive bool, expiresAt *time.Time, now time.Time) error {
	if !isActive {
		return ErrLinkInactive
	}
	if expiresAt != nil && !now.Before(*expiresAt) {
		return ErrLinkExpired
	}
	return nil
}

// ResolveServiceLink validates a raw, attacker-controlled token and returns
// the service link it names. Fails with ErrLinkNotFound, ErrLinkInactive, or
// ErrLinkExpired; the public surface must collapse all three into one
// message so that which links ever existed stays unobservable.
func (d *DB) ResolveServiceLink(ctx context.Context, token string) (*models.ServiceLink, error) {
	query := `SELECT ` + serviceLinkColumns + ` FROM service_links WHERE token = $1`
	link, err := scanServiceLink(d.Pool.QueryRow(ctx, query, token))
	if err != nil {
		return nil, err
	}
	if err := resolveChecks(link.IsActive, link.ExpiresAt, time.Now()); err != nil {
		return nil, err
	}
	return link, nil
}

// ResolveClientLink validates a raw token and returns the client link it
// names, with the same failure modes as ResolveServiceLink. A successful
// resolution is only the first half of portal access: the recipient still
// has to pass the credential gate.
func (d *DB) ResolveClientLink(ctx context.Context, token string) (*models.ClientLink, error) {
	query := `SELECT ` + clientLinkColumns + ` FROM client_links WHERE token = $1`
	link, err := scanClientLink(d.Pool.QueryRow(ctx, query, token))
	if err != nil {
		return nil, err
	}
	if err := resolveChecks(link.IsActive, link.ExpiresAt, time.Now()); err != nil {
		return nil, err
	}
	return link, nil
}

// MaterializeServiceLink expands a resolved service link into the concrete
// services it grants access to: only active services, in stable display
// order. Items whose service was deleted or deactivated are dropped
// silently. One SELECT over the join, so a single read never observes a
// half-applied item edit.
func (d *DB) MaterializeServiceLink(ctx context.Context, linkID uuid.UUID) ([]models.Service, error) {
	query := `
		SELECT s.id, s.name, s.category, s.description, s.price, s.delivery_days,
			s.display_order, s.is_active, s.created_at, s.updated_at
		FROM service_link_items i
		JOIN services s ON s.id = i.service_id
		WHERE i.link_id = $1 AND s.is_active
		ORDER BY s.display_order ASC, s.name ASC
	`
	rows, err := d.Pool.Query(ctx, query, linkID)
	if err != nil {
		return nil, err
	}
	return scanServices(rows)
}
