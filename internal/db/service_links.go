package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"atelier/internal/models"
)

const serviceLinkColumns = `id, token, name, recipient_name, is_active, expires_at, created_at, updated_at`

func scanServiceLink(row pgx.Row) (*models.ServiceLink, error) {
	var l models.ServiceLink
	err := row.Scan(
		&l.ID,
		&l.Token,
		&l.Name,
		&l.RecipientName,
		&l.IsActive,
		&l.ExpiresAt,
		&l.CreatedAt,
		&l.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrLinkNotFound
	}
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// CreateServiceLink inserts a new service share link. The caller provides a
// freshly generated token; the unique index is the backstop against the
// astronomically unlikely collision.
func (d *DB) CreateServiceLink(ctx context.Context, link *models.ServiceLink) error {
	query := `
		INSERT INTO service_links (token, name, recipient_name, is_active, expires_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`
	err := d.Pool.QueryRow(ctx, query,
		link.Token,
		link.Name,
		link.RecipientName,
		link.IsActive,
		link.ExpiresAt,
	).Scan(&link.ID, &link.CreatedAt, &link.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateToken
		}
		return err
	}

	return nil
}

// GetServiceLinkByID retrieves a service link by ID.
func (d *DB) GetServiceLinkByID(ctx context.Context, id uuid.UUID) (*models.ServiceLink, error) {
	query := `SELECT ` + serviceLinkColumns + ` FROM service_links WHERE id = $1`
	return scanServiceLink(d.Pool.QueryRow(ctx, query, id))
}

// GetAllServiceLinks retrieves all service links, newest first.
func (d *DB) GetAllServiceLinks(ctx context.Context) ([]models.ServiceLink, error) {
	query := `SELECT ` + serviceLinkColumns + ` FROM service_links ORDER BY created_at DESC`

	rows, err := d.Pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var links []models.ServiceLink
	for rows.Next() {
		var l models.ServiceLink
		if err := rows.Scan(
			&l.ID, &l.Token, &l.Name, &l.RecipientName, &l.IsActive,
			&l.ExpiresAt, &l.CreatedAt, &l.UpdatedAt,
		); err != nil {
			return nil, err
		}
		links = append(links, l)
	}

	return links, rows.Err()
}

// UpdateServiceLink updates a link's label fields and expiration. The token
// is immutable for the life of the link.
func (d *DB) UpdateServiceLink(ctx context.Context, link *models.ServiceLink) error {
	query := `
		UPDATE service_links
		SET name = $1, recipient_name = $2, expires_at = $3, updated_at = NOW()
		WHERE id = $4
		RETURNING updated_at
	`
	err := d.Pool.QueryRow(ctx, query,
		link.Name,
		link.RecipientName,
		link.ExpiresAt,
		link.ID,
	).Scan(&link.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrLinkNotFound
	}
	return err
}

// SetServiceLinkActive flips the active flag (deactivate/reactivate).
func (d *DB) SetServiceLinkActive(ctx context.Context, id uuid.UUID, active bool) error {
	result, err := d.Pool.Exec(ctx,
		`UPDATE service_links SET is_active = $1, updated_at = NOW() WHERE id = $2`, active, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrLinkNotFound
	}
	return nil
}

// DeleteServiceLink deletes a link. Its item rows cascade; the referenced
// services are untouched.
func (d *DB) DeleteServiceLink(ctx context.Context, id uuid.UUID) error {
	result, err := d.Pool.Exec(ctx, `DELETE FROM service_links WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrLinkNotFound
	}
	return nil
}

// GetServiceLinkItems returns the service IDs currently bound to a link.
func (d *DB) GetServiceLinkItems(ctx context.Context, linkID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := d.Pool.Query(ctx,
		`SELECT service_id FROM service_link_items WHERE link_id = $1`, linkID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

// ReplaceServiceLinkItems rebinds a link's scope: delete every item row, then
// re-insert the new set. If an insert fails, the remaining rows are cleared
// and the error returned, so the link ends up with zero items instead of a
// stale mix of old and new. The operator surface must show that failure.
func (d *DB) ReplaceServiceLinkItems(ctx context.Context, linkID uuid.UUID, serviceIDs []uuid.UUID) error {
	if _, err := d.Pool.Exec(ctx,
		`DELETE FROM service_link_items WHERE link_id = $1`, linkID); err != nil {
		return err
	}

	for _, sid := range serviceIDs {
		_, err := d.Pool.Exec(ctx,
			`INSERT INTO service_link_items (link_id, service_id) VALUES ($1, $2)
			 ON CONFLICT DO NOTHING`,
			linkID, sid)
		if err != nil {
			// Leave the link with zero items rather than a partial set. If
			// the cleanup itself fails, say so: the caller must not tell the
			// operator the link is empty when it may not be.
			if _, delErr := d.Pool.Exec(ctx,
				`DELETE FROM service_link_items WHERE link_id = $1`, linkID); delErr != nil {
				return fmt.Errorf("%w: insert: %v, cleanup: %v", ErrScopeCleanupFailed, err, delErr)
			}
			return err
		}
	}

	return nil
}
