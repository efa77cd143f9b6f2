package db

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"atelier/internal/models"
)

const clientLinkColumns = `id, token, client_id, name, recipient_name, is_active, expires_at, created_at, updated_at`

func scanClientLink(row pgx.Row) (*models.ClientLink, error) {
	var l models.ClientLink
	err := row.Scan(
		&l.ID,
		&l.Token,
		&l.ClientID,
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

// CreateClientLink inserts a new client material share link.
func (d *DB) CreateClientLink(ctx context.Context, link *models.ClientLink) error {
	query := `
		INSERT INTO client_links (token, client_id, name, recipient_name, is_active, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`
	err := d.Pool.QueryRow(ctx, query,
		link.Token,
		link.ClientID,
		link.Name,
		link.RecipientName,
		link.IsActive,
		link.ExpiresAt,
	).Scan(&link.ID, &link.CreatedAt, &link.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23505":
				return ErrDuplicateToken
			case "23503":
				return ErrClientNotFound
			}
		}
		return err
	}

	return nil
}

// GetClientLinkByID retrieves a client link by ID.
func (d *DB) GetClientLinkByID(ctx context.Context, id uuid.UUID) (*models.ClientLink, error) {
	query := `SELECT ` + clientLinkColumns + ` FROM client_links WHERE id = $1`
	return scanClientLink(d.Pool.QueryRow(ctx, query, id))
}

// GetClientLinksByClient retrieves all links issued for one client.
func (d *DB) GetClientLinksByClient(ctx context.Context, clientID uuid.UUID) ([]models.ClientLink, error) {
	query := `SELECT ` + clientLinkColumns + ` FROM client_links WHERE client_id = $1 ORDER BY created_at DESC`
	return d.queryClientLinks(ctx, query, clientID)
}

// GetAllClientLinks retrieves all client links, newest first.
func (d *DB) GetAllClientLinks(ctx context.Context) ([]models.ClientLink, error) {
	query := `SELECT ` + clientLinkColumns + ` FROM client_links ORDER BY created_at DESC`
	return d.queryClientLinks(ctx, query)
}

func (d *DB) queryClientLinks(ctx context.Context, query string, args ...any) ([]models.ClientLink, error) {
	rows, err := d.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var links []models.ClientLink
	for rows.Next() {
		var l models.ClientLink
		if err := rows.Scan(
			&l.ID, &l.Token, &l.ClientID, &l.Name, &l.RecipientName,
			&l.IsActive, &l.ExpiresAt, &l.CreatedAt, &l.UpdatedAt,
		); err != nil {
			return nil, err
		}
		links = append(links, l)
	}

	return links, rows.Err()
}

// UpdateClientLink updates a link's label fields and expiration.
func (d *DB) UpdateClientLink(ctx context.Context, link *models.ClientLink) error {
	query := `
		UPDATE client_links
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

// SetClientLinkActive flips the active flag (deactivate/reactivate).
func (d *DB) SetClientLinkActive(ctx context.Context, id uuid.UUID, active bool) error {
	result, err := d.Pool.Exec(ctx,
		`UPDATE client_links SET is_active = $1, updated_at = NOW() WHERE id = $2`, active, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrLinkNotFound
	}
	return nil
}

// DeleteClientLink deletes a link. The client, its materials, and all
// approval rows remain; only the access path disappears.
func (d *DB) DeleteClientLink(ctx context.Context, id uuid.UUID) error {
	result, err := d.Pool.Exec(ctx, `DELETE FROM client_links WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrLinkNotFound
	}
	return nil
}
