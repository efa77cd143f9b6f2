package db

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"atelier/internal/models"
)

const clientColumns = `id, name, company, contact_email, notes, created_at, updated_at`

func scanClient(row pgx.Row) (*models.Client, error) {
	var c models.Client
	err := row.Scan(
		&c.ID,
		&c.Name,
		&c.Company,
		&c.ContactEmail,
		&c.Notes,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrClientNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// CreateClient creates a new client.
func (d *DB) CreateClient(ctx context.Context, client *models.Client) error {
	query := `
		INSERT INTO clients (name, company, contact_email, notes)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`
	return d.Pool.QueryRow(ctx, query,
		client.Name,
		client.Company,
		client.ContactEmail,
		client.Notes,
	).Scan(&client.ID, &client.CreatedAt, &client.UpdatedAt)
}

// GetClientByID retrieves a client by ID.
func (d *DB) GetClientByID(ctx context.Context, id uuid.UUID) (*models.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients WHERE id = $1`
	return scanClient(d.Pool.QueryRow(ctx, query, id))
}

// GetAllClients retrieves all clients ordered by name.
func (d *DB) GetAllClients(ctx context.Context) ([]models.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients ORDER BY name ASC`

	rows, err := d.Pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var clients []models.Client
	for rows.Next() {
		var c models.Client
		if err := rows.Scan(
			&c.ID, &c.Name, &c.Company, &c.ContactEmail, &c.Notes,
			&c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, err
		}
		clients = append(clients, c)
	}

	return clients, rows.Err()
}

// UpdateClient updates a client's editable fields.
func (d *DB) UpdateClient(ctx context.Context, client *models.Client) error {
	query := `
		UPDATE clients
		SET name = $1, company = $2, contact_email = $3, notes = $4, updated_at = NOW()
		WHERE id = $5
		RETURNING updated_at
	`
	err := d.Pool.QueryRow(ctx, query,
		client.Name,
		client.Company,
		client.ContactEmail,
		client.Notes,
		client.ID,
	).Scan(&client.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrClientNotFound
	}
	return err
}

// DeleteClient deletes a client. Materials and memberships cascade; approval
// rows do not, so the audit trail survives.
func (d *DB) DeleteClient(ctx context.Context, id uuid.UUID) error {
	result, err := d.Pool.Exec(ctx, `DELETE FROM clients WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrClientNotFound
	}
	return nil
}
