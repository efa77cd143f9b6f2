package db

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"atelier/internal/models"
)

const materialColumns = `id, client_id, title, description, status, preview_url,
	preview_status, preview_checked_at, preview_error, created_at, updated_at`

func scanMaterial(row pgx.Row) (*models.Material, error) {
	var m models.Material
	err := row.Scan(
		&m.ID,
		&m.ClientID,
		&m.Title,
		&m.Description,
		&m.Status,
		&m.PreviewURL,
		&m.PreviewStatus,
		&m.PreviewCheckedAt,
		&m.PreviewError,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrMaterialNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func scanMaterials(rows pgx.Rows) ([]models.Material, error) {
	defer rows.Close()

	var materials []models.Material
	for rows.Next() {
		var m models.Material
		if err := rows.Scan(
			&m.ID,
			&m.ClientID,
			&m.Title,
			&m.Description,
			&m.Status,
			&m.PreviewURL,
			&m.PreviewStatus,
			&m.PreviewCheckedAt,
			&m.PreviewError,
			&m.CreatedAt,
			&m.UpdatedAt,
		); err != nil {
			return nil, err
		}
		materials = append(materials, m)
	}

	return materials, rows.Err()
}

// CreateMaterial creates a new material for a client.
func (d *DB) CreateMaterial(ctx context.Context, material *models.Material) error {
	status := material.Status
	if status == "" {
		status = "in_review"
	}

	query := `
		INSERT INTO materials (client_id, title, description, status, preview_url)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, preview_status, created_at, updated_at
	`
	err := d.Pool.QueryRow(ctx, query,
		material.ClientID,
		material.Title,
		material.Description,
		status,
		material.PreviewURL,
	).Scan(&material.ID, &material.PreviewStatus, &material.CreatedAt, &material.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return ErrClientNotFound
		}
		return err
	}

	material.Status = status
	return nil
}

// GetMaterialByID retrieves a material by ID.
func (d *DB) GetMaterialByID(ctx context.Context, id uuid.UUID) (*models.Material, error) {
	query := `SELECT ` + materialColumns + ` FROM materials WHERE id = $1`
	return scanMaterial(d.Pool.QueryRow(ctx, query, id))
}

// GetMaterialsByClient retrieves a client's materials, newest first. This is
// the portal read path; every row belongs to the session's gated client.
func (d *DB) GetMaterialsByClient(ctx context.Context, clientID uuid.UUID) ([]models.Material, error) {
	query := `SELECT ` + materialColumns + ` FROM materials WHERE client_id = $1 ORDER BY created_at DESC`
	rows, err := d.Pool.Query(ctx, query, clientID)
	if err != nil {
		return nil, err
	}
	return scanMaterials(rows)
}

// UpdateMaterial updates a material's editable fields. Status stays whatever
// the operator typed; the approvals trail never writes here.
func (d *DB) UpdateMaterial(ctx context.Context, material *models.Material) error {
	query := `
		UPDATE materials
		SET title = $1, description = $2, status = $3, preview_url = $4, updated_at = NOW()
		WHERE id = $5
		RETURNING updated_at
	`
	err := d.Pool.QueryRow(ctx, query,
		material.Title,
		material.Description,
		material.Status,
		material.PreviewURL,
		material.ID,
	).Scan(&material.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrMaterialNotFound
	}
	return err
}

// UpdateMaterialStatus sets just the pipeline label.
func (d *DB) UpdateMaterialStatus(ctx context.Context, id uuid.UUID, status string) error {
	result, err := d.Pool.Exec(ctx,
		`UPDATE materials SET status = $1, updated_at = NOW() WHERE id = $2`, status, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrMaterialNotFound
	}
	return nil
}

// DeleteMaterial deletes a material. Approval rows that reference it remain.
func (d *DB) DeleteMaterial(ctx context.Context, id uuid.UUID) error {
	result, err := d.Pool.Exec(ctx, `DELETE FROM materials WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrMaterialNotFound
	}
	return nil
}

// UpdateMaterialPreviewStatus records the outcome of a preview-asset check.
func (d *DB) UpdateMaterialPreviewStatus(ctx context.Context, id uuid.UUID, status string, errorMsg *string) error {
	query := `
		UPDATE materials
		SET preview_status = $1, preview_checked_at = NOW(), preview_error = $2
		WHERE id = $3
	`
	result, err := d.Pool.Exec(ctx, query, status, errorMsg, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrMaterialNotFound
	}
	return nil
}

// GetMaterialsNeedingPreviewCheck retrieves materials with a preview URL
// whose last check is older than maxAge.
func (d *DB) GetMaterialsNeedingPreviewCheck(ctx context.Context, maxAge time.Duration, limit int) ([]models.Material, error) {
	cutoff := time.Now().Add(-maxAge)
	query := `
		SELECT ` + materialColumns + `
		FROM materials
		WHERE preview_url != '' AND (preview_checked_at IS NULL OR preview_checked_at < $1)
		ORDER BY preview_checked_at NULLS FIRST
		LIMIT $2
	`
	rows, err := d.Pool.Query(ctx, query, cutoff, limit)
	if err != nil {
		return nil, err
	}
	return scanMaterials(rows)
}
