package db

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"atelier/internal/models"
)

const serviceColumns = `id, name, category, description, price, delivery_days,
	display_order, is_active, created_at, updated_at`

func scanService(row pgx.Row) (*models.Service, error) {
	var s models.Service
	err := row.Scan(
		&s.ID,
		&s.Name,
		&s.Category,
		&s.Description,
		&s.Price,
		&s.DeliveryDays,
		&s.DisplayOrder,
		&s.IsActive,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrServiceNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func scanServices(rows pgx.Rows) ([]models.Service, error) {
	defer rows.Close()

	var services []models.Service
	for rows.Next() {
		var s models.Service
		if err := rows.Scan(
			&s.ID,
			&s.Name,
			&s.Category,
			&s.Description,
			&s.Price,
			&s.DeliveryDays,
			&s.DisplayOrder,
			&s.IsActive,
			&s.CreatedAt,
			&s.UpdatedAt,
		); err != nil {
			return nil, err
		}
		services = append(services, s)
	}

	return services, rows.Err()
}

// CreateService creates a new catalog service.
func (d *DB) CreateService(ctx context.Context, service *models.Service) error {
	query := `
		INSERT INTO services (name, category, description, price, delivery_days, display_order, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`
	return d.Pool.QueryRow(ctx, query,
		service.Name,
		service.Category,
		service.Description,
		service.Price,
		service.DeliveryDays,
		service.DisplayOrder,
		service.IsActive,
	).Scan(&service.ID, &service.CreatedAt, &service.UpdatedAt)
}

// GetServiceByID retrieves a service by ID.
func (d *DB) GetServiceByID(ctx context.Context, id uuid.UUID) (*models.Service, error) {
	query := `SELECT ` + serviceColumns + ` FROM services WHERE id = $1`
	return scanService(d.Pool.QueryRow(ctx, query, id))
}

// GetAllServices retrieves the full catalog for the admin surface, inactive
// entries included.
func (d *DB) GetAllServices(ctx context.Context) ([]models.Service, error) {
	query := `SELECT ` + serviceColumns + ` FROM services ORDER BY display_order ASC, name ASC`
	rows, err := d.Pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	return scanServices(rows)
}

// UpdateService updates a service's editable fields.
func (d *DB) UpdateService(ctx context.Context, service *models.Service) error {
	query := `
		UPDATE services
		SET name = $1, category = $2, description = $3, price = $4,
			delivery_days = $5, display_order = $6, is_active = $7, updated_at = NOW()
		WHERE id = $8
		RETURNING updated_at
	`
	err := d.Pool.QueryRow(ctx, query,
		service.Name,
		service.Category,
		service.Description,
		service.Price,
		service.DeliveryDays,
		service.DisplayOrder,
		service.IsActive,
		service.ID,
	).Scan(&service.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrServiceNotFound
	}
	return err
}

// DeleteService deletes a service. Link items referencing it cascade; the
// links themselves remain and simply materialize without it.
func (d *DB) DeleteService(ctx context.Context, id uuid.UUID) error {
	result, err := d.Pool.Exec(ctx, `DELETE FROM services WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrServiceNotFound
	}
	return nil
}
