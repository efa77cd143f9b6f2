package db

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"atelier/internal/models"
)

const accountColumns = `id, email, password_hash, name, is_active, created_at, updated_at`

func scanAccount(row pgx.Row) (*models.ClientAccount, error) {
	var a models.ClientAccount
	err := row.Scan(
		&a.ID,
		&a.Email,
		&a.PasswordHash,
		&a.Name,
		&a.IsActive,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrAccountNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// CreateClientAccount creates a new recipient account.
func (d *DB) CreateClientAccount(ctx context.Context, account *models.ClientAccount) error {
	query := `
		INSERT INTO client_accounts (email, password_hash, name)
		VALUES ($1, $2, $3)
		RETURNING id, is_active, created_at, updated_at
	`
	err := d.Pool.QueryRow(ctx, query,
		account.Email,
		account.PasswordHash,
		account.Name,
	).Scan(&account.ID, &account.IsActive, &account.CreatedAt, &account.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateEmail
		}
		return err
	}

	return nil
}

// GetClientAccountByEmail retrieves an active account by email for the
// portal login. Deactivated accounts are treated as not found so the login
// failure is indistinguishable from a wrong password.
func (d *DB) GetClientAccountByEmail(ctx context.Context, email string) (*models.ClientAccount, error) {
	query := `SELECT ` + accountColumns + ` FROM client_accounts WHERE email = $1 AND is_active`
	return scanAccount(d.Pool.QueryRow(ctx, query, email))
}

// GetClientAccountByID retrieves an account by ID.
func (d *DB) GetClientAccountByID(ctx context.Context, id uuid.UUID) (*models.ClientAccount, error) {
	query := `SELECT ` + accountColumns + ` FROM client_accounts WHERE id = $1`
	return scanAccount(d.Pool.QueryRow(ctx, query, id))
}

// SetClientAccountActive flips the account active flag.
func (d *DB) SetClientAccountActive(ctx context.Context, id uuid.UUID, active bool) error {
	result, err := d.Pool.Exec(ctx,
		`UPDATE client_accounts SET is_active = $1, updated_at = NOW() WHERE id = $2`, active, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrAccountNotFound
	}
	return nil
}

// AddClientMember grants an account access to a client's materials.
func (d *DB) AddClientMember(ctx context.Context, clientID, accountID uuid.UUID) error {
	query := `INSERT INTO client_members (client_id, account_id) VALUES ($1, $2)`
	_, err := d.Pool.Exec(ctx, query, clientID, accountID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23505":
				return ErrDuplicateMember
			case "23503":
				return ErrClientNotFound
			}
		}
		return err
	}
	return nil
}

// RemoveClientMember revokes an account's access to a client's materials.
func (d *DB) RemoveClientMember(ctx context.Context, clientID, accountID uuid.UUID) error {
	_, err := d.Pool.Exec(ctx,
		`DELETE FROM client_members WHERE client_id = $1 AND account_id = $2`, clientID, accountID)
	return err
}

// IsClientMember reports whether the account holds a standing grant on the
// client. This is the Access Gate's authorization check, independent of any
// share token.
func (d *DB) IsClientMember(ctx context.Context, clientID, accountID uuid.UUID) (bool, error) {
	var exists bool
	err := d.Pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM client_members WHERE client_id = $1 AND account_id = $2)`,
		clientID, accountID,
	).Scan(&exists)
	return exists, err
}

// GetClientMembers returns the accounts with access to a client.
func (d *DB) GetClientMembers(ctx context.Context, clientID uuid.UUID) ([]models.ClientAccount, error) {
	query := `
		SELECT a.id, a.email, a.password_hash, a.name, a.is_active, a.created_at, a.updated_at
		FROM client_accounts a
		JOIN client_members m ON m.account_id = a.id
		WHERE m.client_id = $1
		ORDER BY a.email ASC
	`

	rows, err := d.Pool.Query(ctx, query, clientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []models.ClientAccount
	for rows.Next() {
		var a models.ClientAccount
		if err := rows.Scan(
			&a.ID, &a.Email, &a.PasswordHash, &a.Name, &a.IsActive,
			&a.CreatedAt, &a.UpdatedAt,
		); err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}

	return accounts, rows.Err()
}
