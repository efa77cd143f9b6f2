package db

import (
	"context"

	"github.com/google/uuid"

	"atelier/internal/models"
)

// CreateApproval appends one row to the audit trail. There is deliberately
// no uniqueness across (material, account): the same recipient may approve,
// then reject, then comment, and all of it stays visible.
func (d *DB) CreateApproval(ctx context.Context, approval *models.Approval) error {
	query := `
		INSERT INTO approvals (material_id, account_id, action, comment)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`
	return d.Pool.QueryRow(ctx, query,
		approval.MaterialID,
		approval.AccountID,
		approval.Action,
		approval.Comment,
	).Scan(&approval.ID, &approval.CreatedAt)
}

// GetApprovalsByMaterial returns a material's trail, newest first.
func (d *DB) GetApprovalsByMaterial(ctx context.Context, materialID uuid.UUID) ([]models.Approval, error) {
	query := `
		SELECT id, material_id, account_id, action, comment, created_at
		FROM approvals
		WHERE material_id = $1
		ORDER BY created_at DESC
	`
	rows, err := d.Pool.Query(ctx, query, materialID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var approvals []models.Approval
	for rows.Next() {
		var a models.Approval
		if err := rows.Scan(
			&a.ID, &a.MaterialID, &a.AccountID, &a.Action, &a.Comment, &a.CreatedAt,
		); err != nil {
			return nil, err
		}
		approvals = append(approvals, a)
	}

	return approvals, rows.Err()
}

// GetRecentApprovals returns the operator notification feed: the newest
// limit rows across all materials, joined with readable labels. References
// to since-deleted materials, clients, or accounts render as placeholders
// instead of being an error — the trail outlives what it points at.
func (d *DB) GetRecentApprovals(ctx context.Context, limit int) ([]models.ApprovalFeedEntry, error) {
	query := `
		SELECT ap.id, ap.material_id, ap.account_id, ap.action, ap.comment, ap.created_at,
			COALESCE(m.title, '(deleted material)'),
			COALESCE(c.name, '(deleted client)'),
			COALESCE(a.name, '(deleted account)'),
			COALESCE(a.email, '')
		FROM approvals ap
		LEFT JOIN materials m ON m.id = ap.material_id
		LEFT JOIN clients c ON c.id = m.client_id
		LEFT JOIN client_accounts a ON a.id = ap.account_id
		ORDER BY ap.created_at DESC
		LIMIT $1
	`
	rows, err := d.Pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []models.ApprovalFeedEntry
	for rows.Next() {
		var e models.ApprovalFeedEntry
		if err := rows.Scan(
			&e.ID, &e.MaterialID, &e.AccountID, &e.Action, &e.Comment, &e.CreatedAt,
			&e.MaterialTitle, &e.ClientName, &e.AccountName, &e.AccountEmail,
		); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}

	return entries, rows.Err()
}
