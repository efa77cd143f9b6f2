package db

import (
	"context"

	"atelier/internal/models"
)

// IncrementTokenLookup upserts a token lookup count by kind and outcome.
func (d *DB) IncrementTokenLookup(ctx context.Context, kind, outcome string) error {
	_, err := d.Pool.Exec(ctx, `
		INSERT INTO token_lookups (kind, outcome, count, last_seen_at)
		VALUES ($1, $2, 1, NOW())
		ON CONFLICT (kind, outcome) DO UPDATE
		SET count = token_lookups.count + 1, last_seen_at = NOW()
	`, kind, outcome)
	return err
}

// GetAllTokenLookups returns all token lookup rows for metrics export.
func (d *DB) GetAllTokenLookups(ctx context.Context) ([]models.TokenLookup, error) {
	rows, err := d.Pool.Query(ctx, `SELECT kind, outcome, count, last_seen_at FROM token_lookups`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lookups []models.TokenLookup
	for rows.Next() {
		var l models.TokenLookup
		if err := rows.Scan(&l.Kind, &l.Outcome, &l.Count, &l.LastSeenAt); err != nil {
			return nil, err
		}
		lookups = append(lookups, l)
	}
	return lookups, rows.Err()
}
