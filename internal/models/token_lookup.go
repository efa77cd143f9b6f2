package models

import "time"

// Token lookup kinds and outcomes recorded for metrics.
const (
	LookupKindServices  = "services"
	LookupKindMaterials = "materials"

	OutcomeResolved = "resolved"
	OutcomeNotFound = "not_found"
	OutcomeInactive = "inactive"
	OutcomeExpired  = "expired"
)

// TokenLookup is one (kind, outcome) counter row exported to Prometheus.
type TokenLookup struct {
	Kind       string    `json:"kind"`
	Outcome    string    `json:"outcome"`
	Count      int64     `json:"count"`
	LastSeenAt time.Time `json:"last_seen_at"`
}
