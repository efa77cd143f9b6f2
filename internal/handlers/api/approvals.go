package api

import (
	"strconv"

	"github.com/gofiber/fiber/v3"

	"atelier/internal/db"
)

// ApprovalHandler serves the operator-facing view of the approvals trail.
type ApprovalHandler struct {
	db *db.DB
}

// NewApprovalHandler creates a new API approval handler.
func NewApprovalHandler(database *db.DB) *ApprovalHandler {
	return &ApprovalHandler{db: database}
}

// Feed returns recent responses across all clients, newest first. Entries
// whose material, client, or account has since been deleted still appear
// with placeholder labels.
func (h *ApprovalHandler) Feed(c fiber.Ctx) error {
	limit := 50
	if raw := c.Query("limit", ""); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 500 {
			return jsonError(c, fiber.StatusBadRequest, "limit must be between 1 and 500")
		}
		limit = n
	}

	entries, err := h.db.GetRecentApprovals(c.Context(), limit)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch approvals")
	}

	return jsonSuccess(c, entries)
}

// TokenLookups returns the per-kind, per-outcome lookup counters. This is
// where resolution failure granularity lives; the public pages never show it.
func (h *ApprovalHandler) TokenLookups(c fiber.Ctx) error {
	lookups, err := h.db.GetAllTokenLookups(c.Context())
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch token lookups")
	}

	return jsonSuccess(c, lookups)
}
