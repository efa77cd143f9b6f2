package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"atelier/internal/config"
	"atelier/internal/db"
	"atelier/internal/metrics"
	"atelier/internal/models"
	"atelier/internal/validation"
)

// CatalogHandler serves the public, token-gated quote catalog.
type CatalogHandler struct {
	db  *db.DB
	cfg *config.Config
}

// NewCatalogHandler creates a new catalog handler.
func NewCatalogHandler(database *db.DB, cfg *config.Config) *CatalogHandler {
	return &CatalogHandler{db: database, cfg: cfg}
}

// ServiceGroup is one category section of the catalog page.
type ServiceGroup struct {
	Category string
	Services []models.Service
}

// Show resolves a service share token and renders the bound services grouped
// by category. No authentication: the token is the whole credential.
func (h *CatalogHandler) Show(c fiber.Ctx) error {
	tok := c.Params("token")
	if !validation.ValidateToken(tok) {
		metrics.RecordTokenLookup(models.LookupKindServices, models.OutcomeNotFound)
		return renderLinkUnavailable(c, h.cfg.SiteTitle)
	}

	link, err := h.db.ResolveServiceLink(c.Context(), tok)
	if err != nil {
		if db.IsResolveFailure(err) {
			metrics.RecordTokenLookup(models.LookupKindServices, lookupOutcome(err))
			return renderLinkUnavailable(c, h.cfg.SiteTitle)
		}
		return err
	}

	services, err := h.db.MaterializeServiceLink(c.Context(), link.ID)
	if err != nil {
		return err
	}

	metrics.RecordTokenLookup(models.LookupKindServices, models.OutcomeResolved)

	return c.Render("catalog", fiber.Map{
		"Title":     "Service Catalog",
		"SiteTitle": h.cfg.SiteTitle,
		"Link":      link,
		"Groups":    groupServicesByCategory(services),
		"Empty":     len(services) == 0,
	})
}

// groupServicesByCategory splits an ordered service list into category
// sections, preserving the incoming order both across and within groups.
func groupServicesByCategory(services []models.Service) []ServiceGroup {
	var groups []ServiceGroup
	index := make(map[string]int)

	for _, s := range services {
		cat := s.Category
		if cat == "" {
			cat = "Other"
		}
		i, ok := index[cat]
		if !ok {
			i = len(groups)
			index[cat] = i
			groups = append(groups, ServiceGroup{Category: cat})
		}
		groups[i].Services = append(groups[i].Services, s)
	}

	return groups
}

// lookupOutcome maps a resolution failure sentinel to its metrics outcome.
// This granularity exists only in metrics and operator views, never in the
// page shown to the recipient.
func lookupOutcome(err error) string {
	switch {
	case err == nil:
		return models.OutcomeResolved
	case errors.Is(err, db.ErrLinkInactive):
		return models.OutcomeInactive
	case errors.Is(err, db.ErrLinkExpired):
		return models.OutcomeExpired
	default:
		return models.OutcomeNotFound
	}
}
