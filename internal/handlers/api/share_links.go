package api

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"atelier/internal/config"
	"atelier/internal/db"
	"atelier/internal/models"
	"atelier/internal/token"
)

// ShareLinkHandler handles creation and administration of both share link
// variants. Tokens are generated server-side and never editable.
type ShareLinkHandler struct {
	db  *db.DB
	cfg *config.Config
}

// NewShareLinkHandler creates a new API share link handler.
func NewShareLinkHandler(database *db.DB, cfg *config.Config) *ShareLinkHandler {
	return &ShareLinkHandler{db: database, cfg: cfg}
}

// serviceLinkView is the operator-facing shape of a service link: the raw
// row plus the derived state and bound service IDs.
type serviceLinkView struct {
	models.ServiceLink
	State      string      `json:"state"`
	URL        string      `json:"url"`
	ServiceIDs []uuid.UUID `json:"service_ids"`
}

type clientLinkView struct {
	models.ClientLink
	State string `json:"state"`
	URL   string `json:"url"`
}

func (h *ShareLinkHandler) serviceLinkURL(token string) string {
	return h.cfg.BaseURL + "/services/" + token
}

func (h *ShareLinkHandler) clientLinkURL(token string) string {
	return h.cfg.BaseURL + "/client-materials/" + token
}

type linkBody struct {
	Name          string     `json:"name"`
	RecipientName string     `json:"recipient_name"`
	ExpiresAt     *time.Time `json:"expires_at"`
}

// ListServiceLinks returns every service link with its state and items.
func (h *ShareLinkHandler) ListServiceLinks(c fiber.Ctx) error {
	links, err := h.db.GetAllServiceLinks(c.Context())
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch links")
	}

	now := time.Now()
	views := make([]serviceLinkView, 0, len(links))
	for i := range links {
		ids, err := h.db.GetServiceLinkItems(c.Context(), links[i].ID)
		if err != nil {
			return jsonError(c, fiber.StatusInternalServerError, "failed to fetch link items")
		}
		views = append(views, serviceLinkView{
			ServiceLink: links[i],
			State:       links[i].State(now),
			URL:         h.serviceLinkURL(links[i].Token),
			ServiceIDs:  ids,
		})
	}

	return jsonSuccess(c, views)
}

// GetServiceLink returns one service link with its state and items.
func (h *ShareLinkHandler) GetServiceLink(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid link id")
	}

	link, err := h.db.GetServiceLinkByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, db.ErrLinkNotFound) {
			return jsonError(c, fiber.StatusNotFound, "link not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch link")
	}

	ids, err := h.db.GetServiceLinkItems(c.Context(), link.ID)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch link items")
	}

	return jsonSuccess(c, serviceLinkView{
		ServiceLink: *link,
		State:       link.State(time.Now()),
		URL:         h.serviceLinkURL(link.Token),
		ServiceIDs:  ids,
	})
}

// CreateServiceLink mints a new token and binds the requested services to it.
func (h *ShareLinkHandler) CreateServiceLink(c fiber.Ctx) error {
	var body struct {
		linkBody
		ServiceIDs []uuid.UUID `json:"service_ids"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	if body.Name == "" {
		return jsonError(c, fiber.StatusBadRequest, "name is required")
	}

	link := &models.ServiceLink{
		Token:         token.New(),
		Name:          body.Name,
		RecipientName: body.RecipientName,
		IsActive:      true,
		ExpiresAt:     body.ExpiresAt,
	}

	if err := h.db.CreateServiceLink(c.Context(), link); err != nil {
		if errors.Is(err, db.ErrDuplicateToken) {
			return jsonError(c, fiber.StatusInternalServerError, "token collision, retry the request")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to create link")
	}

	if len(body.ServiceIDs) > 0 {
		if err := h.db.ReplaceServiceLinkItems(c.Context(), link.ID, body.ServiceIDs); err != nil {
			return jsonError(c, fiber.StatusInternalServerError, replaceItemsMessage(err, "link created but services could not be attached; edit the link to retry"))
		}
	}

	return jsonSuccess(c, serviceLinkView{
		ServiceLink: *link,
		State:       link.State(time.Now()),
		URL:         h.serviceLinkURL(link.Token),
		ServiceIDs:  body.ServiceIDs,
	})
}

// UpdateServiceLink changes a link's label fields and expiry. The token is
// never changed here.
func (h *ShareLinkHandler) UpdateServiceLink(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid link id")
	}

	link, err := h.db.GetServiceLinkByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, db.ErrLinkNotFound) {
			return jsonError(c, fiber.StatusNotFound, "link not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch link")
	}

	var body linkBody
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	if body.Name == "" {
		return jsonError(c, fiber.StatusBadRequest, "name is required")
	}

	link.Name = body.Name
	link.RecipientName = body.RecipientName
	link.ExpiresAt = body.ExpiresAt

	if err := h.db.UpdateServiceLink(c.Context(), link); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to update link")
	}

	return jsonSuccess(c, link)
}

// ReplaceServiceLinkItems replaces the set of services bound to a link.
// On failure the link is left with no items, so the error must reach the
// operator rather than being swallowed.
func (h *ShareLinkHandler) ReplaceServiceLinkItems(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid link id")
	}

	if _, err := h.db.GetServiceLinkByID(c.Context(), id); err != nil {
		if errors.Is(err, db.ErrLinkNotFound) {
			return jsonError(c, fiber.StatusNotFound, "link not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch link")
	}

	var body struct {
		ServiceIDs []uuid.UUID `json:"service_ids"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	if err := h.db.ReplaceServiceLinkItems(c.Context(), id, body.ServiceIDs); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, replaceItemsMessage(err, "failed to replace link services; the link now has none attached"))
	}

	return jsonSuccess(c, fiber.Map{"link_id": id, "service_ids": body.ServiceIDs})
}

// SetServiceLinkActive activates or deactivates a service link.
func (h *ShareLinkHandler) SetServiceLinkActive(c fiber.Ctx) error {
	return h.setActive(c, h.db.SetServiceLinkActive)
}

// DeleteServiceLink removes a service link and its item bindings.
func (h *ShareLinkHandler) DeleteServiceLink(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid link id")
	}

	if err := h.db.DeleteServiceLink(c.Context(), id); err != nil {
		if errors.Is(err, db.ErrLinkNotFound) {
			return jsonError(c, fiber.StatusNotFound, "link not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to delete link")
	}

	return jsonSuccess(c, fiber.Map{"deleted": id})
}

// ListClientLinks returns client links, optionally filtered by client_id.
func (h *ShareLinkHandler) ListClientLinks(c fiber.Ctx) error {
	var (
		links []models.ClientLink
		err   error
	)

	if clientParam := c.Query("client_id", ""); clientParam != "" {
		clientID, perr := uuid.Parse(clientParam)
		if perr != nil {
			return jsonError(c, fiber.StatusBadRequest, "invalid client_id")
		}
		links, err = h.db.GetClientLinksByClient(c.Context(), clientID)
	} else {
		links, err = h.db.GetAllClientLinks(c.Context())
	}
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch links")
	}

	now := time.Now()
	views := make([]clientLinkView, 0, len(links))
	for i := range links {
		views = append(views, clientLinkView{
			ClientLink: links[i],
			State:      links[i].State(now),
			URL:        h.clientLinkURL(links[i].Token),
		})
	}

	return jsonSuccess(c, views)
}

// GetClientLink returns one client link with its state.
func (h *ShareLinkHandler) GetClientLink(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid link id")
	}

	link, err := h.db.GetClientLinkByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, db.ErrLinkNotFound) {
			return jsonError(c, fiber.StatusNotFound, "link not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch link")
	}

	return jsonSuccess(c, clientLinkView{
		ClientLink: *link,
		State:      link.State(time.Now()),
		URL:        h.clientLinkURL(link.Token),
	})
}

// CreateClientLink mints a new token for one client's material portal.
func (h *ShareLinkHandler) CreateClientLink(c fiber.Ctx) error {
	var body struct {
		linkBody
		ClientID uuid.UUID `json:"client_id"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	if body.ClientID == uuid.Nil {
		return jsonError(c, fiber.StatusBadRequest, "client_id is required")
	}
	if body.Name == "" {
		return jsonError(c, fiber.StatusBadRequest, "name is required")
	}

	link := &models.ClientLink{
		Token:         token.New(),
		ClientID:      body.ClientID,
		Name:          body.Name,
		RecipientName: body.RecipientName,
		IsActive:      true,
		ExpiresAt:     body.ExpiresAt,
	}

	if err := h.db.CreateClientLink(c.Context(), link); err != nil {
		if errors.Is(err, db.ErrClientNotFound) {
			return jsonError(c, fiber.StatusBadRequest, "client not found")
		}
		if errors.Is(err, db.ErrDuplicateToken) {
			return jsonError(c, fiber.StatusInternalServerError, "token collision, retry the request")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to create link")
	}

	return jsonSuccess(c, clientLinkView{
		ClientLink: *link,
		State:      link.State(time.Now()),
		URL:        h.clientLinkURL(link.Token),
	})
}

// UpdateClientLink changes a client link's label fields and expiry.
func (h *ShareLinkHandler) UpdateClientLink(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid link id")
	}

	link, err := h.db.GetClientLinkByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, db.ErrLinkNotFound) {
			return jsonError(c, fiber.StatusNotFound, "link not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch link")
	}

	var body linkBody
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	if body.Name == "" {
		return jsonError(c, fiber.StatusBadRequest, "name is required")
	}

	link.Name = body.Name
	link.RecipientName = body.RecipientName
	link.ExpiresAt = body.ExpiresAt

	if err := h.db.UpdateClientLink(c.Context(), link); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to update link")
	}

	return jsonSuccess(c, link)
}

// SetClientLinkActive activates or deactivates a client link. Deactivation
// takes effect on the next portal request; sessions do not outlive it.
func (h *ShareLinkHandler) SetClientLinkActive(c fiber.Ctx) error {
	return h.setActive(c, h.db.SetClientLinkActive)
}

// DeleteClientLink removes a client link. The client, its accounts, and the
// approvals trail are untouched.
func (h *ShareLinkHandler) DeleteClientLink(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid link id")
	}

	if err := h.db.DeleteClientLink(c.Context(), id); err != nil {
		if errors.Is(err, db.ErrLinkNotFound) {
			return jsonError(c, fiber.StatusNotFound, "link not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to delete link")
	}

	return jsonSuccess(c, fiber.Map{"deleted": id})
}

// replaceItemsMessage picks the operator-facing message for a failed scope
// rebind. The zero-items wording only holds when the cleanup delete worked;
// a failed cleanup may leave a partial set and must be reported as such.
func replaceItemsMessage(err error, zeroItemsMsg string) string {
	if errors.Is(err, db.ErrScopeCleanupFailed) {
		return "failed to replace link services and the link may hold a partial set; retry the request"
	}
	return zeroItemsMsg
}

func (h *ShareLinkHandler) setActive(c fiber.Ctx, set func(ctx context.Context, id uuid.UUID, active bool) error) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid link id")
	}

	var body struct {
		IsActive *bool `json:"is_active"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil || body.IsActive == nil {
		return jsonError(c, fiber.StatusBadRequest, "is_active is required")
	}

	if err := set(c.Context(), id, *body.IsActive); err != nil {
		if errors.Is(err, db.ErrLinkNotFound) {
			return jsonError(c, fiber.StatusNotFound, "link not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to update link")
	}

	return jsonSuccess(c, fiber.Map{"id": id, "is_active": *body.IsActive})
}
