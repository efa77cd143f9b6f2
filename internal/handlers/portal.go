package handlers

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"atelier/internal/config"
	"atelier/internal/db"
	"atelier/internal/metrics"
	"atelier/internal/middleware"
	"atelier/internal/models"
	"atelier/internal/validation"
)

// PortalHandler serves the client-material approval portal: token resolution,
// the credential gate, the material list, and approval actions.
type PortalHandler struct {
	db  *db.DB
	cfg *config.Config
}

// NewPortalHandler creates a new portal handler.
func NewPortalHandler(database *db.DB, cfg *config.Config) *PortalHandler {
	return &PortalHandler{db: database, cfg: cfg}
}

// resolve validates the token parameter and resolves the client link,
// rendering the generic failure page on any resolution failure. The link is
// re-resolved on every request, so deactivating or expiring a link cuts off
// recipients who are mid-session.
func (h *PortalHandler) resolve(c fiber.Ctx) (*models.ClientLink, error) {
	tok := c.Params("token")
	if !validation.ValidateToken(tok) {
		metrics.RecordTokenLookup(models.LookupKindMaterials, models.OutcomeNotFound)
		return nil, renderLinkUnavailable(c, h.cfg.SiteTitle)
	}

	link, err := h.db.ResolveClientLink(c.Context(), tok)
	if err != nil {
		if db.IsResolveFailure(err) {
			metrics.RecordTokenLookup(models.LookupKindMaterials, lookupOutcome(err))
			return nil, renderLinkUnavailable(c, h.cfg.SiteTitle)
		}
		return nil, err
	}

	metrics.RecordTokenLookup(models.LookupKindMaterials, models.OutcomeResolved)
	return link, nil
}

// Show renders the material list if the session has passed the gate for this
// link's client, or the login prompt otherwise. No material data is loaded
// before the gate check.
func (h *PortalHandler) Show(c fiber.Ctx) error {
	link, err := h.resolve(c)
	if link == nil {
		return err
	}

	accountID, clientID, ok := middleware.PortalSession(c)
	if !ok || clientID != link.ClientID {
		return h.renderLogin(c, link, "")
	}

	// The gate holds only while the standing grant does.
	member, err := h.db.IsClientMember(c.Context(), link.ClientID, accountID)
	if err != nil {
		return err
	}
	if !member {
		middleware.ClearPortalSession(c)
		return h.renderLogin(c, link, "")
	}

	return h.renderMaterials(c, link, accountID, "")
}

// Login is the access gate. Two checks in order, each with its own failure:
// the credential pair against the account store, then the standing
// (client, account) grant. A valid identity without the grant is denied AND
// its freshly created authentication is torn down — visiting a link must
// never leave an unauthorized identity with a live session.
func (h *PortalHandler) Login(c fiber.Ctx) error {
	link, err := h.resolve(c)
	if link == nil {
		return err
	}

	email := strings.TrimSpace(c.FormValue("email"))
	password := c.FormValue("password")

	if !validation.ValidateEmail(email) || password == "" {
		return h.renderLogin(c, link, "Invalid email or password.")
	}

	account, err := h.db.GetClientAccountByEmail(c.Context(), email)
	if err != nil {
		if errors.Is(err, db.ErrAccountNotFound) {
			return h.renderLogin(c, link, "Invalid email or password.")
		}
		return err
	}

	if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)) != nil {
		return h.renderLogin(c, link, "Invalid email or password.")
	}

	member, err := h.db.IsClientMember(c.Context(), link.ClientID, account.ID)
	if err != nil {
		return err
	}
	if !member {
		middleware.ClearPortalSession(c)
		return h.renderLogin(c, link, "This account does not have access to these materials.")
	}

	if err := middleware.GrantPortalSession(c, account.ID, link.ClientID); err != nil {
		return err
	}

	return c.Redirect().To("/client-materials/" + link.Token)
}

// Logout ends the portal session.
func (h *PortalHandler) Logout(c fiber.Ctx) error {
	link, err := h.resolve(c)
	if link == nil {
		return err
	}

	middleware.ClearPortalSession(c)
	return c.Redirect().To("/client-materials/" + link.Token)
}

// Act records an approve/reject/comment action against a material. The link
// is re-resolved and the membership re-checked on every mutation; a write
// failure is surfaced so the recipient can retry (duplicate submissions are
// harmless — the trail has no uniqueness).
func (h *PortalHandler) Act(c fiber.Ctx) error {
	link, err := h.resolve(c)
	if link == nil {
		return err
	}

	accountID, clientID, ok := middleware.PortalSession(c)
	if !ok || clientID != link.ClientID {
		return h.renderLogin(c, link, "Please sign in to continue.")
	}

	member, err := h.db.IsClientMember(c.Context(), link.ClientID, accountID)
	if err != nil {
		return err
	}
	if !member {
		middleware.ClearPortalSession(c)
		return h.renderLogin(c, link, "This account does not have access to these materials.")
	}

	materialID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid material id")
	}

	action := c.FormValue("action")
	comment := strings.TrimSpace(c.FormValue("comment"))

	if !models.ValidAction(action) {
		return fiber.NewError(fiber.StatusBadRequest, "invalid action")
	}
	if action == models.ActionComment && comment == "" {
		return h.renderMaterials(c, link, accountID, "A comment is required.")
	}

	// The material must belong to the gated client; any other ID is treated
	// as nonexistent.
	material, err := h.db.GetMaterialByID(c.Context(), materialID)
	if err != nil || material.ClientID != link.ClientID {
		return fiber.NewError(fiber.StatusNotFound, "material not found")
	}

	approval := &models.Approval{
		MaterialID: material.ID,
		AccountID:  accountID,
		Action:     action,
		Comment:    comment,
	}
	if err := h.db.CreateApproval(c.Context(), approval); err != nil {
		log.Printf("approval write failed for material %s: %v", material.ID, err)
		return h.renderMaterials(c, link, accountID,
			"Your response could not be saved. Please try again.")
	}

	if Notifier != nil {
		go Notifier.NotifyApprovalAction(context.Background(), approval, material, accountID)
	}

	return c.Redirect().To("/client-materials/" + link.Token)
}

func (h *PortalHandler) renderLogin(c fiber.Ctx, link *models.ClientLink, errMsg string) error {
	return c.Render("portal_login", fiber.Map{
		"Title":     "Sign In",
		"SiteTitle": h.cfg.SiteTitle,
		"Link":      link,
		"Error":     errMsg,
	})
}

func (h *PortalHandler) renderMaterials(c fiber.Ctx, link *models.ClientLink, accountID uuid.UUID, errMsg string) error {
	client, err := h.db.GetClientByID(c.Context(), link.ClientID)
	if err != nil {
		return err
	}

	materials, err := h.db.GetMaterialsByClient(c.Context(), link.ClientID)
	if err != nil {
		return err
	}

	account, err := h.db.GetClientAccountByID(c.Context(), accountID)
	if err != nil {
		return err
	}

	return c.Render("materials", fiber.Map{
		"Title":     client.Name + " Materials",
		"SiteTitle": h.cfg.SiteTitle,
		"Link":      link,
		"Client":    client,
		"Account":   account,
		"Materials": materials,
		"Error":     errMsg,
	})
}
