package api

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"atelier/internal/db"
	"atelier/internal/models"
	"atelier/internal/validation"
)

// MaterialHandler handles material CRUD via JSON API.
type MaterialHandler struct {
	db *db.DB
}

// NewMaterialHandler creates a new API material handler.
func NewMaterialHandler(database *db.DB) *MaterialHandler {
	return &MaterialHandler{db: database}
}

// ListByClient returns all materials belonging to one client.
func (h *MaterialHandler) ListByClient(c fiber.Ctx) error {
	clientID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid client id")
	}

	if _, err := h.db.GetClientByID(c.Context(), clientID); err != nil {
		if errors.Is(err, db.ErrClientNotFound) {
			return jsonError(c, fiber.StatusNotFound, "client not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch client")
	}

	materials, err := h.db.GetMaterialsByClient(c.Context(), clientID)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch materials")
	}

	return jsonSuccess(c, materials)
}

// Get returns a single material by ID.
func (h *MaterialHandler) Get(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid material id")
	}

	material, err := h.db.GetMaterialByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, db.ErrMaterialNotFound) {
			return jsonError(c, fiber.StatusNotFound, "material not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch material")
	}

	return jsonSuccess(c, material)
}

type materialBody struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	PreviewURL  string `json:"preview_url"`
}

func validateMaterialBody(body *materialBody) (string, bool) {
	body.Title = strings.TrimSpace(body.Title)

	if body.Title == "" {
		return "title is required", false
	}
	if body.PreviewURL != "" {
		if valid, msg := validation.ValidateURL(body.PreviewURL); !valid {
			return msg, false
		}
	}
	return "", true
}

// Create creates a new material under a client. Status starts at the default
// and changes only through the status endpoint.
func (h *MaterialHandler) Create(c fiber.Ctx) error {
	clientID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid client id")
	}

	var body materialBody
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	if msg, ok := validateMaterialBody(&body); !ok {
		return jsonError(c, fiber.StatusBadRequest, msg)
	}

	material := &models.Material{
		ClientID:    clientID,
		Title:       body.Title,
		Description: body.Description,
		PreviewURL:  body.PreviewURL,
	}

	if err := h.db.CreateMaterial(c.Context(), material); err != nil {
		if errors.Is(err, db.ErrClientNotFound) {
			return jsonError(c, fiber.StatusBadRequest, "client not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to create material")
	}

	return jsonSuccess(c, material)
}

// Update replaces a material's editable fields. Changing the preview URL
// resets its health state until the next check.
func (h *MaterialHandler) Update(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid material id")
	}

	material, err := h.db.GetMaterialByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, db.ErrMaterialNotFound) {
			return jsonError(c, fiber.StatusNotFound, "material not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch material")
	}

	var body materialBody
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	if msg, ok := validateMaterialBody(&body); !ok {
		return jsonError(c, fiber.StatusBadRequest, msg)
	}

	material.Title = body.Title
	material.Description = body.Description
	material.PreviewURL = body.PreviewURL

	if err := h.db.UpdateMaterial(c.Context(), material); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to update material")
	}

	return jsonSuccess(c, material)
}

// SetStatus changes a material's status label. This is an operator decision;
// recorded client responses never move it on their own.
func (h *MaterialHandler) SetStatus(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid material id")
	}

	var body struct {
		Status string `json:"status"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	body.Status = strings.TrimSpace(body.Status)
	if body.Status == "" {
		return jsonError(c, fiber.StatusBadRequest, "status is required")
	}

	if err := h.db.UpdateMaterialStatus(c.Context(), id, body.Status); err != nil {
		if errors.Is(err, db.ErrMaterialNotFound) {
			return jsonError(c, fiber.StatusNotFound, "material not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to update status")
	}

	return jsonSuccess(c, fiber.Map{"id": id, "status": body.Status})
}

// Delete removes a material. Its rows in the approvals trail survive.
func (h *MaterialHandler) Delete(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid material id")
	}

	if err := h.db.DeleteMaterial(c.Context(), id); err != nil {
		if errors.Is(err, db.ErrMaterialNotFound) {
			return jsonError(c, fiber.StatusNotFound, "material not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to delete material")
	}

	return jsonSuccess(c, fiber.Map{"deleted": id})
}

// Approvals returns the full response trail for one material, newest first.
func (h *MaterialHandler) Approvals(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid material id")
	}

	approvals, err := h.db.GetApprovalsByMaterial(c.Context(), id)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch approvals")
	}

	return jsonSuccess(c, approvals)
}
