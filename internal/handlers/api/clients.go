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

// ClientHandler handles client CRUD via JSON API.
type ClientHandler struct {
	db *db.DB
}

// NewClientHandler creates a new API client handler.
func NewClientHandler(database *db.DB) *ClientHandler {
	return &ClientHandler{db: database}
}

// List returns all clients.
func (h *ClientHandler) List(c fiber.Ctx) error {
	clients, err := h.db.GetAllClients(c.Context())
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch clients")
	}

	return jsonSuccess(c, clients)
}

// Get returns a single client by ID.
func (h *ClientHandler) Get(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid client id")
	}

	client, err := h.db.GetClientByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, db.ErrClientNotFound) {
			return jsonError(c, fiber.StatusNotFound, "client not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch client")
	}

	return jsonSuccess(c, client)
}

type clientBody struct {
	Name         string `json:"name"`
	Company      string `json:"company"`
	ContactEmail string `json:"contact_email"`
	Notes        string `json:"notes"`
}

func validateClientBody(body *clientBody) (string, bool) {
	body.Name = strings.TrimSpace(body.Name)

	if body.Name == "" {
		return "name is required", false
	}
	if body.ContactEmail != "" && !validation.ValidateEmail(body.ContactEmail) {
		return "invalid contact_email", false
	}
	return "", true
}

// Create creates a new client.
func (h *ClientHandler) Create(c fiber.Ctx) error {
	var body clientBody
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	if msg, ok := validateClientBody(&body); !ok {
		return jsonError(c, fiber.StatusBadRequest, msg)
	}

	client := &models.Client{
		Name:         body.Name,
		Company:      body.Company,
		ContactEmail: body.ContactEmail,
		Notes:        body.Notes,
	}

	if err := h.db.CreateClient(c.Context(), client); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to create client")
	}

	return jsonSuccess(c, client)
}

// Update replaces a client's editable fields.
func (h *ClientHandler) Update(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid client id")
	}

	client, err := h.db.GetClientByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, db.ErrClientNotFound) {
			return jsonError(c, fiber.StatusNotFound, "client not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch client")
	}

	var body clientBody
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	if msg, ok := validateClientBody(&body); !ok {
		return jsonError(c, fiber.StatusBadRequest, msg)
	}

	client.Name = body.Name
	client.Company = body.Company
	client.ContactEmail = body.ContactEmail
	client.Notes = body.Notes

	if err := h.db.UpdateClient(c.Context(), client); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to update client")
	}

	return jsonSuccess(c, client)
}

// Delete removes a client along with its links, materials, and memberships.
// The approvals trail keeps its rows; the feed shows placeholders instead.
func (h *ClientHandler) Delete(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid client id")
	}

	if err := h.db.DeleteClient(c.Context(), id); err != nil {
		if errors.Is(err, db.ErrClientNotFound) {
			return jsonError(c, fiber.StatusNotFound, "client not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to delete client")
	}

	return jsonSuccess(c, fiber.Map{"deleted": id})
}
