package api

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"atelier/internal/db"
	"atelier/internal/models"
)

// ServiceHandler handles catalog service CRUD via JSON API.
type ServiceHandler struct {
	db *db.DB
}

// NewServiceHandler creates a new API service handler.
func NewServiceHandler(database *db.DB) *ServiceHandler {
	return &ServiceHandler{db: database}
}

// List returns all catalog services, active and inactive.
func (h *ServiceHandler) List(c fiber.Ctx) error {
	services, err := h.db.GetAllServices(c.Context())
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch services")
	}

	return jsonSuccess(c, services)
}

// Get returns a single service by ID.
func (h *ServiceHandler) Get(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid service id")
	}

	service, err := h.db.GetServiceByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, db.ErrServiceNotFound) {
			return jsonError(c, fiber.StatusNotFound, "service not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch service")
	}

	return jsonSuccess(c, service)
}

type serviceBody struct {
	Name         string  `json:"name"`
	Category     string  `json:"category"`
	Description  string  `json:"description"`
	Price        float64 `json:"price"`
	DeliveryDays int     `json:"delivery_days"`
	DisplayOrder int     `json:"display_order"`
	IsActive     *bool   `json:"is_active"`
}

func validateServiceBody(body *serviceBody) (string, bool) {
	body.Name = strings.TrimSpace(body.Name)
	body.Category = strings.TrimSpace(body.Category)

	if body.Name == "" {
		return "name is required", false
	}
	if body.Price < 0 {
		return "price must not be negative", false
	}
	if body.DeliveryDays < 0 {
		return "delivery_days must not be negative", false
	}
	return "", true
}

// Create creates a new catalog service.
func (h *ServiceHandler) Create(c fiber.Ctx) error {
	var body serviceBody
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	if msg, ok := validateServiceBody(&body); !ok {
		return jsonError(c, fiber.StatusBadRequest, msg)
	}

	service := &models.Service{
		Name:         body.Name,
		Category:     body.Category,
		Description:  body.Description,
		Price:        body.Price,
		DeliveryDays: body.DeliveryDays,
		DisplayOrder: body.DisplayOrder,
		IsActive:     true,
	}
	if body.IsActive != nil {
		service.IsActive = *body.IsActive
	}

	if err := h.db.CreateService(c.Context(), service); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to create service")
	}

	return jsonSuccess(c, service)
}

// Update replaces a service's editable fields.
func (h *ServiceHandler) Update(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid service id")
	}

	service, err := h.db.GetServiceByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, db.ErrServiceNotFound) {
			return jsonError(c, fiber.StatusNotFound, "service not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch service")
	}

	var body serviceBody
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	if msg, ok := validateServiceBody(&body); !ok {
		return jsonError(c, fiber.StatusBadRequest, msg)
	}

	service.Name = body.Name
	service.Category = body.Category
	service.Description = body.Description
	service.Price = body.Price
	service.DeliveryDays = body.DeliveryDays
	service.DisplayOrder = body.DisplayOrder
	if body.IsActive != nil {
		service.IsActive = *body.IsActive
	}

	if err := h.db.UpdateService(c.Context(), service); err != nil {
		if errors.Is(err, db.ErrServiceNotFound) {
			return jsonError(c, fiber.StatusNotFound, "service not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to update service")
	}

	return jsonSuccess(c, service)
}

// Delete removes a service. Share links that referenced it simply render
// without it; past quotes are not rewritten.
func (h *ServiceHandler) Delete(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid service id")
	}

	if err := h.db.DeleteService(c.Context(), id); err != nil {
		if errors.Is(err, db.ErrServiceNotFound) {
			return jsonError(c, fiber.StatusNotFound, "service not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to delete service")
	}

	return jsonSuccess(c, fiber.Map{"deleted": id})
}
