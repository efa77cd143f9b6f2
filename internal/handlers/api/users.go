package api

import (
	"encoding/json"
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"atelier/internal/db"
	"atelier/internal/models"
)

// UserHandler handles operator account administration. All routes require
// the admin role.
type UserHandler struct {
	db *db.DB
}

// NewUserHandler creates a new API user handler.
func NewUserHandler(database *db.DB) *UserHandler {
	return &UserHandler{db: database}
}

// List returns all operator accounts.
func (h *UserHandler) List(c fiber.Ctx) error {
	users, err := h.db.GetAllUsers(c.Context())
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch users")
	}

	return jsonSuccess(c, users)
}

// UpdateRole changes an operator's role.
func (h *UserHandler) UpdateRole(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid user id")
	}

	var body struct {
		Role string `json:"role"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	if body.Role != models.RoleOperator && body.Role != models.RoleAdmin {
		return jsonError(c, fiber.StatusBadRequest, "invalid role")
	}

	actor, _ := c.Locals("user").(*models.User)
	if actor != nil && actor.ID == id && body.Role != models.RoleAdmin {
		return jsonError(c, fiber.StatusBadRequest, "cannot remove your own admin role")
	}

	if err := h.db.UpdateUserRole(c.Context(), id, body.Role); err != nil {
		if errors.Is(err, db.ErrUserNotFound) {
			return jsonError(c, fiber.StatusNotFound, "user not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to update role")
	}

	return jsonSuccess(c, fiber.Map{"id": id, "role": body.Role})
}

// Delete removes an operator account.
func (h *UserHandler) Delete(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid user id")
	}

	actor, _ := c.Locals("user").(*models.User)
	if actor != nil && actor.ID == id {
		return jsonError(c, fiber.StatusBadRequest, "cannot delete your own account")
	}

	if err := h.db.DeleteUser(c.Context(), id); err != nil {
		if errors.Is(err, db.ErrUserNotFound) {
			return jsonError(c, fiber.StatusNotFound, "user not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to delete user")
	}

	return jsonSuccess(c, fiber.Map{"deleted": id})
}
