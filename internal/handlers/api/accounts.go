package api

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"atelier/internal/db"
	"atelier/internal/models"
	"atelier/internal/validation"
)

// AccountHandler handles client account and membership administration.
type AccountHandler struct {
	db *db.DB
}

// NewAccountHandler creates a new API account handler.
func NewAccountHandler(database *db.DB) *AccountHandler {
	return &AccountHandler{db: database}
}

// Create registers a new client account. The password is stored only as a
// bcrypt hash. The account grants nothing until a membership is added.
func (h *AccountHandler) Create(c fiber.Ctx) error {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Name     string `json:"name"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	body.Email = strings.ToLower(strings.TrimSpace(body.Email))

	if !validation.ValidateEmail(body.Email) {
		return jsonError(c, fiber.StatusBadRequest, "invalid email")
	}
	if len(body.Password) < 8 {
		return jsonError(c, fiber.StatusBadRequest, "password must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to hash password")
	}

	account := &models.ClientAccount{
		Email:        body.Email,
		PasswordHash: string(hash),
		Name:         body.Name,
		IsActive:     true,
	}

	if err := h.db.CreateClientAccount(c.Context(), account); err != nil {
		if errors.Is(err, db.ErrDuplicateEmail) {
			return jsonError(c, fiber.StatusConflict, "an account with this email already exists")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to create account")
	}

	return jsonSuccess(c, account)
}

// Get returns a single account by ID. The password hash is never serialized.
func (h *AccountHandler) Get(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid account id")
	}

	account, err := h.db.GetClientAccountByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, db.ErrAccountNotFound) {
			return jsonError(c, fiber.StatusNotFound, "account not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch account")
	}

	return jsonSuccess(c, account)
}

// SetActive enables or disables an account. A disabled account fails the
// portal login exactly like a wrong password.
func (h *AccountHandler) SetActive(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid account id")
	}

	var body struct {
		IsActive *bool `json:"is_active"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil || body.IsActive == nil {
		return jsonError(c, fiber.StatusBadRequest, "is_active is required")
	}

	if err := h.db.SetClientAccountActive(c.Context(), id, *body.IsActive); err != nil {
		if errors.Is(err, db.ErrAccountNotFound) {
			return jsonError(c, fiber.StatusNotFound, "account not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to update account")
	}

	return jsonSuccess(c, fiber.Map{"id": id, "is_active": *body.IsActive})
}

// Members lists the accounts with membership on one client.
func (h *AccountHandler) Members(c fiber.Ctx) error {
	clientID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid client id")
	}

	members, err := h.db.GetClientMembers(c.Context(), clientID)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch members")
	}

	return jsonSuccess(c, members)
}

// AddMember grants an account membership on a client.
func (h *AccountHandler) AddMember(c fiber.Ctx) error {
	clientID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid client id")
	}

	var body struct {
		AccountID uuid.UUID `json:"account_id"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil || body.AccountID == uuid.Nil {
		return jsonError(c, fiber.StatusBadRequest, "account_id is required")
	}

	if err := h.db.AddClientMember(c.Context(), clientID, body.AccountID); err != nil {
		if errors.Is(err, db.ErrDuplicateMember) {
			return jsonError(c, fiber.StatusConflict, "account is already a member")
		}
		if errors.Is(err, db.ErrClientNotFound) {
			return jsonError(c, fiber.StatusBadRequest, "client or account not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to add member")
	}

	return jsonSuccess(c, fiber.Map{"client_id": clientID, "account_id": body.AccountID})
}

// RemoveMember revokes an account's membership on a client. The account's
// portal session dies on its next request.
func (h *AccountHandler) RemoveMember(c fiber.Ctx) error {
	clientID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid client id")
	}

	accountID, err := uuid.Parse(c.Params("accountId"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid account id")
	}

	if err := h.db.RemoveClientMember(c.Context(), clientID, accountID); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to remove member")
	}

	return jsonSuccess(c, fiber.Map{"client_id": clientID, "account_id": accountID})
}
