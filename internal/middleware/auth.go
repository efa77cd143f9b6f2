package middleware

import (
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/session"

	"atelier/internal/db"
	"atelier/internal/models"
)

// AuthMiddleware handles operator authentication via sessions.
type AuthMiddleware struct {
	db *db.DB
}

// NewAuthMiddleware creates a new auth middleware instance.
func NewAuthMiddleware(database *db.DB) *AuthMiddleware {
	return &AuthMiddleware{db: database}
}

// RequireAuth ensures the operator is authenticated, redirecting to /login
// if not. The original URL is stashed in the session so the OIDC callback
// can return the operator to the page they asked for.
func (m *AuthMiddleware) RequireAuth(c fiber.Ctx) error {
	sess := session.FromContext(c)
	if sess == nil {
		return c.Redirect().To("/login")
	}

	userSub := sess.Get("user_sub")
	if userSub == nil {
		if c.Method() == fiber.MethodGet {
			sess.Set("redirect_after_login", c.OriginalURL())
		}
		return c.Redirect().To("/login")
	}

	user, err := m.db.GetUserBySub(c.Context(), userSub.(string))
	if err != nil {
		sess.Destroy()
		return c.Redirect().To("/login")
	}

	c.Locals("user", user)
	return c.Next()
}

// RequireAPIAuth is RequireAuth for the JSON API: 401 instead of a redirect.
func (m *AuthMiddleware) RequireAPIAuth(c fiber.Ctx) error {
	sess := session.FromContext(c)
	if sess == nil {
		return unauthorizedJSON(c)
	}

	userSub := sess.Get("user_sub")
	if userSub == nil {
		return unauthorizedJSON(c)
	}

	user, err := m.db.GetUserBySub(c.Context(), userSub.(string))
	if err != nil {
		sess.Destroy()
		return unauthorizedJSON(c)
	}

	c.Locals("user", user)
	return c.Next()
}

// RequireAdmin must run after RequireAPIAuth; rejects non-admin operators.
func (m *AuthMiddleware) RequireAdmin(c fiber.Ctx) error {
	user, ok := c.Locals("user").(*models.User)
	if !ok || !user.IsAdmin() {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"status": "error",
			"error":  "admin access required",
		})
	}
	return c.Next()
}

func unauthorizedJSON(c fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"status": "error",
		"error":  "unauthorized",
	})
}
