package middleware

import (
	"io"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/session"
)

// TestRequireAuth_SavesRedirectAfterLogin verifies that an unauthenticated
// GET stashes its URL in the session before the /login redirect, so the
// OIDC callback can send the operator back where they started.
func TestRequireAuth_SavesRedirectAfterLogin(t *testing.T) {
	app := fiber.New()

	sessionMiddleware, _ := session.NewWithStore(session.Config{
		CookieHTTPOnly: true,
		CookieSameSite: "Lax",
	})
	app.Use(sessionMiddleware)

	// The db is only consulted once a user_sub exists in the session, so an
	// anonymous request never touches it.
	m := NewAuthMiddleware(nil)

	app.Get("/clients-page", m.RequireAuth, func(c fiber.Ctx) error {
		return c.SendString("should not be reached")
	})
	app.Post("/clients-page", m.RequireAuth, func(c fiber.Ctx) error {
		return c.SendString("should not be reached")
	})
	app.Get("/session-dump", func(c fiber.Ctx) error {
		sess := session.FromContext(c)
		if sess == nil {
			return c.Status(500).SendString("no session")
		}
		val, _ := sess.Get("redirect_after_login").(string)
		return c.SendString(val)
	})

	req, _ := http.NewRequest("GET", "/clients-page?tab=active", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusFound {
		t.Fatalf("status = %d, want %d", resp.StatusCode, fiber.StatusFound)
	}
	if loc := resp.Header.Get("Location"); loc != "/login" {
		t.Errorf("Location = %q, want /login", loc)
	}

	cookies := resp.Cookies()
	if len(cookies) == 0 {
		t.Fatal("no session cookie set on the redirect")
	}

	req2, _ := http.NewRequest("GET", "/session-dump", nil)
	for _, c := range cookies {
		req2.AddCookie(c)
	}
	resp2, err := app.Test(req2)
	if err != nil {
		t.Fatalf("dump request failed: %v", err)
	}
	body, _ := io.ReadAll(resp2.Body)
	if string(body) != "/clients-page?tab=active" {
		t.Errorf("redirect_after_login = %q, want the original URL with query", body)
	}

	// Non-GET requests redirect without stashing a return URL.
	req3, _ := http.NewRequest("POST", "/clients-page", nil)
	resp3, err := app.Test(req3)
	if err != nil {
		t.Fatalf("post request failed: %v", err)
	}
	if resp3.StatusCode != fiber.StatusFound {
		t.Fatalf("post status = %d, want %d", resp3.StatusCode, fiber.StatusFound)
	}

	req4, _ := http.NewRequest("GET", "/session-dump", nil)
	for _, c := range resp3.Cookies() {
		req4.AddCookie(c)
	}
	resp4, err := app.Test(req4)
	if err != nil {
		t.Fatalf("dump request failed: %v", err)
	}
	body4, _ := io.ReadAll(resp4.Body)
	if string(body4) != "" {
		t.Errorf("redirect_after_login after POST = %q, want empty", body4)
	}
}
