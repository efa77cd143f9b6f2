package handlers

import (
	"github.com/gofiber/fiber/v3"

	"atelier/internal/email"
)

// Notifier is the global email notifier instance.
// Set during application initialization.
var Notifier *email.Notifier

// SetNotifier sets the global email notifier.
func SetNotifier(n *email.Notifier) {
	Notifier = n
}

// publicLinkMessage is the single user-facing message for every resolution
// failure. Anonymous recipients must not be able to tell a never-issued
// token from a deactivated or expired one.
const publicLinkMessage = "This link was not found or is no longer active."

// renderLinkUnavailable renders the generic link-failure page.
func renderLinkUnavailable(c fiber.Ctx, siteTitle string) error {
	return c.Status(fiber.StatusNotFound).Render("error", fiber.Map{
		"Title":     "Link Unavailable",
		"Message":   publicLinkMessage,
		"SiteTitle": siteTitle,
	})
}
