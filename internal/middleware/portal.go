package middleware

import (
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/session"
	"github.com/google/uuid"
)

// Session keys for the client-material portal. A portal session is scoped to
// exactly one client: the pair is written together by the access gate and
// read together here.
const (
	PortalAccountKey = "portal_account_id"
	PortalClientKey  = "portal_client_id"
)

// PortalSession returns the gated (account, client) pair from the session,
// or ok=false when the session holds no portal grant.
func PortalSession(c fiber.Ctx) (accountID, clientID uuid.UUID, ok bool) {
	sess := session.FromContext(c)
	if sess == nil {
		return uuid.Nil, uuid.Nil, false
	}

	accStr, _ := sess.Get(PortalAccountKey).(string)
	cliStr, _ := sess.Get(PortalClientKey).(string)
	if accStr == "" || cliStr == "" {
		return uuid.Nil, uuid.Nil, false
	}

	accountID, err := uuid.Parse(accStr)
	if err != nil {
		return uuid.Nil, uuid.Nil, false
	}
	clientID, err = uuid.Parse(cliStr)
	if err != nil {
		return uuid.Nil, uuid.Nil, false
	}

	return accountID, clientID, true
}

// GrantPortalSession stores the gated pair after a successful access-gate
// pass.
func GrantPortalSession(c fiber.Ctx, accountID, clientID uuid.UUID) error {
	sess := session.FromContext(c)
	if sess == nil {
		return fiber.NewError(fiber.StatusInternalServerError, "session not available")
	}
	sess.Set(PortalAccountKey, accountID.String())
	sess.Set(PortalClientKey, clientID.String())
	return nil
}

// ClearPortalSession tears the whole session down. Used both for logout and
// for the mandatory reversal when an authenticated identity fails the
// membership check.
func ClearPortalSession(c fiber.Ctx) {
	if sess := session.FromContext(c); sess != nil {
		sess.Destroy()
	}
}
