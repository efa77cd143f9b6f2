package db

import "errors"

// Domain-level database error sentinels.
var (
	// Share link resolution. Handlers must collapse all three into one
	// generic message for anonymous recipients; only operators see which
	// one actually occurred.
	ErrLinkNotFound = errors.New("link not found")
	ErrLinkInactive = errors.New("link is deactivated")
	ErrLinkExpired  = errors.New("link has expired")

	ErrDuplicateToken = errors.New("token already exists")

	// ErrScopeCleanupFailed means a scope rebind failed AND the follow-up
	// delete also failed, so the link may hold a partial item set. The
	// operator surface must not report the usual zero-items outcome.
	ErrScopeCleanupFailed = errors.New("scope cleanup failed, link items may be partial")

	// Catalog errors
	ErrServiceNotFound = errors.New("service not found")

	// Client errors
	ErrClientNotFound  = errors.New("client not found")
	ErrAccountNotFound = errors.New("client account not found")
	ErrDuplicateEmail  = errors.New("an account with this email already exists")
	ErrDuplicateMember = errors.New("account already has access to this client")

	// Material errors
	ErrMaterialNotFound = errors.New("material not found")

	// Operator errors
	ErrUserNotFound = errors.New("user not found")
)

// IsResolveFailure reports whether err is one of the three resolution
// failure sentinels.
func IsResolveFailure(err error) bool {
	return errors.Is(err, ErrLinkNotFound) ||
		errors.Is(err, ErrLinkInactive) ||
		errors.Is(err, ErrLinkExpired)
}
