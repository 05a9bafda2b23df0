package domain

import "errors"

// Tenant resolution and context errors
var (
	// ErrMissingTenantContext means the caller supplied no tenant signal at all.
	ErrMissingTenantContext = errors.New("missing tenant context")

	// ErrTenantNotFound covers both unknown and suspended tenants. The two
	// cases are deliberately indistinguishable to callers so tenant slugs
	// cannot be enumerated through error differences.
	ErrTenantNotFound = errors.New("tenant not found")

	// ErrTenantMismatch means the caller is authenticated but its session is
	// not scoped to the resolved tenant.
	ErrTenantMismatch = errors.New("tenant mismatch")

	// ErrTenantContextUnset means the transaction-scoped tenant marker could
	// not be applied or did not read back. This is a programming or
	// infrastructure fault, never a user error.
	ErrTenantContextUnset = errors.New("tenant context unset")
)

// Authentication and session errors
var (
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")

	// ErrRefreshReuse means a refresh token was presented again after being
	// exchanged. Treated as a theft signal; the whole rotation chain is
	// revoked by the caller.
	ErrRefreshReuse = errors.New("refresh token already consumed")

	ErrChainRevoked = errors.New("rotation chain revoked")
)

// Authorization errors
var (
	ErrInsufficientRole   = errors.New("insufficient role")
	ErrMembershipNotFound = errors.New("no membership in tenant")
	ErrUnknownRole        = errors.New("unknown role")
)

// CSRF errors
var (
	ErrCSRFTokenRequired = errors.New("CSRF token required")
	ErrCSRFTokenMismatch = errors.New("CSRF token mismatch")
)

// Optimistic concurrency errors
var (
	ErrPreconditionMissing  = errors.New("precondition required")
	ErrPreconditionMismatch = errors.New("precondition failed")
	ErrEntityNotFound       = errors.New("entity not found")
)

// Password reset errors. Wrong tenant, wrong user, expired and already-used
// all collapse into the single external reason below.
var (
	ErrResetTokenInvalid = errors.New("invalid or expired reset token")
	ErrStaffNotFound     = errors.New("staff not found")
)

// General errors
var (
	ErrInternal = errors.New("internal error")
)
