package port

import (
	"context"

	"github.com/google/uuid"

	"shopcore/app/domain"
)

// SessionTokenService issues, verifies and rotates the paired access/refresh
// credentials.
type SessionTokenService interface {
	// Issue mints a new pair under a fresh rotation chain (login).
	Issue(ctx context.Context, staffID, tenantID uuid.UUID) (*domain.TokenPair, error)

	// Verify checks an access token's signature and expiry only; it never
	// touches the store. This is the per-request fast path.
	Verify(accessToken string) (*domain.Principal, error)

	// Refresh exchanges a still-valid refresh token for a new pair. A token
	// that was already exchanged is treated as stolen: the whole chain is
	// revoked and domain.ErrRefreshReuse is returned.
	Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error)

	// RevokeChain invalidates one rotation chain (logout).
	RevokeChain(ctx context.Context, chainID uuid.UUID) error

	// RevokeAllForStaff invalidates every chain of a principal (credential
	// reset, account compromise).
	RevokeAllForStaff(ctx context.Context, staffID uuid.UUID) error
}

// RefreshTokenRepository persists rotation-chain records. Rotation must be
// atomic: Rotate marks the old record consumed and inserts its successor in
// one transaction, so concurrent refreshes with the same token cannot both
// succeed.
type RefreshTokenRepository interface {
	Insert(ctx context.Context, record *domain.RefreshTokenRecord) error
	GetByHash(ctx context.Context, tokenHash string) (*domain.RefreshTokenRecord, error)
	Rotate(ctx context.Context, oldID uuid.UUID, successor *domain.RefreshTokenRecord) error
	RevokeChain(ctx context.Context, chainID uuid.UUID) error
	RevokeAllForStaff(ctx context.Context, staffID uuid.UUID) error
}

// AuthUsecase is the handler-facing surface for login/refresh/logout
type AuthUsecase interface {
	Login(ctx context.Context, email, password string, tenantID uuid.UUID) (*domain.TokenPair, *domain.AntiForgeryToken, error)
	Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error)
	Logout(ctx context.Context, principal *domain.Principal) error
}
