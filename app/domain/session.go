package domain

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Principal is the authenticated identity attached to a request after the
// access token has been verified.
type Principal struct {
	StaffID  uuid.UUID `json:"staff_id"`
	TenantID uuid.UUID `json:"tenant_id"`
	ChainID  uuid.UUID `json:"chain_id"`
}

// TokenPair is the result of a login or refresh: a short-lived stateless
// access token and a long-lived store-checked refresh token. Both reference
// the same rotation chain.
type TokenPair struct {
	AccessToken      string
	AccessExpiresAt  time.Time
	RefreshToken     string
	RefreshExpiresAt time.Time
	ChainID          uuid.UUID
}

// RefreshTokenRecord is the stored side of a refresh token. Only the SHA-256
// of the opaque token is persisted; the plaintext exists only in the cookie.
type RefreshTokenRecord struct {
	ID         uuid.UUID  `json:"id"`
	ChainID    uuid.UUID  `json:"chain_id"`
	StaffID    uuid.UUID  `json:"staff_id"`
	TenantID   uuid.UUID  `json:"tenant_id"`
	TokenHash  string     `json:"-"`
	IssuedAt   time.Time  `json:"issued_at"`
	ExpiresAt  time.Time  `json:"expires_at"`
	ConsumedAt *time.Time `json:"consumed_at,omitempty"`
	RevokedAt  *time.Time `json:"revoked_at,omitempty"`
}

// NewRefreshTokenRecord creates the stored record for a freshly minted
// refresh token.
func NewRefreshTokenRecord(chainID, staffID, tenantID uuid.UUID, tokenHash string, ttl time.Duration) (*RefreshTokenRecord, error) {
	if tokenHash == "" {
		return nil, fmt.Errorf("token hash is required")
	}

	if ttl <= 0 {
		return nil, fmt.Errorf("refresh token ttl must be positive")
	}

	now := time.Now()

	return &RefreshTokenRecord{
		ID:        uuid.New(),
		ChainID:   chainID,
		StaffID:   staffID,
		TenantID:  tenantID,
		TokenHash: tokenHash,
		IssuedAt:  now,
		ExpiresAt: now.Add(ttl),
	}, nil
}

// IsExpired returns true if the refresh token has passed its expiry
func (r *RefreshTokenRecord) IsExpired() bool {
	return time.Now().After(r.ExpiresAt)
}

// IsConsumed returns true if the token was already exchanged
func (r *RefreshTokenRecord) IsConsumed() bool {
	return r.ConsumedAt != nil
}

// IsRevoked returns true if the token's chain was revoked
func (r *RefreshTokenRecord) IsRevoked() bool {
	return r.RevokedAt != nil
}

// Usable returns true if the token can still be exchanged
func (r *RefreshTokenRecord) Usable() bool {
	return !r.IsExpired() && !r.IsConsumed() && !r.IsRevoked()
}

// NewOpaqueToken generates a cryptographically random token of n bytes of
// entropy, base64url encoded.
func NewOpaqueToken(n int) (string, error) {
	if n < 32 {
		n = 32
	}

	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate random token: %w", err)
	}

	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// HashToken returns the hex-encoded SHA-256 of an opaque token. This is the
// only form in which refresh and reset tokens are ever stored.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// AntiForgeryToken is the double-submit CSRF value issued alongside a session
type AntiForgeryToken struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// NewAntiForgeryToken creates a random anti-forgery value
func NewAntiForgeryToken(tokenLength int, duration time.Duration) (*AntiForgeryToken, error) {
	if tokenLength <= 0 {
		tokenLength = 32
	}

	if duration <= 0 {
		return nil, fmt.Errorf("token duration must be positive")
	}

	buf := make([]byte, tokenLength)
	if _, err := rand.Read(buf); err != nil {
		return nil, fmt.Errorf("failed to generate random token: %w", err)
	}

	now := time.Now()

	return &AntiForgeryToken{
		Token:     hex.EncodeToString(buf),
		ExpiresAt: now.Add(duration),
		CreatedAt: now,
	}, nil
}
