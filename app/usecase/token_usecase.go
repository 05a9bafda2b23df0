package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"shopcore/app/domain"
	"shopcore/app/port"
)

// refreshTokenEntropy is the number of random bytes behind a refresh token
const refreshTokenEntropy = 32

// TokenConfig holds token service configuration
type TokenConfig struct {
	Secret     string
	Issuer     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// accessClaims is the JWT payload of an access token
type accessClaims struct {
	TenantID string `json:"tid"`
	ChainID  string `json:"cid"`
	jwt.RegisteredClaims
}

// TokenUseCase implements port.SessionTokenService. Access tokens are
// stateless HS256 JWTs verified by signature and expiry alone; refresh
// tokens are opaque, stored as hashes, and checked against their rotation
// record on every exchange.
type TokenUseCase struct {
	cfg    TokenConfig
	tokens port.RefreshTokenRepository
	logger *slog.Logger
}

// NewTokenUseCase creates the session token service
func NewTokenUseCase(cfg TokenConfig, tokens port.RefreshTokenRepository, logger *slog.Logger) *TokenUseCase {
	return &TokenUseCase{
		cfg:    cfg,
		tokens: tokens,
		logger: logger.With("component", "token_service"),
	}
}

// Issue mints a fresh access/refresh pair under a new rotation chain
func (u *TokenUseCase) Issue(ctx context.Context, staffID, tenantID uuid.UUID) (*domain.TokenPair, error) {
	return u.mintPair(ctx, staffID, tenantID, uuid.New(), nil)
}

// Verify checks an access token's signature and expiry. No store lookup:
// this is the fast path on every request, and the short access TTL bounds
// how long a stolen access token stays useful.
func (u *TokenUseCase) Verify(accessToken string) (*domain.Principal, error) {
	parsed, err := jwt.ParseWithClaims(accessToken, &accessClaims{}, func(t *jwt.Token) (interface{}, error) {
		return []byte(u.cfg.Secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithIssuer(u.cfg.Issuer))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrTokenExpired
		}
		return nil, domain.ErrUnauthenticated
	}

	claims, ok := parsed.Claims.(*accessClaims)
	if !ok || !parsed.Valid {
		return nil, domain.ErrUnauthenticated
	}

	staffID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, domain.ErrUnauthenticated
	}

	tenantID, err := uuid.Parse(claims.TenantID)
	if err != nil {
		return nil, domain.ErrUnauthenticated
	}

	chainID, err := uuid.Parse(claims.ChainID)
	if err != nil {
		return nil, domain.ErrUnauthenticated
	}

	return &domain.Principal{
		StaffID:  staffID,
		TenantID: tenantID,
		ChainID:  chainID,
	}, nil
}

// Refresh exchanges a refresh token for a new pair. Reuse of a consumed
// token is treated as theft: the whole rotation chain is revoked before the
// error is returned, so neither the thief nor the legitimate holder keeps a
// working token.
func (u *TokenUseCase) Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	record, err := u.tokens.GetByHash(ctx, domain.HashToken(refreshToken))
	if err != nil {
		return nil, err
	}

	if record.IsRevoked() {
		return nil, domain.ErrChainRevoked
	}

	if record.IsExpired() {
		return nil, domain.ErrTokenExpired
	}

	if record.IsConsumed() {
		u.logger.Warn("refresh token replay detected, revoking chain",
			"chain_id", record.ChainID,
			"staff_id", record.StaffID)
		if err := u.tokens.RevokeChain(ctx, record.ChainID); err != nil {
			u.logger.Error("failed to revoke chain after replay", "chain_id", record.ChainID, "error", err)
		}
		return nil, domain.ErrRefreshReuse
	}

	pair, err := u.mintPair(ctx, record.StaffID, record.TenantID, record.ChainID, &record.ID)
	if err != nil {
		if errors.Is(err, domain.ErrRefreshReuse) {
			// Lost the race against a concurrent refresh with the same token.
			if revokeErr := u.tokens.RevokeChain(ctx, record.ChainID); revokeErr != nil {
				u.logger.Error("failed to revoke chain after replay", "chain_id", record.ChainID, "error", revokeErr)
			}
		}
		return nil, err
	}

	return pair, nil
}

// RevokeChain invalidates a rotation chain (logout)
func (u *TokenUseCase) RevokeChain(ctx context.Context, chainID uuid.UUID) error {
	return u.tokens.RevokeChain(ctx, chainID)
}

// RevokeAllForStaff invalidates every chain of a principal
func (u *TokenUseCase) RevokeAllForStaff(ctx context.Context, staffID uuid.UUID) error {
	return u.tokens.RevokeAllForStaff(ctx, staffID)
}

// mintPair creates the access JWT and the stored refresh record. When
// predecessor is set the pair replaces an existing token: consume-old and
// insert-new happen atomically in the repository.
func (u *TokenUseCase) mintPair(ctx context.Context, staffID, tenantID, chainID uuid.UUID, predecessor *uuid.UUID) (*domain.TokenPair, error) {
	opaque, err := domain.NewOpaqueToken(refreshTokenEntropy)
	if err != nil {
		return nil, err
	}

	record, err := domain.NewRefreshTokenRecord(chainID, staffID, tenantID, domain.HashToken(opaque), u.cfg.RefreshTTL)
	if err != nil {
		return nil, err
	}

	if predecessor == nil {
		if err := u.tokens.Insert(ctx, record); err != nil {
			return nil, err
		}
	} else {
		if err := u.tokens.Rotate(ctx, *predecessor, record); err != nil {
			return nil, err
		}
	}

	access, accessExpiry, err := u.mintAccess(staffID, tenantID, chainID)
	if err != nil {
		return nil, err
	}

	return &domain.TokenPair{
		AccessToken:      access,
		AccessExpiresAt:  accessExpiry,
		RefreshToken:     opaque,
		RefreshExpiresAt: record.ExpiresAt,
		ChainID:          chainID,
	}, nil
}

func (u *TokenUseCase) mintAccess(staffID, tenantID, chainID uuid.UUID) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(u.cfg.AccessTTL)

	claims := accessClaims{
		TenantID: tenantID.String(),
		ChainID:  chainID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    u.cfg.Issuer,
			Subject:   staffID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(u.cfg.Secret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign access token: %w", err)
	}

	return signed, expiresAt, nil
}
