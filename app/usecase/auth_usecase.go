package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"shopcore/app/domain"
	"shopcore/app/port"
)

// dummyHash is compared against when the email matches no staff member, so
// lookups that miss cost the same as lookups that hit (uniform timing for
// enumeration probes). Hash of an unguessable throwaway value.
var dummyHash = []byte("$2a$10$N9qo8uLOickgx2ZMRZoMye1VdLt3.q6K1nLaHIhgPmOTOrsO7QJdq")

// AuthConfig holds login configuration
type AuthConfig struct {
	CSRFTokenLength int
	CSRFTokenTTL    time.Duration
}

// AuthUseCase implements port.AuthUsecase: password login, session refresh
// and logout.
type AuthUseCase struct {
	cfg    AuthConfig
	staff  port.StaffRepository
	tokens port.SessionTokenService
	logger *slog.Logger
}

// NewAuthUseCase creates the login/refresh/logout usecase
func NewAuthUseCase(cfg AuthConfig, staff port.StaffRepository, tokens port.SessionTokenService, logger *slog.Logger) *AuthUseCase {
	return &AuthUseCase{
		cfg:    cfg,
		staff:  staff,
		tokens: tokens,
		logger: logger.With("component", "auth_usecase"),
	}
}

// Login authenticates a staff member within the resolved tenant and issues a
// session pair plus the anti-forgery value for the double-submit cookie.
func (u *AuthUseCase) Login(ctx context.Context, email, password string, tenantID uuid.UUID) (*domain.TokenPair, *domain.AntiForgeryToken, error) {
	staff, err := u.staff.GetByEmailInTenant(ctx, email, tenantID)
	if err != nil {
		if errors.Is(err, domain.ErrStaffNotFound) {
			// Burn a bcrypt comparison anyway; see dummyHash.
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
			return nil, nil, domain.ErrInvalidCredentials
		}
		return nil, nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(staff.PasswordHash), []byte(password)); err != nil {
		u.logger.Info("login rejected", "tenant_id", tenantID)
		return nil, nil, domain.ErrInvalidCredentials
	}

	pair, err := u.tokens.Issue(ctx, staff.ID, tenantID)
	if err != nil {
		return nil, nil, err
	}

	csrf, err := domain.NewAntiForgeryToken(u.cfg.CSRFTokenLength, u.cfg.CSRFTokenTTL)
	if err != nil {
		return nil, nil, err
	}

	u.logger.Info("login succeeded",
		"staff_id", staff.ID,
		"tenant_id", tenantID,
		"chain_id", pair.ChainID)

	return pair, csrf, nil
}

// Refresh rotates a session pair
func (u *AuthUseCase) Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	return u.tokens.Refresh(ctx, refreshToken)
}

// Logout revokes the caller's rotation chain so the refresh token held by
// the browser (or by anyone who stole it earlier) can no longer be exchanged.
func (u *AuthUseCase) Logout(ctx context.Context, principal *domain.Principal) error {
	if principal == nil {
		return domain.ErrUnauthenticated
	}

	return u.tokens.RevokeChain(ctx, principal.ChainID)
}
