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

// ResetConfig holds password reset configuration
type ResetConfig struct {
	TokenTTL   time.Duration
	BcryptCost int
}

// ResetUseCase implements port.PasswordResetUsecase. Request never reveals
// whether an email exists; Confirm burns the token, swaps the credential and
// revokes every live session of the staff member in one pass.
type ResetUseCase struct {
	cfg      ResetConfig
	staff    port.StaffRepository
	resets   port.ResetTokenRepository
	delivery port.ResetDelivery
	tokens   port.SessionTokenService
	logger   *slog.Logger
}

// NewResetUseCase creates the password reset usecase
func NewResetUseCase(cfg ResetConfig, staff port.StaffRepository, resets port.ResetTokenRepository, delivery port.ResetDelivery, tokens port.SessionTokenService, logger *slog.Logger) *ResetUseCase {
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = bcrypt.DefaultCost
	}
	return &ResetUseCase{
		cfg:      cfg,
		staff:    staff,
		resets:   resets,
		delivery: delivery,
		tokens:   tokens,
		logger:   logger.With("component", "password_reset"),
	}
}

// Request issues a reset token for the staff member behind email, scoped to
// the resolved tenant. Every outcome, including unknown emails and delivery
// failures, is reported to the caller as success; details go to the log only.
func (u *ResetUseCase) Request(ctx context.Context, email string, tenantID uuid.UUID) error {
	staff, err := u.staff.GetByEmailInTenant(ctx, email, tenantID)
	if err != nil {
		if !errors.Is(err, domain.ErrStaffNotFound) {
			u.logger.Error("reset request lookup failed", "tenant_id", tenantID, "error", err)
		}
		return nil
	}

	record, plaintext, err := domain.NewResetToken(staff.ID, tenantID, u.cfg.TokenTTL)
	if err != nil {
		u.logger.Error("reset token generation failed", "tenant_id", tenantID, "error", err)
		return nil
	}

	if err := u.resets.Insert(ctx, record); err != nil {
		u.logger.Error("reset token insert failed", "tenant_id", tenantID, "error", err)
		return nil
	}

	if err := u.delivery.Deliver(ctx, staff.Email, plaintext); err != nil {
		u.logger.Error("reset token delivery failed", "tenant_id", tenantID, "error", err)
		return nil
	}

	u.logger.Info("reset token issued", "staff_id", staff.ID, "tenant_id", tenantID)
	return nil
}

// Confirm redeems a reset token and installs the new credential. Redemption
// is keyed on (staff, tenant, token hash) so a token issued in one tenant is
// worthless in another even for the same staff member.
func (u *ResetUseCase) Confirm(ctx context.Context, staffID uuid.UUID, token, newPassword string, tenantID uuid.UUID) error {
	if err := u.resets.Redeem(ctx, staffID, tenantID, domain.HashToken(token)); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), u.cfg.BcryptCost)
	if err != nil {
		return err
	}

	if err := u.staff.UpdatePassword(ctx, staffID, string(hash)); err != nil {
		return err
	}

	// A credential reset usually means the old one leaked. Kill every
	// session, not just the one chain the caller may still hold.
	if err := u.tokens.RevokeAllForStaff(ctx, staffID); err != nil {
		u.logger.Error("failed to revoke sessions after reset", "staff_id", staffID, "error", err)
	}

	if purged, err := u.resets.PurgeExpired(ctx); err == nil && purged > 0 {
		u.logger.Debug("purged expired reset tokens", "count", purged)
	}

	u.logger.Info("password reset confirmed", "staff_id", staffID, "tenant_id", tenantID)
	return nil
}
