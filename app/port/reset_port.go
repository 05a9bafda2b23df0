package port

import (
	"context"

	"github.com/google/uuid"

	"shopcore/app/domain"
)

// StaffRepository reads staff principals and updates their credential. Email
// lookup is scoped through memberships: a staff member is only visible in
// tenants they belong to.
type StaffRepository interface {
	GetByEmailInTenant(ctx context.Context, email string, tenantID uuid.UUID) (*domain.Staff, error)
	GetByID(ctx context.Context, staffID uuid.UUID) (*domain.Staff, error)
	UpdatePassword(ctx context.Context, staffID uuid.UUID, passwordHash string) error
}

// ResetTokenRepository persists one-time credential reset tokens. Redeem is
// atomic: it stamps used_at only if the token is unused, unexpired and scoped
// to the given (staff, tenant) pair, and reports domain.ErrResetTokenInvalid
// otherwise.
type ResetTokenRepository interface {
	Insert(ctx context.Context, token *domain.ResetToken) error
	Redeem(ctx context.Context, staffID, tenantID uuid.UUID, tokenHash string) error
	PurgeExpired(ctx context.Context) (int64, error)
}

// ResetDelivery hands the plaintext reset token to the out-of-scope delivery
// channel (mail, SMS). Implementations must not persist the token.
type ResetDelivery interface {
	Deliver(ctx context.Context, email, token string) error
}

// PasswordResetUsecase is the handler-facing surface of the reset flow
type PasswordResetUsecase interface {
	// Request always behaves identically whether or not the email exists.
	Request(ctx context.Context, email string, tenantID uuid.UUID) error
	Confirm(ctx context.Context, staffID uuid.UUID, token, newPassword string, tenantID uuid.UUID) error
}
