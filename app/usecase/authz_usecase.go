package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"shopcore/app/domain"
	"shopcore/app/port"
)

// AuthorizerUseCase implements port.RoleAuthorizer over staff memberships.
// Everything here fails closed: no membership, unknown stored role and
// unknown required role all deny.
type AuthorizerUseCase struct {
	memberships port.MembershipRepository
	logger      *slog.Logger
}

// NewAuthorizerUseCase creates the role authorizer
func NewAuthorizerUseCase(memberships port.MembershipRepository, logger *slog.Logger) *AuthorizerUseCase {
	return &AuthorizerUseCase{
		memberships: memberships,
		logger:      logger.With("component", "role_authorizer"),
	}
}

// Require checks that the principal holds at least min in the tenant
func (a *AuthorizerUseCase) Require(ctx context.Context, staffID, tenantID uuid.UUID, min domain.StaffRole) error {
	if !min.IsValid() {
		// A route demanding a role we do not know about is a programming
		// error; denying is still safer than defaulting open.
		a.logger.Error("unknown required role", "role", min)
		return domain.ErrUnknownRole
	}

	membership, err := a.memberships.Get(ctx, staffID, tenantID)
	if err != nil {
		if errors.Is(err, domain.ErrMembershipNotFound) {
			return domain.ErrInsufficientRole
		}
		return err
	}

	if !membership.Role.Covers(min) {
		a.logger.Info("role check denied",
			"staff_id", staffID,
			"tenant_id", tenantID,
			"held", membership.Role,
			"required", min)
		return domain.ErrInsufficientRole
	}

	return nil
}
