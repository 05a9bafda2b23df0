package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"shopcore/app/domain"
)

// MembershipRepository resolves the role a staff principal holds in a tenant
type MembershipRepository struct {
	db     Queryer
	logger *slog.Logger
}

// NewMembershipRepository creates a new PostgreSQL membership repository
func NewMembershipRepository(db Queryer, logger *slog.Logger) *MembershipRepository {
	return &MembershipRepository{
		db:     db,
		logger: logger.With("component", "membership_repository"),
	}
}

// Get looks up the membership row for (staff, tenant). The schema enforces
// at most one role per tenant per principal.
func (r *MembershipRepository) Get(ctx context.Context, staffID, tenantID uuid.UUID) (*domain.StaffMembership, error) {
	query := `
		SELECT staff_id, tenant_id, role, granted_at
		FROM staff_memberships
		WHERE staff_id = $1 AND tenant_id = $2`

	var membership domain.StaffMembership
	err := r.db.QueryRow(ctx, query, staffID, tenantID).Scan(
		&membership.StaffID,
		&membership.TenantID,
		&membership.Role,
		&membership.GrantedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrMembershipNotFound
		}
		r.logger.Error("failed to get membership",
			"staff_id", staffID,
			"tenant_id", tenantID,
			"error", err)
		return nil, fmt.Errorf("failed to get membership: %w", err)
	}

	return &membership, nil
}
