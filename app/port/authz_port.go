package port

import (
	"context"

	"github.com/google/uuid"

	"shopcore/app/domain"
)

// MembershipRepository looks up the role a staff principal holds in a tenant.
// Returns domain.ErrMembershipNotFound when the principal has no membership
// in that tenant, regardless of roles held elsewhere.
type MembershipRepository interface {
	Get(ctx context.Context, staffID, tenantID uuid.UUID) (*domain.StaffMembership, error)
}

// RoleAuthorizer decides whether a principal may perform an operation that
// requires at least the given role in the given tenant. Absent membership
// and unknown roles both fail closed.
type RoleAuthorizer interface {
	Require(ctx context.Context, staffID, tenantID uuid.UUID, min domain.StaffRole) error
}
