package port

import (
	"context"

	"github.com/google/uuid"

	"shopcore/app/domain"
)

// TenantRegistry is the read-mostly lookup of valid tenants. Both lookups
// return domain.ErrTenantNotFound for unknown tenants; callers must not
// distinguish unknown from suspended in anything user-visible.
type TenantRegistry interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Tenant, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Tenant, error)
}

// TenantResolver extracts and validates the tenant a request belongs to.
// Implementations resolve, in order: explicit header, subdomain label,
// /tenant/ path segment, configured default.
type TenantResolver interface {
	Resolve(ctx context.Context, header, host, path string) (*domain.Tenant, error)
}
