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

// TenantRepository is the Postgres-backed tenant registry. Tenants are
// written only by out-of-band provisioning flows; this repository is
// read-only by design.
type TenantRepository struct {
	db     Queryer
	logger *slog.Logger
}

// NewTenantRepository creates a new PostgreSQL tenant repository
func NewTenantRepository(db Queryer, logger *slog.Logger) *TenantRepository {
	return &TenantRepository{
		db:     db,
		logger: logger.With("component", "tenant_repository"),
	}
}

// GetByID retrieves a tenant by ID
func (r *TenantRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Tenant, error) {
	query := `
		SELECT id, slug, name, status, created_at, updated_at
		FROM tenants WHERE id = $1`

	return r.scanOne(r.db.QueryRow(ctx, query, id))
}

// GetBySlug retrieves a tenant by slug
func (r *TenantRepository) GetBySlug(ctx context.Context, slug string) (*domain.Tenant, error) {
	query := `
		SELECT id, slug, name, status, created_at, updated_at
		FROM tenants WHERE slug = $1`

	return r.scanOne(r.db.QueryRow(ctx, query, slug))
}

func (r *TenantRepository) scanOne(row pgx.Row) (*domain.Tenant, error) {
	var tenant domain.Tenant
	err := row.Scan(
		&tenant.ID,
		&tenant.Slug,
		&tenant.Name,
		&tenant.Status,
		&tenant.CreatedAt,
		&tenant.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTenantNotFound
		}
		r.logger.Error("failed to get tenant", "error", err)
		return nil, fmt.Errorf("failed to get tenant: %w", err)
	}

	return &tenant, nil
}
