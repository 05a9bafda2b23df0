package postgres

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"shopcore/app/port"
)

// CustomerStore implements port.CustomerStore over the tenant guard: every
// unit of work runs inside a transaction whose tenant marker has been set
// and verified before the callback sees a repository.
type CustomerStore struct {
	guard  *TenantTxGuard
	logger *slog.Logger
}

// NewCustomerStore creates a tenant-guarded customer store
func NewCustomerStore(guard *TenantTxGuard, logger *slog.Logger) *CustomerStore {
	return &CustomerStore{
		guard:  guard,
		logger: logger,
	}
}

// InTenant implements port.CustomerStore
func (s *CustomerStore) InTenant(ctx context.Context, tenantID uuid.UUID, fn func(repo port.CustomerTxRepository) error) error {
	return s.guard.WithTenantTx(ctx, tenantID, func(tx pgx.Tx) error {
		return fn(NewCustomerRepository(tx, s.logger))
	})
}
