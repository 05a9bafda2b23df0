package port

import (
	"context"

	"github.com/google/uuid"

	"shopcore/app/domain"
)

// CustomerTxRepository is the per-transaction view of customer storage.
// Implementations are only ever handed out by a CustomerStore, inside a
// tenant-bound transaction.
type CustomerTxRepository interface {
	Get(ctx context.Context, id string) (*domain.Customer, error)
	Update(ctx context.Context, customer *domain.Customer) error
}

// CustomerStore runs customer work inside a tenant-bound unit of work. The
// whole fn, precondition check and write included, executes in one
// transaction, so no other writer can interleave between check and write.
type CustomerStore interface {
	InTenant(ctx context.Context, tenantID uuid.UUID, fn func(repo CustomerTxRepository) error) error
}

// CustomerUsecase exposes the sample conditional-update resource. Get returns
// the entity together with its current tag; Update enforces the If-Match
// precondition inside the same tenant-bound transaction that performs the
// write and returns the new tag.
type CustomerUsecase interface {
	Get(ctx context.Context, tenantID uuid.UUID, id string) (*domain.Customer, string, error)
	Update(ctx context.Context, tenantID uuid.UUID, id string, updates domain.CustomerUpdates, ifMatch string) (string, error)
}
