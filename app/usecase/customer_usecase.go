package usecase

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"shopcore/app/domain"
	"shopcore/app/port"
)

// CustomerUseCase implements port.CustomerUsecase. Reads return the entity
// with its weak tag; writes require If-Match and run the compare and the
// update inside the same tenant-bound transaction.
type CustomerUseCase struct {
	store  port.CustomerStore
	logger *slog.Logger
}

// NewCustomerUseCase creates the customer usecase
func NewCustomerUseCase(store port.CustomerStore, logger *slog.Logger) *CustomerUseCase {
	return &CustomerUseCase{
		store:  store,
		logger: logger.With("component", "customer_usecase"),
	}
}

// Get implements port.CustomerUsecase
func (u *CustomerUseCase) Get(ctx context.Context, tenantID uuid.UUID, id string) (*domain.Customer, string, error) {
	var (
		customer *domain.Customer
		tag      string
	)

	err := u.store.InTenant(ctx, tenantID, func(repo port.CustomerTxRepository) error {
		found, err := repo.Get(ctx, id)
		if err != nil {
			return err
		}
		customer = found
		tag = found.Tag()
		return nil
	})
	if err != nil {
		return nil, "", err
	}

	return customer, tag, nil
}

// Update applies a partial update guarded by ifMatch. A missing precondition
// is rejected before any storage work; a stale one fails with the current tag
// so the caller can re-read and retry.
func (u *CustomerUseCase) Update(ctx context.Context, tenantID uuid.UUID, id string, updates domain.CustomerUpdates, ifMatch string) (string, error) {
	if ifMatch == "" {
		return "", domain.ErrPreconditionMissing
	}

	var newTag string

	err := u.store.InTenant(ctx, tenantID, func(repo port.CustomerTxRepository) error {
		customer, err := repo.Get(ctx, id)
		if err != nil {
			return err
		}

		current := customer.Tag()
		if current != ifMatch {
			u.logger.Info("precondition failed",
				"tenant_id", tenantID,
				"customer_id", id)
			return &domain.PreconditionError{CurrentTag: current}
		}

		customer.Apply(updates)
		if err := repo.Update(ctx, customer); err != nil {
			return err
		}

		newTag = customer.Tag()
		return nil
	})
	if err != nil {
		return "", err
	}

	return newTag, nil
}
