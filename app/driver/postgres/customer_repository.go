package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"

	"shopcore/app/domain"
)

// CustomerRepository accesses the customers table. It is always constructed
// over a tenant-bound transaction: the row-security policy keyed on the
// transaction's tenant marker is what scopes every query here, which is why
// none of the SQL repeats a tenant_id predicate. The explicit tenant_id
// check in Update is defense in depth, not the isolation mechanism.
type CustomerRepository struct {
	tx     Queryer
	logger *slog.Logger
}

// NewCustomerRepository creates a customer repository over a tenant-bound
// transaction.
func NewCustomerRepository(tx Queryer, logger *slog.Logger) *CustomerRepository {
	return &CustomerRepository{
		tx:     tx,
		logger: logger.With("component", "customer_repository"),
	}
}

// Get retrieves a customer by ID within the bound tenant
func (r *CustomerRepository) Get(ctx context.Context, id string) (*domain.Customer, error) {
	query := `
		SELECT id, tenant_id, name, email, phone, notes, created_at, updated_at
		FROM customers WHERE id = $1`

	var customer domain.Customer
	err := r.tx.QueryRow(ctx, query, id).Scan(
		&customer.ID,
		&customer.TenantID,
		&customer.Name,
		&customer.Email,
		&customer.Phone,
		&customer.Notes,
		&customer.CreatedAt,
		&customer.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrEntityNotFound
		}
		r.logger.Error("failed to get customer", "customer_id", id, "error", err)
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}

	return &customer, nil
}

// Update writes the customer's editable fields
func (r *CustomerRepository) Update(ctx context.Context, customer *domain.Customer) error {
	query := `
		UPDATE customers
		SET name = $2, email = $3, phone = $4, notes = $5, updated_at = $6
		WHERE id = $1 AND tenant_id = $7`

	tag, err := r.tx.Exec(ctx, query,
		customer.ID,
		customer.Name,
		customer.Email,
		customer.Phone,
		customer.Notes,
		customer.UpdatedAt,
		customer.TenantID,
	)

	if err != nil {
		r.logger.Error("failed to update customer", "customer_id", customer.ID, "error", err)
		return fmt.Errorf("failed to update customer: %w", err)
	}

	if tag.RowsAffected() != 1 {
		return domain.ErrEntityNotFound
	}

	return nil
}
