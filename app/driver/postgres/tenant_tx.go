package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"shopcore/app/domain"
)

// tenantSettingKey is the transaction-scoped setting the row-security
// policies key on. The third argument of set_config (is_local = true) makes
// the setting transaction-scoped: it self-resets at COMMIT/ROLLBACK and can
// never leak into the pooled connection's next use. A session-scoped SET
// would survive the transaction and is therefore forbidden here.
const tenantSettingKey = "app.tenant_id"

// TenantTxGuard binds a validated tenant id to the database transaction used
// to serve a request. Every query issued through the returned transaction is
// restricted to that tenant's rows by the store's own row-level-security
// policies; application code does not need to repeat WHERE tenant_id = ?.
type TenantTxGuard struct {
	pool   TxBeginner
	logger *slog.Logger
}

// NewTenantTxGuard creates a tenant transaction guard
func NewTenantTxGuard(pool TxBeginner, logger *slog.Logger) *TenantTxGuard {
	return &TenantTxGuard{
		pool:   pool,
		logger: logger.With("component", "tenant_tx_guard"),
	}
}

// WithTenantTx runs fn inside a transaction whose tenant marker is set and
// verified. If the marker cannot be set, or does not read back as the tenant
// just bound, the guard rolls back and fails closed with
// domain.ErrTenantContextUnset; fn never runs with ambiguous scope.
func (g *TenantTxGuard) WithTenantTx(ctx context.Context, tenantID uuid.UUID, fn func(tx pgx.Tx) error) error {
	if tenantID == (uuid.UUID{}) {
		return fmt.Errorf("%w: empty tenant id", domain.ErrTenantContextUnset)
	}

	tx, err := g.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin tenant transaction: %w", err)
	}
	defer func() {
		// No-op after a successful commit.
		_ = tx.Rollback(ctx)
	}()

	if err := g.bindAndVerify(ctx, tx, tenantID); err != nil {
		g.logger.Error("tenant context binding failed",
			"tenant_id", tenantID,
			"error", err)
		return err
	}

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit tenant transaction: %w", err)
	}

	return nil
}

// bindAndVerify applies the transaction-scoped tenant marker and reads it
// back before any guarded query is allowed to run.
func (g *TenantTxGuard) bindAndVerify(ctx context.Context, tx pgx.Tx, tenantID uuid.UUID) error {
	if _, err := tx.Exec(ctx,
		`SELECT set_config($1, $2, true)`,
		tenantSettingKey, tenantID.String(),
	); err != nil {
		return fmt.Errorf("%w: set_config failed: %v", domain.ErrTenantContextUnset, err)
	}

	var bound string
	if err := tx.QueryRow(ctx,
		`SELECT current_setting($1, true)`,
		tenantSettingKey,
	).Scan(&bound); err != nil {
		return fmt.Errorf("%w: read-back failed: %v", domain.ErrTenantContextUnset, err)
	}

	if bound != tenantID.String() {
		return fmt.Errorf("%w: read-back returned %q, want %q",
			domain.ErrTenantContextUnset, bound, tenantID.String())
	}

	return nil
}
