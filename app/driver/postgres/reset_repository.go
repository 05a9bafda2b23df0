package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"shopcore/app/domain"
)

// ResetRepository persists one-time credential reset tokens
type ResetRepository struct {
	db     Queryer
	logger *slog.Logger
}

// NewResetRepository creates a new PostgreSQL reset-token repository
func NewResetRepository(db Queryer, logger *slog.Logger) *ResetRepository {
	return &ResetRepository{
		db:     db,
		logger: logger.With("component", "reset_repository"),
	}
}

// Insert stores a reset-token record (hash only, never the plaintext)
func (r *ResetRepository) Insert(ctx context.Context, token *domain.ResetToken) error {
	query := `
		INSERT INTO reset_tokens (
			id, staff_id, tenant_id, token_hash, expires_at, created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6
		)`

	_, err := r.db.Exec(ctx, query,
		token.ID,
		token.StaffID,
		token.TenantID,
		token.TokenHash,
		token.ExpiresAt,
		token.CreatedAt,
	)

	if err != nil {
		r.logger.Error("failed to insert reset token", "staff_id", token.StaffID, "error", err)
		return fmt.Errorf("failed to insert reset token: %w", err)
	}

	return nil
}

// Redeem stamps used_at exactly once. The WHERE clause carries the whole
// contract: correct (staff, tenant) scope, unused, unexpired. Zero rows means
// wrong tenant, wrong staff, expired or already used; callers surface all of
// those as one generic invalid-token error.
func (r *ResetRepository) Redeem(ctx context.Context, staffID, tenantID uuid.UUID, tokenHash string) error {
	query := `
		UPDATE reset_tokens
		SET used_at = now()
		WHERE staff_id = $1
		  AND tenant_id = $2
		  AND token_hash = $3
		  AND used_at IS NULL
		  AND expires_at > now()`

	tag, err := r.db.Exec(ctx, query, staffID, tenantID, tokenHash)
	if err != nil {
		r.logger.Error("failed to redeem reset token", "staff_id", staffID, "error", err)
		return fmt.Errorf("failed to redeem reset token: %w", err)
	}

	if tag.RowsAffected() != 1 {
		return domain.ErrResetTokenInvalid
	}

	return nil
}

// PurgeExpired deletes spent and expired tokens. Best-effort housekeeping;
// correctness never depends on it.
func (r *ResetRepository) PurgeExpired(ctx context.Context) (int64, error) {
	query := `
		DELETE FROM reset_tokens
		WHERE expires_at <= now() OR used_at IS NOT NULL`

	tag, err := r.db.Exec(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("failed to purge reset tokens: %w", err)
	}

	return tag.RowsAffected(), nil
}
