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

// TokenRepository persists refresh-token rotation chains
type TokenRepository struct {
	db     TxBeginner
	logger *slog.Logger
}

// NewTokenRepository creates a new PostgreSQL refresh-token repository
func NewTokenRepository(db TxBeginner, logger *slog.Logger) *TokenRepository {
	return &TokenRepository{
		db:     db,
		logger: logger.With("component", "token_repository"),
	}
}

// Insert stores a freshly minted refresh-token record
func (r *TokenRepository) Insert(ctx context.Context, record *domain.RefreshTokenRecord) error {
	query := `
		INSERT INTO refresh_tokens (
			id, chain_id, staff_id, tenant_id, token_hash, issued_at, expires_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7
		)`

	_, err := r.db.Exec(ctx, query,
		record.ID,
		record.ChainID,
		record.StaffID,
		record.TenantID,
		record.TokenHash,
		record.IssuedAt,
		record.ExpiresAt,
	)

	if err != nil {
		r.logger.Error("failed to insert refresh token", "chain_id", record.ChainID, "error", err)
		return fmt.Errorf("failed to insert refresh token: %w", err)
	}

	return nil
}

// GetByHash looks up a refresh token by the hash of its opaque value
func (r *TokenRepository) GetByHash(ctx context.Context, tokenHash string) (*domain.RefreshTokenRecord, error) {
	query := `
		SELECT id, chain_id, staff_id, tenant_id, token_hash,
		       issued_at, expires_at, consumed_at, revoked_at
		FROM refresh_tokens WHERE token_hash = $1`

	var record domain.RefreshTokenRecord
	err := r.db.QueryRow(ctx, query, tokenHash).Scan(
		&record.ID,
		&record.ChainID,
		&record.StaffID,
		&record.TenantID,
		&record.TokenHash,
		&record.IssuedAt,
		&record.ExpiresAt,
		&record.ConsumedAt,
		&record.RevokedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUnauthenticated
		}
		r.logger.Error("failed to get refresh token", "error", err)
		return nil, fmt.Errorf("failed to get refresh token: %w", err)
	}

	return &record, nil
}

// Rotate atomically consumes the old token and inserts its successor. The
// conditional UPDATE is the serialization point: when two refresh calls race
// with the same token, exactly one sees its row still unconsumed; the other
// gets domain.ErrRefreshReuse.
func (r *TokenRepository) Rotate(ctx context.Context, oldID uuid.UUID, successor *domain.RefreshTokenRecord) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin rotation: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	tag, err := tx.Exec(ctx, `
		UPDATE refresh_tokens
		SET consumed_at = now()
		WHERE id = $1 AND consumed_at IS NULL AND revoked_at IS NULL`,
		oldID,
	)
	if err != nil {
		return fmt.Errorf("failed to consume refresh token: %w", err)
	}

	if tag.RowsAffected() != 1 {
		return domain.ErrRefreshReuse
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO refresh_tokens (
			id, chain_id, staff_id, tenant_id, token_hash, issued_at, expires_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7
		)`,
		successor.ID,
		successor.ChainID,
		successor.StaffID,
		successor.TenantID,
		successor.TokenHash,
		successor.IssuedAt,
		successor.ExpiresAt,
	); err != nil {
		return fmt.Errorf("failed to insert successor token: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit rotation: %w", err)
	}

	return nil
}

// RevokeChain invalidates every token in a rotation chain
func (r *TokenRepository) RevokeChain(ctx context.Context, chainID uuid.UUID) error {
	query := `
		UPDATE refresh_tokens
		SET revoked_at = now()
		WHERE chain_id = $1 AND revoked_at IS NULL`

	tag, err := r.db.Exec(ctx, query, chainID)
	if err != nil {
		r.logger.Error("failed to revoke chain", "chain_id", chainID, "error", err)
		return fmt.Errorf("failed to revoke chain: %w", err)
	}

	r.logger.Info("rotation chain revoked", "chain_id", chainID, "tokens", tag.RowsAffected())
	return nil
}

// RevokeAllForStaff invalidates every chain belonging to a principal
func (r *TokenRepository) RevokeAllForStaff(ctx context.Context, staffID uuid.UUID) error {
	query := `
		UPDATE refresh_tokens
		SET revoked_at = now()
		WHERE staff_id = $1 AND revoked_at IS NULL`

	tag, err := r.db.Exec(ctx, query, staffID)
	if err != nil {
		r.logger.Error("failed to revoke staff tokens", "staff_id", staffID, "error", err)
		return fmt.Errorf("failed to revoke staff tokens: %w", err)
	}

	r.logger.Info("all rotation chains revoked for staff", "staff_id", staffID, "tokens", tag.RowsAffected())
	return nil
}
