package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopcore/app/domain"
)

func refreshRecord() *domain.RefreshTokenRecord {
	now := time.Now().UTC()
	return &domain.RefreshTokenRecord{
		ID:        uuid.New(),
		ChainID:   uuid.New(),
		StaffID:   uuid.New(),
		TenantID:  uuid.New(),
		TokenHash: domain.HashToken("opaque-value"),
		IssuedAt:  now,
		ExpiresAt: now.Add(14 * 24 * time.Hour),
	}
}

func TestTokenRepository_GetByHash(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	record := refreshRecord()

	rows := pgxmock.NewRows([]string{
		"id", "chain_id", "staff_id", "tenant_id", "token_hash",
		"issued_at", "expires_at", "consumed_at", "revoked_at",
	}).AddRow(
		record.ID, record.ChainID, record.StaffID, record.TenantID, record.TokenHash,
		record.IssuedAt, record.ExpiresAt, nil, nil,
	)

	mock.ExpectQuery(`SELECT id, chain_id, staff_id, tenant_id, token_hash`).
		WithArgs(record.TokenHash).
		WillReturnRows(rows)

	repo := NewTokenRepository(mock, testLogger())

	got, err := repo.GetByHash(context.Background(), record.TokenHash)
	require.NoError(t, err)

	assert.Equal(t, record.ID, got.ID)
	assert.Equal(t, record.ChainID, got.ChainID)
	assert.True(t, got.Usable())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTokenRepository_GetByHashUnknown(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(`SELECT id, chain_id, staff_id, tenant_id, token_hash`).
		WithArgs("no-such-hash").
		WillReturnError(pgx.ErrNoRows)

	repo := NewTokenRepository(mock, testLogger())

	_, err = repo.GetByHash(context.Background(), "no-such-hash")
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestTokenRepository_Rotate(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	oldID := uuid.New()
	successor := refreshRecord()

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE refresh_tokens\s+SET consumed_at = now\(\)`).
		WithArgs(oldID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec(`INSERT INTO refresh_tokens`).
		WithArgs(
			successor.ID, successor.ChainID, successor.StaffID, successor.TenantID,
			successor.TokenHash, successor.IssuedAt, successor.ExpiresAt,
		).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	repo := NewTokenRepository(mock, testLogger())

	require.NoError(t, repo.Rotate(context.Background(), oldID, successor))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTokenRepository_RotateLosesRace(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	oldID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE refresh_tokens\s+SET consumed_at = now\(\)`).
		WithArgs(oldID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	mock.ExpectRollback()

	repo := NewTokenRepository(mock, testLogger())

	err = repo.Rotate(context.Background(), oldID, refreshRecord())
	assert.ErrorIs(t, err, domain.ErrRefreshReuse)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTokenRepository_RevokeChain(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	chainID := uuid.New()

	mock.ExpectExec(`UPDATE refresh_tokens\s+SET revoked_at = now\(\)\s+WHERE chain_id = \$1`).
		WithArgs(chainID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 3))

	repo := NewTokenRepository(mock, testLogger())

	require.NoError(t, repo.RevokeChain(context.Background(), chainID))
	assert.NoError(t, mock.ExpectationsWereMet())
}
