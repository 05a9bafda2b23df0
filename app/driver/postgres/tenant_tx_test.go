package postgres

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopcore/app/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestTenantTxGuard_BindsAndCommits(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	tenantID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec(`SELECT set_config\(\$1, \$2, true\)`).
		WithArgs(tenantSettingKey, tenantID.String()).
		WillReturnResult(pgxmock.NewResult("SELECT", 1))
	mock.ExpectQuery(`SELECT current_setting\(\$1, true\)`).
		WithArgs(tenantSettingKey).
		WillReturnRows(pgxmock.NewRows([]string{"current_setting"}).AddRow(tenantID.String()))
	mock.ExpectCommit()

	guard := NewTenantTxGuard(mock, testLogger())

	ran := false
	err = guard.WithTenantTx(context.Background(), tenantID, func(tx pgx.Tx) error {
		ran = true
		return nil
	})

	require.NoError(t, err)
	assert.True(t, ran)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTenantTxGuard_ReadBackMismatchFailsClosed(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	tenantID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec(`SELECT set_config\(\$1, \$2, true\)`).
		WithArgs(tenantSettingKey, tenantID.String()).
		WillReturnResult(pgxmock.NewResult("SELECT", 1))
	mock.ExpectQuery(`SELECT current_setting\(\$1, true\)`).
		WithArgs(tenantSettingKey).
		WillReturnRows(pgxmock.NewRows([]string{"current_setting"}).AddRow(uuid.New().String()))
	mock.ExpectRollback()

	guard := NewTenantTxGuard(mock, testLogger())

	ran := false
	err = guard.WithTenantTx(context.Background(), tenantID, func(tx pgx.Tx) error {
		ran = true
		return nil
	})

	assert.ErrorIs(t, err, domain.ErrTenantContextUnset)
	assert.False(t, ran, "callback must never run with ambiguous scope")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTenantTxGuard_SetConfigFailureFailsClosed(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	tenantID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec(`SELECT set_config\(\$1, \$2, true\)`).
		WithArgs(tenantSettingKey, tenantID.String()).
		WillReturnError(errors.New("permission denied"))
	mock.ExpectRollback()

	guard := NewTenantTxGuard(mock, testLogger())

	err = guard.WithTenantTx(context.Background(), tenantID, func(tx pgx.Tx) error {
		t.Fatal("callback must not run")
		return nil
	})

	assert.ErrorIs(t, err, domain.ErrTenantContextUnset)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTenantTxGuard_RejectsEmptyTenant(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	guard := NewTenantTxGuard(mock, testLogger())

	err = guard.WithTenantTx(context.Background(), uuid.UUID{}, func(tx pgx.Tx) error {
		t.Fatal("callback must not run")
		return nil
	})

	assert.ErrorIs(t, err, domain.ErrTenantContextUnset)
}

func TestTenantTxGuard_CallbackErrorRollsBack(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	tenantID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec(`SELECT set_config\(\$1, \$2, true\)`).
		WithArgs(tenantSettingKey, tenantID.String()).
		WillReturnResult(pgxmock.NewResult("SELECT", 1))
	mock.ExpectQuery(`SELECT current_setting\(\$1, true\)`).
		WithArgs(tenantSettingKey).
		WillReturnRows(pgxmock.NewRows([]string{"current_setting"}).AddRow(tenantID.String()))
	mock.ExpectRollback()

	guard := NewTenantTxGuard(mock, testLogger())

	boom := errors.New("unit of work failed")
	err = guard.WithTenantTx(context.Background(), tenantID, func(tx pgx.Tx) error {
		return boom
	})

	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}
