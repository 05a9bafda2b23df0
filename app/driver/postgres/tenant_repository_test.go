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

func tenantRows(id uuid.UUID, slug string, status domain.TenantStatus) *pgxmock.Rows {
	now := time.Now().UTC()
	return pgxmock.NewRows([]string{"id", "slug", "name", "status", "created_at", "updated_at"}).
		AddRow(id, slug, "Yamada Shoten", status, now, now)
}

func TestTenantRepository_GetBySlug(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	id := uuid.New()

	mock.ExpectQuery(`SELECT id, slug, name, status, created_at, updated_at\s+FROM tenants WHERE slug = \$1`).
		WithArgs("yamada").
		WillReturnRows(tenantRows(id, "yamada", domain.TenantStatusActive))

	repo := NewTenantRepository(mock, testLogger())

	tenant, err := repo.GetBySlug(context.Background(), "yamada")
	require.NoError(t, err)

	assert.Equal(t, id, tenant.ID)
	assert.True(t, tenant.IsActive())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTenantRepository_GetByID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	id := uuid.New()

	mock.ExpectQuery(`SELECT id, slug, name, status, created_at, updated_at\s+FROM tenants WHERE id = \$1`).
		WithArgs(id).
		WillReturnRows(tenantRows(id, "yamada", domain.TenantStatusSuspended))

	repo := NewTenantRepository(mock, testLogger())

	tenant, err := repo.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.False(t, tenant.IsActive())
}

func TestTenantRepository_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(`FROM tenants WHERE slug = \$1`).
		WithArgs("ghost").
		WillReturnError(pgx.ErrNoRows)

	repo := NewTenantRepository(mock, testLogger())

	_, err = repo.GetBySlug(context.Background(), "ghost")
	assert.ErrorIs(t, err, domain.ErrTenantNotFound)
}
