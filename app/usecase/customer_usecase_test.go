package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopcore/app/domain"
)

func storedCustomer() *domain.Customer {
	created := time.Date(2026, 5, 10, 9, 0, 0, 0, time.UTC)
	return &domain.Customer{
		ID:        "11111111-1111-1111-1111-111111111111",
		TenantID:  "22222222-2222-2222-2222-222222222222",
		Name:      "Hana Suzuki",
		Email:     "hana@example.com",
		CreatedAt: created,
		UpdatedAt: created,
	}
}

func TestCustomerUseCase_Get(t *testing.T) {
	customer := storedCustomer()
	store := &fakeCustomerStore{repo: &fakeCustomerRepo{customer: customer}}
	tenantID := uuid.New()

	uc := NewCustomerUseCase(store, testLogger())

	got, tag, err := uc.Get(context.Background(), tenantID, customer.ID)
	require.NoError(t, err)

	assert.Equal(t, customer.Name, got.Name)
	assert.Equal(t, customer.Tag(), tag)
	assert.Equal(t, tenantID, store.gotTenant, "work runs in the caller's tenant")
}

func TestCustomerUseCase_GetNotFound(t *testing.T) {
	store := &fakeCustomerStore{repo: &fakeCustomerRepo{}}
	uc := NewCustomerUseCase(store, testLogger())

	_, _, err := uc.Get(context.Background(), uuid.New(), "missing")
	assert.ErrorIs(t, err, domain.ErrEntityNotFound)
}

func TestCustomerUseCase_UpdateRequiresPrecondition(t *testing.T) {
	store := &fakeCustomerStore{repo: &fakeCustomerRepo{customer: storedCustomer()}}
	uc := NewCustomerUseCase(store, testLogger())

	name := "Renamed"
	_, err := uc.Update(context.Background(), uuid.New(), storedCustomer().ID, domain.CustomerUpdates{Name: &name}, "")

	assert.ErrorIs(t, err, domain.ErrPreconditionMissing)
	assert.Equal(t, uuid.UUID{}, store.gotTenant, "rejected before any storage work")
}

func TestCustomerUseCase_UpdateStaleTagConflicts(t *testing.T) {
	customer := storedCustomer()
	repo := &fakeCustomerRepo{customer: customer}
	uc := NewCustomerUseCase(&fakeCustomerStore{repo: repo}, testLogger())

	name := "Renamed"
	_, err := uc.Update(context.Background(), uuid.New(), customer.ID, domain.CustomerUpdates{Name: &name}, `W/"stale"`)

	var precondition *domain.PreconditionError
	require.ErrorAs(t, err, &precondition)
	assert.Equal(t, customer.Tag(), precondition.CurrentTag, "conflict carries the current tag")
	assert.ErrorIs(t, err, domain.ErrPreconditionMismatch)
	assert.Nil(t, repo.updated, "no write on conflict")
}

func TestCustomerUseCase_UpdateHappyPath(t *testing.T) {
	customer := storedCustomer()
	repo := &fakeCustomerRepo{customer: customer}
	uc := NewCustomerUseCase(&fakeCustomerStore{repo: repo}, testLogger())

	name := "Renamed"
	newTag, err := uc.Update(context.Background(), uuid.New(), customer.ID, domain.CustomerUpdates{Name: &name}, customer.Tag())
	require.NoError(t, err)

	require.NotNil(t, repo.updated)
	assert.Equal(t, "Renamed", repo.updated.Name)
	assert.NotEqual(t, customer.Tag(), newTag, "tag moves with the write")
	assert.Equal(t, repo.updated.Tag(), newTag)
}

func TestCustomerUseCase_UpdatePropagatesStoreFailure(t *testing.T) {
	boom := errors.New("begin failed")
	store := &fakeCustomerStore{beginErr: boom}
	uc := NewCustomerUseCase(store, testLogger())

	name := "Renamed"
	_, err := uc.Update(context.Background(), uuid.New(), "id", domain.CustomerUpdates{Name: &name}, `W/"x"`)
	assert.ErrorIs(t, err, boom)
}
