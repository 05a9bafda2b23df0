package usecase

import (
	"context"
	"io"
	"log/slog"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"shopcore/app/domain"
	"shopcore/app/port"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// MockRefreshTokenRepository mocks port.RefreshTokenRepository
type MockRefreshTokenRepository struct {
	mock.Mock
}

func (m *MockRefreshTokenRepository) Insert(ctx context.Context, record *domain.RefreshTokenRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockRefreshTokenRepository) GetByHash(ctx context.Context, tokenHash string) (*domain.RefreshTokenRecord, error) {
	args := m.Called(ctx, tokenHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RefreshTokenRecord), args.Error(1)
}

func (m *MockRefreshTokenRepository) Rotate(ctx context.Context, oldID uuid.UUID, successor *domain.RefreshTokenRecord) error {
	args := m.Called(ctx, oldID, successor)
	return args.Error(0)
}

func (m *MockRefreshTokenRepository) RevokeChain(ctx context.Context, chainID uuid.UUID) error {
	args := m.Called(ctx, chainID)
	return args.Error(0)
}

func (m *MockRefreshTokenRepository) RevokeAllForStaff(ctx context.Context, staffID uuid.UUID) error {
	args := m.Called(ctx, staffID)
	return args.Error(0)
}

// MockStaffRepository mocks port.StaffRepository
type MockStaffRepository struct {
	mock.Mock
}

func (m *MockStaffRepository) GetByEmailInTenant(ctx context.Context, email string, tenantID uuid.UUID) (*domain.Staff, error) {
	args := m.Called(ctx, email, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Staff), args.Error(1)
}

func (m *MockStaffRepository) GetByID(ctx context.Context, staffID uuid.UUID) (*domain.Staff, error) {
	args := m.Called(ctx, staffID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Staff), args.Error(1)
}

func (m *MockStaffRepository) UpdatePassword(ctx context.Context, staffID uuid.UUID, passwordHash string) error {
	args := m.Called(ctx, staffID, passwordHash)
	return args.Error(0)
}

// MockSessionTokenService mocks port.SessionTokenService
type MockSessionTokenService struct {
	mock.Mock
}

func (m *MockSessionTokenService) Issue(ctx context.Context, staffID, tenantID uuid.UUID) (*domain.TokenPair, error) {
	args := m.Called(ctx, staffID, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TokenPair), args.Error(1)
}

func (m *MockSessionTokenService) Verify(accessToken string) (*domain.Principal, error) {
	args := m.Called(accessToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Principal), args.Error(1)
}

func (m *MockSessionTokenService) Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	args := m.Called(ctx, refreshToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TokenPair), args.Error(1)
}

func (m *MockSessionTokenService) RevokeChain(ctx context.Context, chainID uuid.UUID) error {
	args := m.Called(ctx, chainID)
	return args.Error(0)
}

func (m *MockSessionTokenService) RevokeAllForStaff(ctx context.Context, staffID uuid.UUID) error {
	args := m.Called(ctx, staffID)
	return args.Error(0)
}

// MockMembershipRepository mocks port.MembershipRepository
type MockMembershipRepository struct {
	mock.Mock
}

func (m *MockMembershipRepository) Get(ctx context.Context, staffID, tenantID uuid.UUID) (*domain.StaffMembership, error) {
	args := m.Called(ctx, staffID, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StaffMembership), args.Error(1)
}

// MockResetTokenRepository mocks port.ResetTokenRepository
type MockResetTokenRepository struct {
	mock.Mock
}

func (m *MockResetTokenRepository) Insert(ctx context.Context, token *domain.ResetToken) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockResetTokenRepository) Redeem(ctx context.Context, staffID, tenantID uuid.UUID, tokenHash string) error {
	args := m.Called(ctx, staffID, tenantID, tokenHash)
	return args.Error(0)
}

func (m *MockResetTokenRepository) PurgeExpired(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// MockResetDelivery mocks port.ResetDelivery
type MockResetDelivery struct {
	mock.Mock
}

func (m *MockResetDelivery) Deliver(ctx context.Context, email, token string) error {
	args := m.Called(ctx, email, token)
	return args.Error(0)
}

// MockTenantRegistry mocks port.TenantRegistry
type MockTenantRegistry struct {
	mock.Mock
}

func (m *MockTenantRegistry) GetByID(ctx context.Context, id uuid.UUID) (*domain.Tenant, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Tenant), args.Error(1)
}

func (m *MockTenantRegistry) GetBySlug(ctx context.Context, slug string) (*domain.Tenant, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Tenant), args.Error(1)
}

// fakeCustomerStore runs the unit of work against an in-memory repository,
// recording the tenant it was asked to bind.
type fakeCustomerStore struct {
	repo      port.CustomerTxRepository
	beginErr  error
	gotTenant uuid.UUID
}

func (s *fakeCustomerStore) InTenant(ctx context.Context, tenantID uuid.UUID, fn func(repo port.CustomerTxRepository) error) error {
	s.gotTenant = tenantID
	if s.beginErr != nil {
		return s.beginErr
	}
	return fn(s.repo)
}

// fakeCustomerRepo holds a single customer row
type fakeCustomerRepo struct {
	customer  *domain.Customer
	getErr    error
	updateErr error
	updated   *domain.Customer
}

func (r *fakeCustomerRepo) Get(ctx context.Context, id string) (*domain.Customer, error) {
	if r.getErr != nil {
		return nil, r.getErr
	}
	if r.customer == nil || r.customer.ID != id {
		return nil, domain.ErrEntityNotFound
	}
	copied := *r.customer
	return &copied, nil
}

func (r *fakeCustomerRepo) Update(ctx context.Context, customer *domain.Customer) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	copied := *customer
	r.updated = &copied
	return nil
}
