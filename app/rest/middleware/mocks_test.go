package middleware

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/mock"

	"shopcore/app/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestContext(t *testing.T, req *http.Request) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()

	rec := httptest.NewRecorder()
	return echo.New().NewContext(req, rec), rec
}

// okHandler records whether the chain reached the terminal handler.
func okHandler(reached *bool) echo.HandlerFunc {
	return func(c echo.Context) error {
		*reached = true
		return c.NoContent(http.StatusOK)
	}
}

type MockTenantResolver struct {
	mock.Mock
}

func (m *MockTenantResolver) Resolve(ctx context.Context, header, host, path string) (*domain.Tenant, error) {
	args := m.Called(ctx, header, host, path)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Tenant), args.Error(1)
}

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
	return m.Called(ctx, chainID).Error(0)
}

func (m *MockSessionTokenService) RevokeAllForStaff(ctx context.Context, staffID uuid.UUID) error {
	return m.Called(ctx, staffID).Error(0)
}

type MockRoleAuthorizer struct {
	mock.Mock
}

func (m *MockRoleAuthorizer) Require(ctx context.Context, staffID, tenantID uuid.UUID, min domain.StaffRole) error {
	return m.Called(ctx, staffID, tenantID, min).Error(0)
}
