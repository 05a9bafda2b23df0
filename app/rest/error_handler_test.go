package rest

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopcore/app/domain"
)

type errorEnvelope struct {
	Kind       string `json:"kind"`
	Message    string `json:"message"`
	CurrentTag string `json:"current_etag"`
}

func serveError(t *testing.T, err error) (int, errorEnvelope) {
	t.Helper()

	e := echo.New()
	e.HTTPErrorHandler = NewHTTPErrorHandler(slog.New(slog.NewTextHandler(io.Discard, nil)))
	e.GET("/boom", func(c echo.Context) error {
		return err
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))

	var envelope errorEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	return rec.Code, envelope
}

func TestErrorHandler_DomainSentinels(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantKind   string
	}{
		{"missing tenant", domain.ErrMissingTenantContext, http.StatusBadRequest, "bad_request"},
		{"unknown tenant", domain.ErrTenantNotFound, http.StatusNotFound, "not_found"},
		{"tenant mismatch", domain.ErrTenantMismatch, http.StatusForbidden, "forbidden"},
		{"invalid credentials", domain.ErrInvalidCredentials, http.StatusUnauthorized, "unauthorized"},
		{"refresh reuse", domain.ErrRefreshReuse, http.StatusUnauthorized, "unauthorized"},
		{"insufficient role", domain.ErrInsufficientRole, http.StatusForbidden, "forbidden"},
		{"missing precondition", domain.ErrPreconditionMissing, http.StatusBadRequest, "bad_request"},
		{"entity not found", domain.ErrEntityNotFound, http.StatusNotFound, "not_found"},
		{"reset token", domain.ErrResetTokenInvalid, http.StatusBadRequest, "bad_request"},
		{"unexpected", errors.New("pool exhausted"), http.StatusInternalServerError, "internal"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, envelope := serveError(t, tt.err)

			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantKind, envelope.Kind)
		})
	}
}

func TestErrorHandler_ConflictCarriesCurrentTag(t *testing.T) {
	status, envelope := serveError(t, &domain.PreconditionError{CurrentTag: `W/"abc"`})

	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "conflict", envelope.Kind)
	assert.Equal(t, `W/"abc"`, envelope.CurrentTag)
}

func TestErrorHandler_InternalDetailStaysOpaque(t *testing.T) {
	_, envelope := serveError(t, errors.New("dsn=postgres://user:secret@db"))

	assert.Equal(t, "internal server error", envelope.Message)
	assert.NotContains(t, envelope.Message, "secret")
}

func TestErrorHandler_RouterErrorsKeepStatus(t *testing.T) {
	status, envelope := serveError(t, echo.NewHTTPError(http.StatusMethodNotAllowed, "method not allowed"))

	assert.Equal(t, http.StatusMethodNotAllowed, status)
	assert.Equal(t, "bad_request", envelope.Kind)
}
