package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "shopcore/app/utils/errors"
)

func csrfRequest(method, cookie, header string) *http.Request {
	req := httptest.NewRequest(method, "/v1/customers/1", nil)
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: CookieCSRFToken, Value: cookie})
	}
	if header != "" {
		req.Header.Set("X-CSRF-Token", header)
	}
	return req
}

func TestCSRFMiddleware_SafeMethodsSkip(t *testing.T) {
	mw := NewCSRFMiddleware(nil, testLogger())

	for _, method := range []string{http.MethodGet, http.MethodHead, http.MethodOptions} {
		reached := false
		c, _ := newTestContext(t, csrfRequest(method, "", ""))

		err := mw.Require()(okHandler(&reached))(c)

		assert.NoError(t, err, method)
		assert.True(t, reached, method)
	}
}

func TestCSRFMiddleware_BearerExempt(t *testing.T) {
	mw := NewCSRFMiddleware(nil, testLogger())

	reached := false
	c, _ := newTestContext(t, csrfRequest(http.MethodPatch, "", ""))
	c.Set(ContextKeyAuthSource, AuthSourceBearer)

	err := mw.Require()(okHandler(&reached))(c)

	assert.NoError(t, err)
	assert.True(t, reached)
}

func TestCSRFMiddleware_Rejections(t *testing.T) {
	mw := NewCSRFMiddleware(nil, testLogger())

	tests := []struct {
		name   string
		cookie string
		header string
	}{
		{"no cookie", "", "abc123"},
		{"no header", "abc123", ""},
		{"mismatch", "abc123", "def456"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reached := false
			c, _ := newTestContext(t, csrfRequest(http.MethodPost, tt.cookie, tt.header))
			c.Set(ContextKeyAuthSource, AuthSourceCookie)

			err := mw.Require()(okHandler(&reached))(c)

			assert.ErrorIs(t, err, apperrors.ErrCSRF)
			assert.False(t, reached)
		})
	}
}

func TestCSRFMiddleware_MatchingPairPasses(t *testing.T) {
	mw := NewCSRFMiddleware(nil, testLogger())

	reached := false
	c, _ := newTestContext(t, csrfRequest(http.MethodPost, "abc123", "abc123"))
	c.Set(ContextKeyAuthSource, AuthSourceCookie)

	err := mw.Require()(okHandler(&reached))(c)

	assert.NoError(t, err)
	assert.True(t, reached)
}
