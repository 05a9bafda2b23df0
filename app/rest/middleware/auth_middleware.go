package middleware

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/labstack/echo/v4"

	"shopcore/app/domain"
	"shopcore/app/port"
	apperrors "shopcore/app/utils/errors"
	"shopcore/app/utils/metrics"
)

// AuthMiddleware authenticates requests and pins the principal to the
// resolved tenant. The tenant check runs here, once, so handlers and
// usecases can trust that principal and tenant already agree.
type AuthMiddleware struct {
	tokens     port.SessionTokenService
	authorizer port.RoleAuthorizer
	logger     *slog.Logger
}

// NewAuthMiddleware creates the auth middleware
func NewAuthMiddleware(tokens port.SessionTokenService, authorizer port.RoleAuthorizer, logger *slog.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		tokens:     tokens,
		authorizer: authorizer,
		logger:     logger.With("component", "auth_middleware"),
	}
}

// RequireAuth verifies the access token and cross-checks its tenant claim
// against the tenant the request resolved to.
func (m *AuthMiddleware) RequireAuth() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, source := m.extractAccessToken(c)
			if token == "" {
				metrics.AuthFailuresTotal.WithLabelValues("missing_token").Inc()
				return apperrors.ErrUnauthenticated
			}

			principal, err := m.tokens.Verify(token)
			if err != nil {
				if errors.Is(err, domain.ErrTokenExpired) {
					metrics.AuthFailuresTotal.WithLabelValues("expired").Inc()
				} else {
					metrics.AuthFailuresTotal.WithLabelValues("invalid").Inc()
				}
				return apperrors.ErrUnauthenticated
			}

			tenant := TenantFrom(c)
			if tenant == nil {
				// Route wired RequireAuth without tenant resolution.
				return apperrors.ErrMissingTenant
			}

			// A valid token for tenant A buys nothing on tenant B's host.
			if principal.TenantID != tenant.ID {
				m.logger.Warn("tenant mismatch",
					"staff_id", principal.StaffID,
					"token_tenant", principal.TenantID,
					"request_tenant", tenant.ID)
				metrics.AuthFailuresTotal.WithLabelValues("tenant_mismatch").Inc()
				return apperrors.ErrTenantMismatch
			}

			c.Set(ContextKeyPrincipal, principal)
			c.Set(ContextKeyAuthSource, source)

			return next(c)
		}
	}
}

// RequireRole gates a route on a minimum role within the request tenant
func (m *AuthMiddleware) RequireRole(min domain.StaffRole) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			principal := PrincipalFrom(c)
			if principal == nil {
				return apperrors.ErrUnauthenticated
			}

			if err := m.authorizer.Require(c.Request().Context(), principal.StaffID, principal.TenantID, min); err != nil {
				if errors.Is(err, domain.ErrInsufficientRole) || errors.Is(err, domain.ErrUnknownRole) {
					return apperrors.ErrInsufficientRole
				}
				return err
			}

			return next(c)
		}
	}
}

// extractAccessToken reads the access token from the Authorization header or
// the session cookie, reporting which one supplied it.
func (m *AuthMiddleware) extractAccessToken(c echo.Context) (string, string) {
	if auth := c.Request().Header.Get("Authorization"); auth != "" {
		if strings.HasPrefix(auth, "Bearer ") {
			return strings.TrimPrefix(auth, "Bearer "), AuthSourceBearer
		}
	}

	if cookie, err := c.Cookie(CookieAccessToken); err == nil && cookie.Value != "" {
		return cookie.Value, AuthSourceCookie
	}

	return "", ""
}
