package middleware

import (
	"errors"
	"log/slog"

	"github.com/labstack/echo/v4"

	"shopcore/app/domain"
	"shopcore/app/port"
	apperrors "shopcore/app/utils/errors"
	applog "shopcore/app/utils/logger"
	"shopcore/app/utils/metrics"
)

// TenantMiddleware resolves the tenant of every request before any handler
// runs. Requests that cannot be pinned to an active tenant never reach
// business code.
type TenantMiddleware struct {
	resolver   port.TenantResolver
	headerName string
	logger     *slog.Logger
}

// NewTenantMiddleware creates the tenant resolution middleware
func NewTenantMiddleware(resolver port.TenantResolver, headerName string, logger *slog.Logger) *TenantMiddleware {
	return &TenantMiddleware{
		resolver:   resolver,
		headerName: headerName,
		logger:     applog.WithComponent(logger, "tenant_middleware"),
	}
}

// Resolve returns the middleware function
func (m *TenantMiddleware) Resolve() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()

			tenant, err := m.resolver.Resolve(
				req.Context(),
				req.Header.Get(m.headerName),
				req.Host,
				req.URL.Path,
			)
			if err != nil {
				if errors.Is(err, domain.ErrMissingTenantContext) {
					metrics.TenantResolutionFailuresTotal.WithLabelValues("missing").Inc()
					return apperrors.ErrMissingTenant
				}
				metrics.TenantResolutionFailuresTotal.WithLabelValues("unknown").Inc()
				return apperrors.ErrUnknownTenant
			}

			scoped := applog.WithTenant(
				applog.WithRequest(m.logger, c.Response().Header().Get(echo.HeaderXRequestID), req.Method, req.URL.Path),
				tenant.ID.String(),
			)
			scoped.Debug("tenant resolved", "slug", tenant.Slug)

			c.Set(ContextKeyTenant, tenant)
			return next(c)
		}
	}
}
