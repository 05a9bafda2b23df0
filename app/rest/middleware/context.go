package middleware

import (
	"github.com/labstack/echo/v4"

	"shopcore/app/domain"
)

// Context keys set by the tenant and auth middleware
const (
	ContextKeyTenant     = "tenant"
	ContextKeyPrincipal  = "principal"
	ContextKeyAuthSource = "auth_source"
)

// Auth sources recorded for the CSRF exemption decision
const (
	AuthSourceBearer = "bearer"
	AuthSourceCookie = "cookie"
)

// Session cookie names
const (
	CookieAccessToken  = "access_token"
	CookieRefreshToken = "refresh_token"
	CookieCSRFToken    = "csrf_token"
)

// TenantFrom returns the tenant resolved for this request, or nil
func TenantFrom(c echo.Context) *domain.Tenant {
	tenant, _ := c.Get(ContextKeyTenant).(*domain.Tenant)
	return tenant
}

// PrincipalFrom returns the authenticated principal, or nil
func PrincipalFrom(c echo.Context) *domain.Principal {
	principal, _ := c.Get(ContextKeyPrincipal).(*domain.Principal)
	return principal
}
