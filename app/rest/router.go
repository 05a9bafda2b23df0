package rest

import (
	"log/slog"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"shopcore/app/domain"
	"shopcore/app/port"
	"shopcore/app/rest/handlers"
	custommw "shopcore/app/rest/middleware"
	"shopcore/app/utils/validator"
)

// RouterConfig holds router configuration
type RouterConfig struct {
	Logger          *slog.Logger
	TenantResolver  port.TenantResolver
	TokenService    port.SessionTokenService
	Authorizer      port.RoleAuthorizer
	AuthUsecase     port.AuthUsecase
	ResetUsecase    port.PasswordResetUsecase
	CustomerUsecase port.CustomerUsecase
	DB              handlers.Pinger
	TenantHeader    string
	CookieDomain    string
	CookieSecure    bool
	EnableMetrics   bool
}

// NewRouter creates and configures the Echo router. The global middleware
// chain is declared as one ordered pipeline; per-route concerns (tenant,
// auth, CSRF) attach to the groups that need them.
func NewRouter(config RouterConfig) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = validator.New()
	e.HTTPErrorHandler = NewHTTPErrorHandler(config.Logger)

	authHandler := handlers.NewAuthHandler(config.AuthUsecase, handlers.CookieConfig{
		Domain: config.CookieDomain,
		Secure: config.CookieSecure,
	}, config.Logger)
	resetHandler := handlers.NewResetHandler(config.ResetUsecase, config.Logger)
	customerHandler := handlers.NewCustomerHandler(config.CustomerUsecase, config.Logger)
	healthHandler := handlers.NewHealthHandler(config.DB, config.Logger)

	tenantMiddleware := custommw.NewTenantMiddleware(config.TenantResolver, config.TenantHeader, config.Logger)
	authMiddleware := custommw.NewAuthMiddleware(config.TokenService, config.Authorizer, config.Logger)
	csrfMiddleware := custommw.NewCSRFMiddleware(nil, config.Logger)
	rateLimiter := custommw.NewRateLimiter()

	pipeline := custommw.NewPipeline(config.Logger).
		Append("recover", middleware.Recover()).
		Append("request_id", middleware.RequestID()).
		Append("cors", custommw.DefaultCORS()).
		Append("security_headers", custommw.SecurityHeaders()).
		Append("rate_limit", rateLimiter.RateLimit())
	if config.EnableMetrics {
		pipeline.Append("metrics", custommw.Metrics())
	}
	pipeline.Apply(e)

	v1 := e.Group("/v1")

	// Probes resolve no tenant and carry no session.
	v1.GET("/health", healthHandler.HealthCheck)
	v1.GET("/ready", healthHandler.ReadinessCheck)
	v1.GET("/live", healthHandler.LivenessCheck)

	// Everything else runs tenant-scoped.
	auth := v1.Group("/auth", tenantMiddleware.Resolve())
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)
	auth.POST("/password-reset", resetHandler.Request)
	auth.POST("/password-reset/confirm", resetHandler.Confirm)
	auth.POST("/logout", authHandler.Logout,
		authMiddleware.RequireAuth(),
		csrfMiddleware.Require())

	customers := v1.Group("/customers",
		tenantMiddleware.Resolve(),
		authMiddleware.RequireAuth(),
		csrfMiddleware.Require())
	customers.GET("/:id", customerHandler.Get,
		authMiddleware.RequireRole(domain.RoleReadonly))
	customers.PATCH("/:id", customerHandler.Update,
		authMiddleware.RequireRole(domain.RoleAdvisor))

	if config.EnableMetrics {
		e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	}

	return e
}
