package di

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"shopcore/app/config"
	"shopcore/app/driver/delivery"
	"shopcore/app/driver/postgres"
	"shopcore/app/driver/rediscache"
	"shopcore/app/port"
	"shopcore/app/rest"
	"shopcore/app/usecase"
)

// Container holds all dependencies for the application. Everything is wired
// here, once, through constructors; no component reaches for a global.
type Container struct {
	Config *config.Config
	Logger *slog.Logger

	// Drivers
	DB    *postgres.DB
	Redis *redis.Client

	// Usecases
	TenantResolver  port.TenantResolver
	TokenService    port.SessionTokenService
	Authorizer      port.RoleAuthorizer
	AuthUsecase     port.AuthUsecase
	ResetUsecase    port.PasswordResetUsecase
	CustomerUsecase port.CustomerUsecase
}

// NewContainer creates and initializes the dependency container
func NewContainer(cfg *config.Config, logger *slog.Logger) (*Container, error) {
	container := &Container{
		Config: cfg,
		Logger: logger,
	}

	var err error
	container.DB, err = postgres.Open(context.Background(), cfg, postgres.DefaultPoolSettings(), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	pool := container.DB.Pool()

	// Repositories. Single-statement repos run through the slow-query
	// decorator; the token repository manages its own transactions and takes
	// the pool directly.
	timed := postgres.NewTimedQueryer(pool, logger)
	tenantRepository := postgres.NewTenantRepository(timed, logger)
	membershipRepository := postgres.NewMembershipRepository(timed, logger)
	tokenRepository := postgres.NewTokenRepository(pool, logger)
	staffRepository := postgres.NewStaffRepository(timed, logger)
	resetRepository := postgres.NewResetRepository(timed, logger)

	tenantGuard := postgres.NewTenantTxGuard(pool, logger)
	customerStore := postgres.NewCustomerStore(tenantGuard, logger)

	// Optional Redis read-through cache in front of the tenant registry.
	var tenantRegistry port.TenantRegistry = tenantRepository
	if cfg.RedisAddr != "" {
		container.Redis, err = rediscache.NewClient(context.Background(), cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			container.DB.Close()
			return nil, fmt.Errorf("failed to initialize redis: %w", err)
		}
		tenantRegistry = rediscache.NewTenantCache(tenantRepository, container.Redis, cfg.TenantCacheTTL, logger)
	}

	// Usecases
	container.TenantResolver = usecase.NewTenantResolverUseCase(tenantRegistry, cfg.BaseDomain, cfg.DefaultTenantSlug, logger)

	container.TokenService = usecase.NewTokenUseCase(usecase.TokenConfig{
		Secret:     cfg.TokenSecret,
		Issuer:     cfg.TokenIssuer,
		AccessTTL:  cfg.AccessTokenTTL,
		RefreshTTL: cfg.RefreshTokenTTL,
	}, tokenRepository, logger)

	container.Authorizer = usecase.NewAuthorizerUseCase(membershipRepository, logger)

	container.AuthUsecase = usecase.NewAuthUseCase(usecase.AuthConfig{
		CSRFTokenLength: cfg.CSRFTokenLength,
		CSRFTokenTTL:    cfg.RefreshTokenTTL,
	}, staffRepository, container.TokenService, logger)

	container.ResetUsecase = usecase.NewResetUseCase(usecase.ResetConfig{
		TokenTTL: cfg.ResetTokenTTL,
	}, staffRepository, resetRepository, delivery.NewLogDelivery(logger), container.TokenService, logger)

	container.CustomerUsecase = usecase.NewCustomerUseCase(customerStore, logger)

	logger.Info("container initialized")

	return container, nil
}

// CreateRouter creates a fully configured Echo router
func (c *Container) CreateRouter() *echo.Echo {
	return rest.NewRouter(rest.RouterConfig{
		Logger:          c.Logger,
		TenantResolver:  c.TenantResolver,
		TokenService:    c.TokenService,
		Authorizer:      c.Authorizer,
		AuthUsecase:     c.AuthUsecase,
		ResetUsecase:    c.ResetUsecase,
		CustomerUsecase: c.CustomerUsecase,
		DB:              c.DB.Pool(),
		TenantHeader:    c.Config.TenantHeader,
		CookieDomain:    c.Config.CookieDomain,
		CookieSecure:    c.Config.CookieSecure,
		EnableMetrics:   c.Config.EnableMetrics,
	})
}

// Close releases held resources
func (c *Container) Close() {
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			c.Logger.Warn("failed to close redis client", "error", err)
		}
	}
	if c.DB != nil {
		c.DB.Close()
	}
}
