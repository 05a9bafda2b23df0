package rediscache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"shopcore/app/domain"
	"shopcore/app/port"
)

// TenantCache is a read-through decorator around a TenantRegistry. Tenant
// rows are read on every request and written only by provisioning flows, so
// a short TTL keeps the cache honest without any invalidation protocol.
// Cache failures degrade to the underlying registry, never to an error.
type TenantCache struct {
	inner  port.TenantRegistry
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewTenantCache wraps a tenant registry with a Redis read-through cache
func NewTenantCache(inner port.TenantRegistry, client *redis.Client, ttl time.Duration, logger *slog.Logger) *TenantCache {
	return &TenantCache{
		inner:  inner,
		client: client,
		ttl:    ttl,
		logger: logger.With("component", "tenant_cache"),
	}
}

// NewClient creates a Redis client and verifies the connection
func NewClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return client, nil
}

// GetByID implements port.TenantRegistry
func (c *TenantCache) GetByID(ctx context.Context, id uuid.UUID) (*domain.Tenant, error) {
	return c.lookup(ctx, "tenant:id:"+id.String(), func() (*domain.Tenant, error) {
		return c.inner.GetByID(ctx, id)
	})
}

// GetBySlug implements port.TenantRegistry
func (c *TenantCache) GetBySlug(ctx context.Context, slug string) (*domain.Tenant, error) {
	return c.lookup(ctx, "tenant:slug:"+slug, func() (*domain.Tenant, error) {
		return c.inner.GetBySlug(ctx, slug)
	})
}

func (c *TenantCache) lookup(ctx context.Context, key string, load func() (*domain.Tenant, error)) (*domain.Tenant, error) {
	payload, err := c.client.Get(ctx, key).Bytes()
	if err == nil {
		var tenant domain.Tenant
		if err := json.Unmarshal(payload, &tenant); err == nil {
			return &tenant, nil
		}
		// Corrupt entry; fall through to the registry and overwrite.
	} else if !errors.Is(err, redis.Nil) {
		c.logger.Warn("tenant cache read failed", "key", key, "error", err)
	}

	tenant, err := load()
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(tenant); err == nil {
		if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
			c.logger.Warn("tenant cache write failed", "key", key, "error", err)
		}
	}

	return tenant, nil
}
