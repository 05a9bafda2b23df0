package usecase

import (
	"context"
	"log/slog"
	"net"
	"strings"

	"github.com/google/uuid"

	"shopcore/app/domain"
	"shopcore/app/port"
)

// TenantResolverUseCase resolves the tenant a request belongs to and
// validates it against the registry. Resolution precedence, first match
// wins: explicit header, subdomain label, /tenant/ path segment, configured
// default (single-tenant deployments only).
type TenantResolverUseCase struct {
	registry    port.TenantRegistry
	baseDomain  string
	defaultSlug string
	logger      *slog.Logger
}

// NewTenantResolverUseCase creates a tenant resolver
func NewTenantResolverUseCase(registry port.TenantRegistry, baseDomain, defaultSlug string, logger *slog.Logger) *TenantResolverUseCase {
	return &TenantResolverUseCase{
		registry:    registry,
		baseDomain:  baseDomain,
		defaultSlug: defaultSlug,
		logger:      logger.With("component", "tenant_resolver"),
	}
}

// Resolve implements port.TenantResolver
func (r *TenantResolverUseCase) Resolve(ctx context.Context, header, host, path string) (*domain.Tenant, error) {
	candidate := r.candidate(header, host, path)
	if candidate == "" {
		return nil, domain.ErrMissingTenantContext
	}

	tenant, err := r.lookup(ctx, candidate)
	if err != nil {
		// Unknown and failed lookups collapse into the same answer so error
		// differences cannot be used to enumerate tenant slugs.
		r.logger.Debug("tenant lookup failed", "error", err)
		return nil, domain.ErrTenantNotFound
	}

	// Suspended tenants answer exactly like unknown ones.
	if !tenant.IsActive() {
		return nil, domain.ErrTenantNotFound
	}

	return tenant, nil
}

func (r *TenantResolverUseCase) candidate(header, host, path string) string {
	if header != "" {
		return strings.TrimSpace(header)
	}

	if label := r.subdomainLabel(host); label != "" {
		return label
	}

	if segment := pathTenantSegment(path); segment != "" {
		return segment
	}

	return r.defaultSlug
}

// subdomainLabel extracts the tenant label from a host under the configured
// base domain. Reserved labels (www/api/admin) never resolve to a tenant.
func (r *TenantResolverUseCase) subdomainLabel(host string) string {
	if r.baseDomain == "" || host == "" {
		return ""
	}

	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}

	suffix := "." + r.baseDomain
	if !strings.HasSuffix(host, suffix) {
		return ""
	}

	label := strings.TrimSuffix(host, suffix)
	if label == "" || strings.Contains(label, ".") {
		return ""
	}

	if domain.IsReservedSlug(label) {
		return ""
	}

	return label
}

// pathTenantSegment returns the segment following a /tenant/ prefix
func pathTenantSegment(path string) string {
	const prefix = "/tenant/"

	idx := strings.Index(path, prefix)
	if idx < 0 {
		return ""
	}

	rest := path[idx+len(prefix):]
	if end := strings.IndexByte(rest, '/'); end >= 0 {
		rest = rest[:end]
	}

	return rest
}

// lookup resolves a candidate that may be either a tenant id or a slug
func (r *TenantResolverUseCase) lookup(ctx context.Context, candidate string) (*domain.Tenant, error) {
	if id, err := uuid.Parse(candidate); err == nil {
		return r.registry.GetByID(ctx, id)
	}

	if err := domain.ValidateSlug(candidate); err != nil {
		return nil, domain.ErrTenantNotFound
	}

	return r.registry.GetBySlug(ctx, candidate)
}
