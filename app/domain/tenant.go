package domain

import (
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
)

// TenantStatus represents the lifecycle status of a tenant
type TenantStatus string

const (
	TenantStatusActive    TenantStatus = "active"
	TenantStatusSuspended TenantStatus = "suspended"
)

// Tenant represents an isolated customer organization. Tenants are created
// out-of-band by provisioning flows and are read-only for this service.
type Tenant struct {
	ID        uuid.UUID    `json:"id"`
	Slug      string       `json:"slug"`
	Name      string       `json:"name"`
	Status    TenantStatus `json:"status"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// slugRegex validates tenant slugs (lowercase, alphanumeric, hyphens only)
var slugRegex = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*$`)

// reservedSlugs are host labels that can never resolve to a tenant when the
// candidate comes from a subdomain.
var reservedSlugs = map[string]bool{
	"www":   true,
	"api":   true,
	"admin": true,
}

// NewTenant creates a new tenant with validation
func NewTenant(slug, name string) (*Tenant, error) {
	if err := ValidateSlug(slug); err != nil {
		return nil, err
	}

	if IsReservedSlug(slug) {
		return nil, fmt.Errorf("slug %q is reserved", slug)
	}

	if name == "" {
		return nil, fmt.Errorf("name is required")
	}

	now := time.Now()

	return &Tenant{
		ID:        uuid.New(),
		Slug:      slug,
		Name:      name,
		Status:    TenantStatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// ValidateSlug checks that a candidate slug is syntactically acceptable
func ValidateSlug(slug string) error {
	if slug == "" {
		return fmt.Errorf("slug is required")
	}

	if len(slug) > 100 {
		return fmt.Errorf("slug must be 100 characters or less")
	}

	if !slugRegex.MatchString(slug) {
		return fmt.Errorf("slug must contain only lowercase letters, numbers, and hyphens")
	}

	return nil
}

// IsReservedSlug reports whether a host label may never name a tenant
func IsReservedSlug(label string) bool {
	return reservedSlugs[label]
}

// IsActive returns true if the tenant is active
func (t *Tenant) IsActive() bool {
	return t.Status == TenantStatusActive
}

// Suspend suspends the tenant
func (t *Tenant) Suspend() {
	t.Status = TenantStatusSuspended
	t.UpdatedAt = time.Now()
}

// Activate activates the tenant
func (t *Tenant) Activate() {
	t.Status = TenantStatusActive
	t.UpdatedAt = time.Now()
}
