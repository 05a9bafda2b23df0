package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateSlug(t *testing.T) {
	tests := []struct {
		name    string
		slug    string
		wantErr bool
	}{
		{"simple", "yamada-shoten", false},
		{"with digits", "shop42", false},
		{"single char", "a", false},
		{"empty", "", true},
		{"uppercase", "Yamada", true},
		{"leading hyphen", "-shop", true},
		{"underscore", "my_shop", true},
		{"dot", "shop.example", true},
		{"too long", strings.Repeat("a", 101), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSlug(tt.slug)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestIsReservedSlug(t *testing.T) {
	assert.True(t, IsReservedSlug("www"))
	assert.True(t, IsReservedSlug("api"))
	assert.True(t, IsReservedSlug("admin"))
	assert.False(t, IsReservedSlug("shop"))
}

func TestTenantLifecycle(t *testing.T) {
	tenant, err := NewTenant("yamada-shoten", "Yamada Shoten")
	require.NoError(t, err)

	assert.True(t, tenant.IsActive())

	tenant.Suspend()
	assert.False(t, tenant.IsActive())
	assert.Equal(t, TenantStatusSuspended, tenant.Status)

	tenant.Activate()
	assert.True(t, tenant.IsActive())
}

func TestNewTenant_RejectsReservedAndInvalidSlugs(t *testing.T) {
	_, err := NewTenant("www", "Web")
	assert.Error(t, err)

	_, err = NewTenant("Bad Slug", "Bad")
	assert.Error(t, err)
}
