package domain

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleCustomer() *Customer {
	created := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	return &Customer{
		ID:        "3e1f4f9e-2b9a-4a57-9c59-3f1f2a67f001",
		TenantID:  "b0a2b7a4-5a0c-4a3f-8f5a-111111111111",
		Name:      "Aoi Tanaka",
		Email:     "aoi@example.com",
		Phone:     "+81-90-0000-0000",
		Notes:     "prefers morning appointments",
		CreatedAt: created,
		UpdatedAt: created,
	}
}

func TestEntityTag_Deterministic(t *testing.T) {
	customer := sampleCustomer()

	first := customer.Tag()
	second := customer.Tag()

	assert.Equal(t, first, second)
	assert.True(t, strings.HasPrefix(first, `W/"`), "tag should be weak: %s", first)
	assert.True(t, strings.HasSuffix(first, `"`))
}

func TestEntityTag_ChangesWithEachEditableField(t *testing.T) {
	base := sampleCustomer().Tag()

	tests := []struct {
		name   string
		mutate func(c *Customer)
	}{
		{"name", func(c *Customer) { c.Name = "Ren Sato" }},
		{"email", func(c *Customer) { c.Email = "ren@example.com" }},
		{"phone", func(c *Customer) { c.Phone = "+81-90-9999-9999" }},
		{"notes", func(c *Customer) { c.Notes = "changed" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			customer := sampleCustomer()
			tt.mutate(customer)
			assert.NotEqual(t, base, customer.Tag(), "editing %s must change the tag", tt.name)
		})
	}
}

func TestEntityTag_SeparatorInValueKeepsFieldBoundaries(t *testing.T) {
	modified := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	// The email value of the first state embeds a field boundary that makes
	// its flattened form read like the second state's.
	first := EntityTag("customer", "c-1", modified, map[string]string{
		"email": "a|name=b",
		"name":  "c",
	})
	second := EntityTag("customer", "c-1", modified, map[string]string{
		"email": "a",
		"name":  "b|name=c",
	})

	assert.NotEqual(t, first, second)
}

func TestEntityTag_EscapeCharInValue(t *testing.T) {
	modified := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	first := EntityTag("customer", "c-1", modified, map[string]string{"notes": `a\`, "name": "b"})
	second := EntityTag("customer", "c-1", modified, map[string]string{"notes": `a`, "name": `\b`})

	assert.NotEqual(t, first, second)
}

func TestEntityTag_ChangesWithModifiedInstant(t *testing.T) {
	customer := sampleCustomer()
	base := customer.Tag()

	customer.UpdatedAt = customer.UpdatedAt.Add(time.Second)
	assert.NotEqual(t, base, customer.Tag())
}

func TestEffectiveModified(t *testing.T) {
	created := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	updated := created.Add(time.Hour)

	assert.Equal(t, updated, EffectiveModified(created, updated))
	assert.Equal(t, created, EffectiveModified(created, time.Time{}))
	assert.Equal(t, created, EffectiveModified(created, created))
}

func TestCustomerApply(t *testing.T) {
	customer := sampleCustomer()
	before := customer.UpdatedAt

	name := "Ren Sato"
	notes := ""
	customer.Apply(CustomerUpdates{Name: &name, Notes: &notes})

	assert.Equal(t, "Ren Sato", customer.Name)
	assert.Equal(t, "", customer.Notes)
	assert.Equal(t, "aoi@example.com", customer.Email, "absent fields stay untouched")
	assert.True(t, customer.UpdatedAt.After(before))
}

func TestPreconditionError_IsMismatch(t *testing.T) {
	err := &PreconditionError{CurrentTag: `W/"abc"`}

	require.True(t, errors.Is(err, ErrPreconditionMismatch))
	assert.Equal(t, `W/"abc"`, err.CurrentTag)
}
