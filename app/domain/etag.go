package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"time"
)

// PreconditionError reports a stale precondition together with the entity's
// current tag so the caller can re-fetch, re-apply and retry.
type PreconditionError struct {
	CurrentTag string
}

// Error implements the error interface
func (e *PreconditionError) Error() string {
	return "precondition failed: entity changed since last read"
}

// Is makes errors.Is(err, ErrPreconditionMismatch) hold for this error
func (e *PreconditionError) Is(target error) bool {
	return target == ErrPreconditionMismatch
}

// tagEscaper protects the component separators inside hashed values. Without
// it a value containing "|" or "=" could forge another field's boundary and
// two different states would hash to the same tag.
var tagEscaper = strings.NewReplacer(`\`, `\\`, "|", `\|`, "=", `\=`)

// EntityTag computes the weak ETag of a mutable entity's editable state.
// The hash covers kind, id, the effective last-modified instant and every
// editable field sorted lexicographically, so two computations over the same
// unchanged state are identical and a change to any single editable field
// changes the tag. The set of hashed fields MUST equal the set of writable
// fields; an omitted field would let concurrent edits to it slip past the
// precondition check.
func EntityTag(kind, id string, modified time.Time, fields map[string]string) string {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString(tagEscaper.Replace(kind))
	b.WriteByte('|')
	b.WriteString(tagEscaper.Replace(id))
	b.WriteByte('|')
	b.WriteString(modified.UTC().Format(time.RFC3339Nano))
	for _, name := range names {
		b.WriteByte('|')
		b.WriteString(tagEscaper.Replace(name))
		b.WriteByte('=')
		b.WriteString(tagEscaper.Replace(fields[name]))
	}

	sum := sha256.Sum256([]byte(b.String()))
	return fmt.Sprintf(`W/"%s"`, hex.EncodeToString(sum[:16]))
}

// EffectiveModified picks the newer of created/updated timestamps. Rows that
// have never been updated carry a zero updated_at in some backfills, so the
// tag falls back to created_at.
func EffectiveModified(createdAt time.Time, updatedAt time.Time) time.Time {
	if updatedAt.After(createdAt) {
		return updatedAt
	}
	return createdAt
}

// Customer is the sample mutable entity exposed for conditional updates.
// Editable fields define exactly the state hashed into its tag.
type Customer struct {
	ID        string    `json:"id"`
	TenantID  string    `json:"tenant_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// EditableFields returns the complete set of client-writable fields
func (c *Customer) EditableFields() map[string]string {
	return map[string]string{
		"name":  c.Name,
		"email": c.Email,
		"phone": c.Phone,
		"notes": c.Notes,
	}
}

// Tag computes the customer's current entity tag
func (c *Customer) Tag() string {
	return EntityTag("customer", c.ID, EffectiveModified(c.CreatedAt, c.UpdatedAt), c.EditableFields())
}

// CustomerUpdates represents a partial update to a customer
type CustomerUpdates struct {
	Name  *string `json:"name,omitempty"`
	Email *string `json:"email,omitempty"`
	Phone *string `json:"phone,omitempty"`
	Notes *string `json:"notes,omitempty"`
}

// Apply folds a partial update into the customer and bumps updated_at
func (c *Customer) Apply(u CustomerUpdates) {
	if u.Name != nil {
		c.Name = *u.Name
	}
	if u.Email != nil {
		c.Email = *u.Email
	}
	if u.Phone != nil {
		c.Phone = *u.Phone
	}
	if u.Notes != nil {
		c.Notes = *u.Notes
	}
	c.UpdatedAt = time.Now()
}
