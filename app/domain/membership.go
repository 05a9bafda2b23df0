package domain

import (
	"time"

	"github.com/google/uuid"
)

// StaffRole represents the role a staff member holds inside one tenant
type StaffRole string

const (
	RoleOwner    StaffRole = "owner"
	RoleAdvisor  StaffRole = "advisor"
	RoleReadonly StaffRole = "readonly"
)

// roleRank defines the fixed partial order between roles. A higher rank
// covers every permission of a lower one.
var roleRank = map[StaffRole]int{
	RoleReadonly: 1,
	RoleAdvisor:  2,
	RoleOwner:    3,
}

// IsValid reports whether the role is one of the known roles
func (r StaffRole) IsValid() bool {
	_, ok := roleRank[r]
	return ok
}

// Covers reports whether the role grants at least the permissions of min.
// Unknown roles on either side never cover anything (fail closed).
func (r StaffRole) Covers(min StaffRole) bool {
	have, ok := roleRank[r]
	if !ok {
		return false
	}
	want, ok := roleRank[min]
	if !ok {
		return false
	}
	return have >= want
}

// StaffMembership joins a staff principal to a tenant with a per-tenant role.
// A principal holds at most one role per tenant; the same person can be
// owner in one tenant and have no membership at all in another.
type StaffMembership struct {
	StaffID   uuid.UUID `json:"staff_id"`
	TenantID  uuid.UUID `json:"tenant_id"`
	Role      StaffRole `json:"role"`
	GrantedAt time.Time `json:"granted_at"`
}

// Staff represents a staff principal. Credentials are stored as a bcrypt
// hash and never serialized.
type Staff struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
