package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// resetTokenEntropy is the number of random bytes behind a reset token
const resetTokenEntropy = 32

// ResetToken is a one-time, time-boxed, tenant-scoped credential reset
// record. The plaintext token is handed to the delivery channel once and
// never persisted; only its SHA-256 is stored.
type ResetToken struct {
	ID        uuid.UUID  `json:"id"`
	StaffID   uuid.UUID  `json:"staff_id"`
	TenantID  uuid.UUID  `json:"tenant_id"`
	TokenHash string     `json:"-"`
	ExpiresAt time.Time  `json:"expires_at"`
	UsedAt    *time.Time `json:"used_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// NewResetToken mints a reset token for a staff member in a tenant. It
// returns the stored record and the plaintext token for out-of-band delivery.
func NewResetToken(staffID, tenantID uuid.UUID, ttl time.Duration) (*ResetToken, string, error) {
	if staffID == (uuid.UUID{}) {
		return nil, "", fmt.Errorf("staff ID is required")
	}

	if tenantID == (uuid.UUID{}) {
		return nil, "", fmt.Errorf("tenant ID is required")
	}

	if ttl <= 0 {
		return nil, "", fmt.Errorf("reset token ttl must be positive")
	}

	plaintext, err := NewOpaqueToken(resetTokenEntropy)
	if err != nil {
		return nil, "", err
	}

	now := time.Now()

	record := &ResetToken{
		ID:        uuid.New(),
		StaffID:   staffID,
		TenantID:  tenantID,
		TokenHash: HashToken(plaintext),
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
	}

	return record, plaintext, nil
}

// Redeemable reports whether the token can still be redeemed at the given
// instant: never used, not expired.
func (r *ResetToken) Redeemable(now time.Time) bool {
	return r.UsedAt == nil && now.Before(r.ExpiresAt)
}
