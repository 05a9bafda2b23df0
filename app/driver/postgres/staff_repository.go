package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"shopcore/app/domain"
)

// StaffRepository reads staff principals and updates their credential
type StaffRepository struct {
	db     Queryer
	logger *slog.Logger
}

// NewStaffRepository creates a new PostgreSQL staff repository
func NewStaffRepository(db Queryer, logger *slog.Logger) *StaffRepository {
	return &StaffRepository{
		db:     db,
		logger: logger.With("component", "staff_repository"),
	}
}

// GetByEmailInTenant looks up a staff member by email, visible only through
// a membership in the given tenant. A matching email with no membership in
// that tenant behaves exactly like no match at all.
func (r *StaffRepository) GetByEmailInTenant(ctx context.Context, email string, tenantID uuid.UUID) (*domain.Staff, error) {
	query := `
		SELECT s.id, s.email, s.name, s.password_hash, s.created_at, s.updated_at
		FROM staff s
		JOIN staff_memberships m ON m.staff_id = s.id
		WHERE s.email = $1 AND m.tenant_id = $2`

	return r.scanOne(r.db.QueryRow(ctx, query, email, tenantID))
}

// GetByID retrieves a staff member by ID
func (r *StaffRepository) GetByID(ctx context.Context, staffID uuid.UUID) (*domain.Staff, error) {
	query := `
		SELECT id, email, name, password_hash, created_at, updated_at
		FROM staff WHERE id = $1`

	return r.scanOne(r.db.QueryRow(ctx, query, staffID))
}

// UpdatePassword replaces the stored credential hash
func (r *StaffRepository) UpdatePassword(ctx context.Context, staffID uuid.UUID, passwordHash string) error {
	query := `
		UPDATE staff
		SET password_hash = $2, updated_at = now()
		WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, staffID, passwordHash)
	if err != nil {
		r.logger.Error("failed to update password", "staff_id", staffID, "error", err)
		return fmt.Errorf("failed to update password: %w", err)
	}

	if tag.RowsAffected() != 1 {
		return domain.ErrStaffNotFound
	}

	return nil
}

func (r *StaffRepository) scanOne(row pgx.Row) (*domain.Staff, error) {
	var staff domain.Staff
	err := row.Scan(
		&staff.ID,
		&staff.Email,
		&staff.Name,
		&staff.PasswordHash,
		&staff.CreatedAt,
		&staff.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrStaffNotFound
		}
		r.logger.Error("failed to get staff", "error", err)
		return nil, fmt.Errorf("failed to get staff: %w", err)
	}

	return &staff, nil
}
