package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
	"github.com/wolfeidau/tenantd/internal/models"
	"github.com/wolfeidau/tenantd/internal/store"
)

// AdminStore implements store.AdminStore using PostgreSQL.
type AdminStore struct {
	pool *pgxpool.Pool
}

// NewAdminStore creates a new PostgreSQL-backed admin store.
// It shares the connection pool with the other stores.
func NewAdminStore(pool *pgxpool.Pool) *AdminStore {
	return &AdminStore{
		pool: pool,
	}
}

// Create inserts a new admin. The unique indexes on email and org_id
// enforce the single-admin-per-organization invariant.
func (s *AdminStore) Create(ctx context.Context, admin *models.Admin) error {
	query := `
		INSERT INTO admins (
			admin_id, email, password_hash, org_id, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6
		)
	`

	_, err := s.pool.Exec(ctx, query,
		admin.AdminID,
		admin.Email,
		admin.PasswordHash,
		admin.OrgID,
		admin.CreatedAt,
		admin.UpdatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrAdminExists
		}
		return fmt.Errorf("failed to create admin: %w", err)
	}

	log.Debug().
		Str("admin_id", admin.AdminID.String()).
		Str("org_id", admin.OrgID.String()).
		Msg("Created admin")

	return nil
}

// GetByEmail retrieves an admin by login email.
func (s *AdminStore) GetByEmail(ctx context.Context, email string) (*models.Admin, error) {
	query := `
		SELECT admin_id, email, password_hash, org_id, created_at, updated_at
		FROM admins
		WHERE email = $1
	`

	var admin models.Admin
	err := s.pool.QueryRow(ctx, query, email).Scan(
		&admin.AdminID,
		&admin.Email,
		&admin.PasswordHash,
		&admin.OrgID,
		&admin.CreatedAt,
		&admin.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrAdminNotFound
		}
		return nil, fmt.Errorf("failed to get admin: %w", err)
	}

	return &admin, nil
}

// UpdateCredentials rotates the admin's email and/or password hash.
// Nil arguments leave the corresponding column unchanged.
func (s *AdminStore) UpdateCredentials(ctx context.Context, adminID uuid.UUID, email, passwordHash *string) error {
	query := `
		UPDATE admins SET
			email = COALESCE($2, email),
			password_hash = COALESCE($3, password_hash),
			updated_at = $4
		WHERE admin_id = $1
	`

	result, err := s.pool.Exec(ctx, query, adminID, email, passwordHash, time.Now())
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrAdminExists
		}
		return fmt.Errorf("failed to update admin credentials: %w", err)
	}

	if result.RowsAffected() == 0 {
		return store.ErrAdminNotFound
	}

	log.Debug().
		Str("admin_id", adminID.String()).
		Bool("email_changed", email != nil).
		Bool("password_changed", passwordHash != nil).
		Msg("Updated admin credentials")

	return nil
}

// Delete removes an admin by ID. Removing an absent admin is a no-op so
// tenant teardown can be retried.
func (s *AdminStore) Delete(ctx context.Context, adminID uuid.UUID) error {
	query := `DELETE FROM admins WHERE admin_id = $1`

	result, err := s.pool.Exec(ctx, query, adminID)
	if err != nil {
		return fmt.Errorf("failed to delete admin: %w", err)
	}

	if result.RowsAffected() == 0 {
		log.Debug().Str("admin_id", adminID.String()).Msg("Admin already absent, delete is a no-op")
		return nil
	}

	log.Info().
		Str("admin_id", adminID.String()).
		Msg("Deleted admin")

	return nil
}
