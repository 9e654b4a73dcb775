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

// OrganizationStore implements store.OrganizationStore using PostgreSQL.
type OrganizationStore struct {
	pool *pgxpool.Pool
}

// NewOrganizationStore creates a new PostgreSQL-backed organization store.
// It shares the connection pool with the other stores.
func NewOrganizationStore(pool *pgxpool.Pool) *OrganizationStore {
	return &OrganizationStore{
		pool: pool,
	}
}

// Create inserts a new organization. The unique indexes on name and
// partition_name are the authoritative conflict check.
func (s *OrganizationStore) Create(ctx context.Context, org *models.Organization) error {
	query := `
		INSERT INTO organizations (
			org_id, name, partition_name, admin_email, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6
		)
	`

	_, err := s.pool.Exec(ctx, query,
		org.OrgID,
		org.Name,
		org.PartitionName,
		org.AdminEmail,
		org.CreatedAt,
		org.UpdatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrOrganizationExists
		}
		return fmt.Errorf("failed to create organization: %w", err)
	}

	log.Debug().
		Str("org_id", org.OrgID.String()).
		Str("name", org.Name).
		Str("partition", org.PartitionName).
		Msg("Created organization")

	return nil
}

// Get retrieves an organization by ID.
func (s *OrganizationStore) Get(ctx context.Context, orgID uuid.UUID) (*models.Organization, error) {
	query := `
		SELECT org_id, name, partition_name, admin_email, created_at, updated_at
		FROM organizations
		WHERE org_id = $1
	`

	return s.scanOne(s.pool.QueryRow(ctx, query, orgID))
}

// GetByName retrieves an organization by its unique name.
func (s *OrganizationStore) GetByName(ctx context.Context, name string) (*models.Organization, error) {
	query := `
		SELECT org_id, name, partition_name, admin_email, created_at, updated_at
		FROM organizations
		WHERE name = $1
	`

	return s.scanOne(s.pool.QueryRow(ctx, query, name))
}

// GetByPartitionName retrieves the organization owning a partition.
func (s *OrganizationStore) GetByPartitionName(ctx context.Context, partitionName string) (*models.Organization, error) {
	query := `
		SELECT org_id, name, partition_name, admin_email, created_at, updated_at
		FROM organizations
		WHERE partition_name = $1
	`

	return s.scanOne(s.pool.QueryRow(ctx, query, partitionName))
}

func (s *OrganizationStore) scanOne(row pgx.Row) (*models.Organization, error) {
	var org models.Organization
	err := row.Scan(
		&org.OrgID,
		&org.Name,
		&org.PartitionName,
		&org.AdminEmail,
		&org.CreatedAt,
		&org.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrOrganizationNotFound
		}
		return nil, fmt.Errorf("failed to get organization: %w", err)
	}

	return &org, nil
}

// Rename updates the organization's name and derived partition name
// together in a single row write.
func (s *OrganizationStore) Rename(ctx context.Context, orgID uuid.UUID, newName, newPartitionName string) error {
	query := `
		UPDATE organizations SET
			name = $2,
			partition_name = $3,
			updated_at = $4
		WHERE org_id = $1
	`

	result, err := s.pool.Exec(ctx, query, orgID, newName, newPartitionName, time.Now())
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrOrganizationExists
		}
		return fmt.Errorf("failed to rename organization: %w", err)
	}

	if result.RowsAffected() == 0 {
		return store.ErrOrganizationNotFound
	}

	log.Debug().
		Str("org_id", orgID.String()).
		Str("name", newName).
		Str("partition", newPartitionName).
		Msg("Renamed organization")

	return nil
}

// SetAdminEmail updates the denormalized admin email on the organization.
func (s *OrganizationStore) SetAdminEmail(ctx context.Context, orgID uuid.UUID, email string) error {
	query := `
		UPDATE organizations SET
			admin_email = $2,
			updated_at = $3
		WHERE org_id = $1
	`

	result, err := s.pool.Exec(ctx, query, orgID, email, time.Now())
	if err != nil {
		return fmt.Errorf("failed to update organization admin email: %w", err)
	}

	if result.RowsAffected() == 0 {
		return store.ErrOrganizationNotFound
	}

	return nil
}

// List returns all organizations ordered by creation time.
func (s *OrganizationStore) List(ctx context.Context) ([]*models.Organization, error) {
	query := `
		SELECT org_id, name, partition_name, admin_email, created_at, updated_at
		FROM organizations
		ORDER BY created_at
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list organizations: %w", err)
	}
	defer rows.Close()

	var orgs []*models.Organization
	for rows.Next() {
		var org models.Organization
		err := rows.Scan(
			&org.OrgID,
			&org.Name,
			&org.PartitionName,
			&org.AdminEmail,
			&org.CreatedAt,
			&org.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan organization: %w", err)
		}
		orgs = append(orgs, &org)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating organizations: %w", err)
	}

	return orgs, nil
}

// Delete removes an organization by ID. Removing an absent organization is
// a no-op so tenant teardown can be retried.
func (s *OrganizationStore) Delete(ctx context.Context, orgID uuid.UUID) error {
	query := `DELETE FROM organizations WHERE org_id = $1`

	result, err := s.pool.Exec(ctx, query, orgID)
	if err != nil {
		return fmt.Errorf("failed to delete organization: %w", err)
	}

	if result.RowsAffected() == 0 {
		log.Debug().Str("org_id", orgID.String()).Msg("Organization already absent, delete is a no-op")
		return nil
	}

	log.Info().
		Str("org_id", orgID.String()).
		Msg("Deleted organization")

	return nil
}
