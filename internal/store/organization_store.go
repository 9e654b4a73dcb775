package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/wolfeidau/tenantd/internal/models"
)

// Sentinel errors for organization store operations
var (
	ErrOrganizationNotFound = errors.New("organization not found")
	ErrOrganizationExists   = errors.New("organization already exists")
)

// OrganizationStore is the registry of tenant metadata. It is the single
// source of truth for the name to partition mapping. All operations are
// single-row atomic; no cross-row transaction is assumed by callers.
type OrganizationStore interface {
	// Create inserts a new organization. The unique constraint on name (and
	// partition_name) is the authoritative enforcement point for name
	// reservation - concurrent creates race here, and the loser receives
	// ErrOrganizationExists from the insert itself.
	Create(ctx context.Context, org *models.Organization) error

	// Get retrieves an organization by ID.
	// Returns ErrOrganizationNotFound if absent.
	Get(ctx context.Context, orgID uuid.UUID) (*models.Organization, error)

	// GetByName retrieves an organization by its unique name.
	// Returns ErrOrganizationNotFound if absent.
	GetByName(ctx context.Context, name string) (*models.Organization, error)

	// GetByPartitionName retrieves the organization owning a partition.
	// Distinct names can derive the same partition name, so rename has to
	// check partition ownership, not just name availability.
	// Returns ErrOrganizationNotFound if no organization maps to it.
	GetByPartitionName(ctx context.Context, partitionName string) (*models.Organization, error)

	// Rename updates the organization's name and partition name together.
	// Returns ErrOrganizationExists if the new name is taken and
	// ErrOrganizationNotFound if the organization is gone.
	Rename(ctx context.Context, orgID uuid.UUID, newName, newPartitionName string) error

	// SetAdminEmail updates the denormalized admin email on the organization.
	SetAdminEmail(ctx context.Context, orgID uuid.UUID, email string) error

	// List returns all organizations. Used by the reconciliation pass.
	List(ctx context.Context) ([]*models.Organization, error)

	// Delete removes an organization. Deleting an absent organization is a
	// no-op so teardown can be retried safely.
	Delete(ctx context.Context, orgID uuid.UUID) error
}
