package tenant

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/wolfeidau/tenantd/internal/credentials"
	"github.com/wolfeidau/tenantd/internal/models"
	"github.com/wolfeidau/tenantd/internal/store"
	"github.com/wolfeidau/tenantd/internal/telemetry"
)

// Manager orchestrates the tenant lifecycle across the registry and the
// partition store. It holds no state of its own between calls - the
// registry is the system of record, which keeps the multi-step sequences
// retryable and lets Reconcile repair partial failures.
//
// Creation walks Validating -> NameReserved -> AdminCreated ->
// PartitionProvisioned -> Complete. The underlying store offers no
// cross-row atomicity, so a failure after the organization write leaves a
// partially provisioned tenant; no automatic rollback is attempted (see
// Reconcile).
type Manager struct {
	orgs       store.OrganizationStore
	admins     store.AdminStore
	partitions store.PartitionStore
}

// NewManager creates a lifecycle manager on the given stores.
func NewManager(orgs store.OrganizationStore, admins store.AdminStore, partitions store.PartitionStore) *Manager {
	return &Manager{
		orgs:       orgs,
		admins:     admins,
		partitions: partitions,
	}
}

// CreateResult is returned on successful tenant creation.
type CreateResult struct {
	OrgID         uuid.UUID
	PartitionName string
}

// Create provisions a new tenant: organization record, admin credential,
// and data partition with its genesis document.
//
// The pre-write uniqueness checks are advisory; two concurrent creates
// with the same name can both pass them. The organization insert is the
// name-reservation point, and its unique constraint is the authoritative
// conflict check - the loser of the race gets ErrConflict from the insert
// itself.
func (m *Manager) Create(ctx context.Context, name, email, password string) (*CreateResult, error) {
	// Validating: both checks must pass before any write.
	if _, err := m.orgs.GetByName(ctx, name); err == nil {
		return nil, fmt.Errorf("%w: organization name already exists", ErrConflict)
	} else if !errors.Is(err, store.ErrOrganizationNotFound) {
		return nil, fmt.Errorf("failed to check organization name: %w", err)
	}

	if _, err := m.admins.GetByEmail(ctx, email); err == nil {
		return nil, fmt.Errorf("%w: admin email already exists", ErrConflict)
	} else if !errors.Is(err, store.ErrAdminNotFound) {
		return nil, fmt.Errorf("failed to check admin email: %w", err)
	}

	partitionName := models.PartitionName(name)

	passwordHash, err := credentials.HashPassword(password)
	if err != nil {
		return nil, err
	}

	orgID, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate organization id: %w", err)
	}

	now := time.Now()
	org := &models.Organization{
		OrgID:         orgID,
		Name:          name,
		PartitionName: partitionName,
		AdminEmail:    email,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	// NameReserved: once this insert succeeds the name is claimed, even if
	// a later step fails.
	if err := m.orgs.Create(ctx, org); err != nil {
		if errors.Is(err, store.ErrOrganizationExists) {
			return nil, fmt.Errorf("%w: organization name already exists", ErrConflict)
		}
		return nil, fmt.Errorf("failed to create organization: %w", err)
	}

	adminID, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate admin id: %w", err)
	}

	admin := &models.Admin{
		AdminID:      adminID,
		Email:        email,
		PasswordHash: passwordHash,
		OrgID:        orgID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	// AdminCreated. A failure here leaves an organization without an admin;
	// no rollback, the state is detectable in the registry.
	if err := m.admins.Create(ctx, admin); err != nil {
		log.Error().
			Str("org_id", orgID.String()).
			Str("name", name).
			Msg("Tenant partially provisioned: organization exists without admin")
		if errors.Is(err, store.ErrAdminExists) {
			return nil, fmt.Errorf("%w: admin email already exists", ErrConflict)
		}
		return nil, fmt.Errorf("failed to create admin: %w", err)
	}

	// PartitionProvisioned. A failure here leaves metadata without a
	// partition; Reconcile repairs it.
	if err := m.partitions.Create(ctx, partitionName, orgID); err != nil {
		log.Error().
			Str("org_id", orgID.String()).
			Str("partition", partitionName).
			Msg("Tenant partially provisioned: partition missing, run reconcile")
		return nil, fmt.Errorf("failed to create partition: %w", err)
	}

	telemetry.GetMetrics().TenantsCreatedTotal.Add(ctx, 1)

	log.Info().
		Str("org_id", orgID.String()).
		Str("name", name).
		Str("partition", partitionName).
		Msg("Created tenant")

	return &CreateResult{OrgID: orgID, PartitionName: partitionName}, nil
}

// Get retrieves an organization by name.
func (m *Manager) Get(ctx context.Context, name string) (*models.Organization, error) {
	org, err := m.orgs.GetByName(ctx, name)
	if err != nil {
		if errors.Is(err, store.ErrOrganizationNotFound) {
			return nil, fmt.Errorf("%w: organization not found", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get organization: %w", err)
	}

	return org, nil
}

// UpdateRequest carries the optional mutations for Update. Nil fields are
// left unchanged.
type UpdateRequest struct {
	NewName     *string
	NewEmail    *string
	NewPassword *string
}

// Update renames the caller's organization and/or rotates its admin
// credentials.
//
// On rename the partition is moved before the metadata is updated: if the
// partition rename fails, metadata still points at the existing working
// partition. A metadata failure after a successful partition rename leaves
// a recoverable inconsistency - retrying is safe because renaming the
// already-moved-away old name is a tolerant no-op. The credential writes
// (admin row, denormalized org email) are not atomic with each other.
func (m *Manager) Update(ctx context.Context, callerEmail string, req UpdateRequest) (string, error) {
	admin, err := m.admins.GetByEmail(ctx, callerEmail)
	if err != nil {
		if errors.Is(err, store.ErrAdminNotFound) {
			return "", fmt.Errorf("%w: admin not found", ErrUnauthorized)
		}
		return "", fmt.Errorf("failed to resolve caller: %w", err)
	}

	org, err := m.orgs.Get(ctx, admin.OrgID)
	if err != nil {
		if errors.Is(err, store.ErrOrganizationNotFound) {
			// Every live admin must reference a live organization.
			log.Error().
				Str("admin_id", admin.AdminID.String()).
				Str("org_id", admin.OrgID.String()).
				Msg("Integrity violation: admin references missing organization")
			return "", fmt.Errorf("%w: organization not found", ErrNotFound)
		}
		return "", fmt.Errorf("failed to resolve organization: %w", err)
	}

	if req.NewName != nil && *req.NewName != org.Name {
		newName := *req.NewName

		if _, err := m.orgs.GetByName(ctx, newName); err == nil {
			return "", fmt.Errorf("%w: new organization name already taken", ErrConflict)
		} else if !errors.Is(err, store.ErrOrganizationNotFound) {
			return "", fmt.Errorf("failed to check new organization name: %w", err)
		}

		newPartition := models.PartitionName(newName)

		// Distinct names can derive the same partition name, so partition
		// ownership is checked separately from name availability. Without
		// this a rename could move data onto another tenant's partition.
		if owner, err := m.orgs.GetByPartitionName(ctx, newPartition); err == nil {
			if owner.OrgID != org.OrgID {
				return "", fmt.Errorf("%w: new organization name maps to a partition owned by another organization", ErrConflict)
			}
		} else if !errors.Is(err, store.ErrOrganizationNotFound) {
			return "", fmt.Errorf("failed to check new partition name: %w", err)
		}

		// Partition first, then metadata. A name change that derives the
		// same partition (case or punctuation only) skips the move.
		if newPartition != org.PartitionName {
			if err := m.partitions.Rename(ctx, org.PartitionName, newPartition); err != nil {
				if errors.Is(err, store.ErrPartitionExists) {
					return "", fmt.Errorf("%w: new organization name maps to an occupied partition", ErrConflict)
				}
				return "", fmt.Errorf("failed to rename partition: %w", err)
			}
		}

		if err := m.orgs.Rename(ctx, org.OrgID, newName, newPartition); err != nil {
			log.Warn().
				Str("org_id", org.OrgID.String()).
				Str("partition", newPartition).
				Msg("Partition renamed but metadata update failed; safe to retry")
			if errors.Is(err, store.ErrOrganizationExists) {
				return "", fmt.Errorf("%w: new organization name already taken", ErrConflict)
			}
			if errors.Is(err, store.ErrOrganizationNotFound) {
				return "", fmt.Errorf("%w: organization not found", ErrNotFound)
			}
			return "", fmt.Errorf("failed to rename organization: %w", err)
		}

		org.Name = newName
		org.PartitionName = newPartition

		telemetry.GetMetrics().TenantsRenamedTotal.Add(ctx, 1)

		log.Info().
			Str("org_id", org.OrgID.String()).
			Str("name", newName).
			Str("partition", newPartition).
			Msg("Renamed tenant")
	}

	if req.NewEmail != nil || req.NewPassword != nil {
		var passwordHash *string
		if req.NewPassword != nil {
			hash, err := credentials.HashPassword(*req.NewPassword)
			if err != nil {
				return "", err
			}
			passwordHash = &hash
		}

		if err := m.admins.UpdateCredentials(ctx, admin.AdminID, req.NewEmail, passwordHash); err != nil {
			if errors.Is(err, store.ErrAdminExists) {
				return "", fmt.Errorf("%w: admin email already taken", ErrConflict)
			}
			return "", fmt.Errorf("failed to update admin credentials: %w", err)
		}

		if req.NewEmail != nil {
			if err := m.orgs.SetAdminEmail(ctx, org.OrgID, *req.NewEmail); err != nil {
				return "", fmt.Errorf("failed to update organization admin email: %w", err)
			}
		}

		log.Info().
			Str("org_id", org.OrgID.String()).
			Bool("email_changed", req.NewEmail != nil).
			Bool("password_changed", req.NewPassword != nil).
			Msg("Updated admin credentials")
	}

	return org.Name, nil
}

// Delete tears down the caller's organization: partition first, then admin
// and organization records.
//
// The partition is dropped before the metadata so that a failure between
// the two steps leaves orphaned-but-harmless metadata (detectable, no data
// left behind) rather than an orphaned partition with no pointer to it.
func (m *Manager) Delete(ctx context.Context, callerEmail, orgName string) error {
	admin, err := m.admins.GetByEmail(ctx, callerEmail)
	if err != nil {
		if errors.Is(err, store.ErrAdminNotFound) {
			return fmt.Errorf("%w: admin not found", ErrUnauthorized)
		}
		return fmt.Errorf("failed to resolve caller: %w", err)
	}

	org, err := m.orgs.GetByName(ctx, orgName)
	if err != nil {
		if errors.Is(err, store.ErrOrganizationNotFound) {
			return fmt.Errorf("%w: organization not found", ErrNotFound)
		}
		return fmt.Errorf("failed to resolve organization: %w", err)
	}

	// Ownership is by id equality, never by name.
	if org.OrgID != admin.OrgID {
		return fmt.Errorf("%w: caller does not own this organization", ErrForbidden)
	}

	if err := m.partitions.Drop(ctx, org.PartitionName); err != nil {
		return fmt.Errorf("failed to drop partition: %w", err)
	}

	if err := m.admins.Delete(ctx, admin.AdminID); err != nil {
		return fmt.Errorf("failed to delete admin: %w", err)
	}

	if err := m.orgs.Delete(ctx, org.OrgID); err != nil {
		return fmt.Errorf("failed to delete organization: %w", err)
	}

	telemetry.GetMetrics().TenantsDeletedTotal.Add(ctx, 1)

	log.Info().
		Str("org_id", org.OrgID.String()).
		Str("name", orgName).
		Msg("Deleted tenant")

	return nil
}
