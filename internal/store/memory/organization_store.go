package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/wolfeidau/tenantd/internal/models"
	"github.com/wolfeidau/tenantd/internal/store"
)

// OrganizationStore implements store.OrganizationStore using in-memory
// storage. This implementation is for testing and development only - data
// is lost on restart.
//
// Uniqueness of name and partition name is checked under the store lock,
// which gives the same contract as the database unique indexes: of two
// concurrent creates for one name, exactly one wins and the other gets
// store.ErrOrganizationExists.
type OrganizationStore struct {
	mu sync.RWMutex

	organizations map[uuid.UUID]*models.Organization // org_id -> Organization
}

// NewOrganizationStore creates a new in-memory organization store.
func NewOrganizationStore() *OrganizationStore {
	return &OrganizationStore{
		organizations: make(map[uuid.UUID]*models.Organization),
	}
}

// Create inserts a new organization, enforcing name and partition
// uniqueness.
func (s *OrganizationStore) Create(ctx context.Context, org *models.Organization) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.organizations[org.OrgID]; exists {
		return store.ErrOrganizationExists
	}

	for _, existing := range s.organizations {
		if existing.Name == org.Name || existing.PartitionName == org.PartitionName {
			return store.ErrOrganizationExists
		}
	}

	// Clone to avoid external modifications
	clone := *org
	s.organizations[org.OrgID] = &clone

	return nil
}

// Get retrieves an organization by ID.
func (s *OrganizationStore) Get(ctx context.Context, orgID uuid.UUID) (*models.Organization, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	org, exists := s.organizations[orgID]
	if !exists {
		return nil, store.ErrOrganizationNotFound
	}

	clone := *org
	return &clone, nil
}

// GetByName retrieves an organization by its unique name.
func (s *OrganizationStore) GetByName(ctx context.Context, name string) (*models.Organization, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, org := range s.organizations {
		if org.Name == name {
			clone := *org
			return &clone, nil
		}
	}

	return nil, store.ErrOrganizationNotFound
}

// GetByPartitionName retrieves the organization owning a partition.
func (s *OrganizationStore) GetByPartitionName(ctx context.Context, partitionName string) (*models.Organization, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, org := range s.organizations {
		if org.PartitionName == partitionName {
			clone := *org
			return &clone, nil
		}
	}

	return nil, store.ErrOrganizationNotFound
}

// Rename updates the organization's name and partition name together.
func (s *OrganizationStore) Rename(ctx context.Context, orgID uuid.UUID, newName, newPartitionName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	org, exists := s.organizations[orgID]
	if !exists {
		return store.ErrOrganizationNotFound
	}

	for id, existing := range s.organizations {
		if id == orgID {
			continue
		}
		if existing.Name == newName || existing.PartitionName == newPartitionName {
			return store.ErrOrganizationExists
		}
	}

	org.Name = newName
	org.PartitionName = newPartitionName
	org.UpdatedAt = time.Now()

	return nil
}

// SetAdminEmail updates the denormalized admin email on the organization.
func (s *OrganizationStore) SetAdminEmail(ctx context.Context, orgID uuid.UUID, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	org, exists := s.organizations[orgID]
	if !exists {
		return store.ErrOrganizationNotFound
	}

	org.AdminEmail = email
	org.UpdatedAt = time.Now()

	return nil
}

// List returns all organizations.
func (s *OrganizationStore) List(ctx context.Context) ([]*models.Organization, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*models.Organization, 0, len(s.organizations))
	for _, org := range s.organizations {
		clone := *org
		result = append(result, &clone)
	}

	return result, nil
}

// Delete removes an organization. Deleting an absent organization is a
// no-op.
func (s *OrganizationStore) Delete(ctx context.Context, orgID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.organizations, orgID)

	return nil
}
