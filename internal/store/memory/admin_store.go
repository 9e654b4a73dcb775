package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/wolfeidau/tenantd/internal/models"
	"github.com/wolfeidau/tenantd/internal/store"
)

// AdminStore implements store.AdminStore using in-memory storage. This
// implementation is for testing and development only - data is lost on
// restart.
type AdminStore struct {
	mu sync.RWMutex

	admins map[uuid.UUID]*models.Admin // admin_id -> Admin
}

// NewAdminStore creates a new in-memory admin store.
func NewAdminStore() *AdminStore {
	return &AdminStore{
		admins: make(map[uuid.UUID]*models.Admin),
	}
}

// Create inserts a new admin, enforcing email uniqueness and the
// single-admin-per-organization invariant.
func (s *AdminStore) Create(ctx context.Context, admin *models.Admin) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.admins[admin.AdminID]; exists {
		return store.ErrAdminExists
	}

	for _, existing := range s.admins {
		if existing.Email == admin.Email || existing.OrgID == admin.OrgID {
			return store.ErrAdminExists
		}
	}

	// Clone to avoid external modifications
	clone := *admin
	s.admins[admin.AdminID] = &clone

	return nil
}

// GetByEmail retrieves an admin by login email.
func (s *AdminStore) GetByEmail(ctx context.Context, email string) (*models.Admin, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, admin := range s.admins {
		if admin.Email == email {
			clone := *admin
			return &clone, nil
		}
	}

	return nil, store.ErrAdminNotFound
}

// UpdateCredentials rotates the admin's email and/or password hash.
func (s *AdminStore) UpdateCredentials(ctx context.Context, adminID uuid.UUID, email, passwordHash *string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	admin, exists := s.admins[adminID]
	if !exists {
		return store.ErrAdminNotFound
	}

	if email != nil {
		for id, existing := range s.admins {
			if id != adminID && existing.Email == *email {
				return store.ErrAdminExists
			}
		}
		admin.Email = *email
	}

	if passwordHash != nil {
		admin.PasswordHash = *passwordHash
	}

	admin.UpdatedAt = time.Now()

	return nil
}

// Delete removes an admin. Deleting an absent admin is a no-op.
func (s *AdminStore) Delete(ctx context.Context, adminID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.admins, adminID)

	return nil
}
