package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/wolfeidau/tenantd/internal/models"
)

// Sentinel errors for admin store operations
var (
	ErrAdminNotFound = errors.New("admin not found")
	ErrAdminExists   = errors.New("admin already exists")
)

// AdminStore holds the administrator credential records. The system is
// single-admin tenancy: the store enforces at most one admin per
// organization, so a second admin for the same org fails with
// ErrAdminExists rather than silently widening the model.
type AdminStore interface {
	// Create inserts a new admin. Returns ErrAdminExists if the email is
	// taken or the organization already has an admin.
	Create(ctx context.Context, admin *models.Admin) error

	// GetByEmail retrieves an admin by login email.
	// Returns ErrAdminNotFound if absent.
	GetByEmail(ctx context.Context, email string) (*models.Admin, error)

	// UpdateCredentials rotates the admin's email and/or password hash.
	// Nil arguments leave the corresponding field unchanged.
	UpdateCredentials(ctx context.Context, adminID uuid.UUID, email, passwordHash *string) error

	// Delete removes an admin. Deleting an absent admin is a no-op so
	// teardown can be retried safely.
	Delete(ctx context.Context, adminID uuid.UUID) error
}
