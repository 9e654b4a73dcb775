package models

import (
	"time"

	"github.com/google/uuid"
)

// Admin represents the single administrator credential for an organization.
// The relation is strictly 1:1 - the registry enforces one admin per org.
type Admin struct {
	AdminID      uuid.UUID // UUIDv7
	Email        string    // unique login identifier, bearer token subject
	PasswordHash string    // bcrypt hash, never plaintext
	OrgID        uuid.UUID // FK to organizations
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
