package models

import (
	"time"

	"github.com/google/uuid"
)

// Organization represents a tenant in the system. Each organization owns
// exactly one admin credential and one data partition.
type Organization struct {
	OrgID         uuid.UUID // UUIDv7
	Name          string    // globally unique, mutable via rename only
	PartitionName string    // derived from Name, unique
	AdminEmail    string    // denormalized copy of the owning admin's email
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
