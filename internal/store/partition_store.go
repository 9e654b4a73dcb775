package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// Sentinel errors for partition store operations
var (
	// ErrPartitionNotFound is returned by document operations against a
	// partition that does not exist.
	ErrPartitionNotFound = errors.New("partition not found")

	// ErrPartitionExists is returned by Rename when the target name is
	// already occupied. A rename never overwrites another partition.
	ErrPartitionExists = errors.New("partition already exists")
)

// Document is an opaque record stored inside a tenant partition. Tenant
// data has no schema beyond this envelope.
type Document struct {
	ID   uuid.UUID
	Body map[string]any
}

// PartitionStore manages the per-tenant data partitions. Partitions are
// referenced by name only; the registry owns the name to partition mapping.
type PartitionStore interface {
	// Create provisions a new empty partition and inserts a genesis marker
	// document recording the owning organization and creation time.
	Create(ctx context.Context, name string, orgID uuid.UUID) error

	// Rename moves a partition to a new name. Renaming a partition that
	// does not exist is a tolerant no-op: a missing source can mean the
	// partition step of a prior create failed and metadata-only recovery is
	// in progress. Implementations log a warning rather than failing.
	// Returns ErrPartitionExists when the target name is occupied; the
	// occupant is never overwritten.
	Rename(ctx context.Context, oldName, newName string) error

	// Drop deletes a partition and all its contents. Dropping a partition
	// that does not exist succeeds.
	Drop(ctx context.Context, name string) error

	// Exists reports whether the partition is present. Used by the
	// reconciliation pass to detect partially provisioned tenants.
	Exists(ctx context.Context, name string) (bool, error)

	// InsertDocument appends a document to the partition.
	// Returns ErrPartitionNotFound if the partition does not exist.
	InsertDocument(ctx context.Context, name string, doc *Document) error
}
