package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
	"github.com/wolfeidau/tenantd/internal/store"
)

// PartitionStore implements store.PartitionStore using one PostgreSQL
// schema per tenant. The schema name is the partition name; tenant
// documents live in a documents table inside the schema.
//
// Partition names are derived by models.PartitionName, which only emits
// [a-z0-9_], and are additionally quoted via pgx.Identifier before being
// interpolated into DDL (DDL cannot be parameterised).
type PartitionStore struct {
	pool *pgxpool.Pool
}

// NewPartitionStore creates a new PostgreSQL-backed partition store.
// It shares the connection pool with the registry stores.
func NewPartitionStore(pool *pgxpool.Pool) *PartitionStore {
	return &PartitionStore{
		pool: pool,
	}
}

// Create provisions the tenant schema, its documents table, and the genesis
// marker document in a single transaction.
func (s *PartitionStore) Create(ctx context.Context, name string, orgID uuid.UUID) error {
	schema := pgx.Identifier{name}.Sanitize()

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin partition create: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback is safe to call after commit

	if _, err := tx.Exec(ctx, fmt.Sprintf(`CREATE SCHEMA %s`, schema)); err != nil {
		return fmt.Errorf("failed to create partition %s: %w", name, err)
	}

	table := pgx.Identifier{name, "documents"}.Sanitize()
	createTable := fmt.Sprintf(`
		CREATE TABLE %s (
			doc_id UUID PRIMARY KEY,
			body JSONB NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`, table)
	if _, err := tx.Exec(ctx, createTable); err != nil {
		return fmt.Errorf("failed to create documents table for %s: %w", name, err)
	}

	// Genesis marker forces materialization and records creation metadata.
	docID, err := uuid.NewV7()
	if err != nil {
		return fmt.Errorf("failed to generate genesis document id: %w", err)
	}

	genesis := map[string]any{
		"info":       "genesis",
		"org_id":     orgID.String(),
		"created_at": time.Now().UTC().Format(time.RFC3339),
	}

	insert := fmt.Sprintf(`INSERT INTO %s (doc_id, body) VALUES ($1, $2)`, table)
	if _, err := tx.Exec(ctx, insert, docID, genesis); err != nil {
		return fmt.Errorf("failed to insert genesis document for %s: %w", name, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit partition create: %w", err)
	}

	log.Info().
		Str("partition", name).
		Str("org_id", orgID.String()).
		Msg("Created partition")

	return nil
}

// Rename moves a partition schema to a new name. A missing source schema
// is a tolerant no-op: it can mean the partition step of a prior create
// failed and metadata-only recovery is in progress. It is logged loudly
// because it can equally mask a genuine bug. An occupied target name fails
// with store.ErrPartitionExists; the occupant is never overwritten.
func (s *PartitionStore) Rename(ctx context.Context, oldName, newName string) error {
	exists, err := s.Exists(ctx, oldName)
	if err != nil {
		return err
	}

	if !exists {
		log.Warn().
			Str("old_partition", oldName).
			Str("new_partition", newName).
			Msg("Rename of missing partition treated as no-op")
		return nil
	}

	query := fmt.Sprintf(`ALTER SCHEMA %s RENAME TO %s`,
		pgx.Identifier{oldName}.Sanitize(),
		pgx.Identifier{newName}.Sanitize(),
	)

	if _, err := s.pool.Exec(ctx, query); err != nil {
		if isUndefinedObject(err) {
			// Lost the race with another rename or drop; same tolerant policy.
			log.Warn().
				Str("old_partition", oldName).
				Str("new_partition", newName).
				Msg("Partition vanished during rename, treated as no-op")
			return nil
		}
		if isDuplicateSchema(err) {
			return store.ErrPartitionExists
		}
		return fmt.Errorf("failed to rename partition %s to %s: %w", oldName, newName, err)
	}

	log.Info().
		Str("old_partition", oldName).
		Str("new_partition", newName).
		Msg("Renamed partition")

	return nil
}

// Drop deletes a partition schema and all its contents. Dropping a missing
// partition succeeds.
func (s *PartitionStore) Drop(ctx context.Context, name string) error {
	query := fmt.Sprintf(`DROP SCHEMA IF EXISTS %s CASCADE`, pgx.Identifier{name}.Sanitize())

	if _, err := s.pool.Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to drop partition %s: %w", name, err)
	}

	log.Info().
		Str("partition", name).
		Msg("Dropped partition")

	return nil
}

// Exists reports whether the partition schema is present.
func (s *PartitionStore) Exists(ctx context.Context, name string) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM information_schema.schemata WHERE schema_name = $1
		)
	`, name).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check partition %s: %w", name, err)
	}

	return exists, nil
}

// InsertDocument appends a document to the partition's documents table.
func (s *PartitionStore) InsertDocument(ctx context.Context, name string, doc *store.Document) error {
	table := pgx.Identifier{name, "documents"}.Sanitize()

	query := fmt.Sprintf(`INSERT INTO %s (doc_id, body) VALUES ($1, $2)`, table)
	if _, err := s.pool.Exec(ctx, query, doc.ID, doc.Body); err != nil {
		if isUndefinedObject(err) {
			return store.ErrPartitionNotFound
		}
		return fmt.Errorf("failed to insert document into %s: %w", name, err)
	}

	return nil
}
