package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/wolfeidau/tenantd/internal/store"
)

// PartitionStore implements store.PartitionStore using in-memory storage.
// A partition is a named list of documents; the first document is always
// the genesis marker. For testing and development only.
type PartitionStore struct {
	mu sync.RWMutex

	partitions map[string][]*store.Document // partition name -> documents
}

// NewPartitionStore creates a new in-memory partition store.
func NewPartitionStore() *PartitionStore {
	return &PartitionStore{
		partitions: make(map[string][]*store.Document),
	}
}

// Create provisions a new partition with its genesis document.
func (s *PartitionStore) Create(ctx context.Context, name string, orgID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	docID, err := uuid.NewV7()
	if err != nil {
		return err
	}

	genesis := &store.Document{
		ID: docID,
		Body: map[string]any{
			"info":       "genesis",
			"org_id":     orgID.String(),
			"created_at": time.Now().UTC().Format(time.RFC3339),
		},
	}

	s.partitions[name] = []*store.Document{genesis}

	return nil
}

// Rename moves a partition to a new name. A missing source is a tolerant
// no-op and an occupied target refuses the rename, matching the durable
// implementation.
func (s *PartitionStore) Rename(ctx context.Context, oldName, newName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	docs, exists := s.partitions[oldName]
	if !exists {
		log.Warn().
			Str("old_partition", oldName).
			Str("new_partition", newName).
			Msg("Rename of missing partition treated as no-op")
		return nil
	}

	if _, occupied := s.partitions[newName]; occupied && newName != oldName {
		return store.ErrPartitionExists
	}

	delete(s.partitions, oldName)
	s.partitions[newName] = docs

	return nil
}

// Drop deletes a partition and its documents. Dropping a missing partition
// succeeds.
func (s *PartitionStore) Drop(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.partitions, name)

	return nil
}

// Exists reports whether the partition is present.
func (s *PartitionStore) Exists(ctx context.Context, name string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, exists := s.partitions[name]
	return exists, nil
}

// InsertDocument appends a document to the partition.
func (s *PartitionStore) InsertDocument(ctx context.Context, name string, doc *store.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.partitions[name]; !exists {
		return store.ErrPartitionNotFound
	}

	clone := *doc
	s.partitions[name] = append(s.partitions[name], &clone)

	return nil
}

// Documents returns the documents in a partition. Test helper.
func (s *PartitionStore) Documents(name string) []*store.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()

	docs := s.partitions[name]
	result := make([]*store.Document, 0, len(docs))
	for _, doc := range docs {
		clone := *doc
		result = append(result, &clone)
	}

	return result
}
