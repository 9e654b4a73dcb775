package memory

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/wolfeidau/tenantd/internal/store"
)

func TestMemoryPartitionStore_Create(t *testing.T) {
	t.Run("create inserts genesis document", func(t *testing.T) {
		st := NewPartitionStore()
		ctx := context.Background()

		orgID, err := uuid.NewV7()
		require.NoError(t, err)

		require.NoError(t, st.Create(ctx, "org_acme", orgID))

		exists, err := st.Exists(ctx, "org_acme")
		require.NoError(t, err)
		require.True(t, exists)

		docs := st.Documents("org_acme")
		require.Len(t, docs, 1)
		require.Equal(t, "genesis", docs[0].Body["info"])
		require.Equal(t, orgID.String(), docs[0].Body["org_id"])
	})
}

func TestMemoryPartitionStore_Rename(t *testing.T) {
	t.Run("rename moves documents", func(t *testing.T) {
		st := NewPartitionStore()
		ctx := context.Background()

		orgID, err := uuid.NewV7()
		require.NoError(t, err)

		require.NoError(t, st.Create(ctx, "org_acme", orgID))
		require.NoError(t, st.Rename(ctx, "org_acme", "org_acme_corp"))

		exists, err := st.Exists(ctx, "org_acme")
		require.NoError(t, err)
		require.False(t, exists)

		exists, err = st.Exists(ctx, "org_acme_corp")
		require.NoError(t, err)
		require.True(t, exists)
		require.Len(t, st.Documents("org_acme_corp"), 1)
	})

	t.Run("rename refuses to overwrite an existing partition", func(t *testing.T) {
		st := NewPartitionStore()
		ctx := context.Background()

		fooID, err := uuid.NewV7()
		require.NoError(t, err)
		acmeID, err := uuid.NewV7()
		require.NoError(t, err)

		require.NoError(t, st.Create(ctx, "org_foo", fooID))
		require.NoError(t, st.Create(ctx, "org_acme", acmeID))

		err = st.Rename(ctx, "org_acme", "org_foo")
		require.ErrorIs(t, err, store.ErrPartitionExists)

		// Both partitions keep their own documents.
		require.Equal(t, fooID.String(), st.Documents("org_foo")[0].Body["org_id"])
		require.Equal(t, acmeID.String(), st.Documents("org_acme")[0].Body["org_id"])
	})

	t.Run("rename of missing partition is a no-op", func(t *testing.T) {
		st := NewPartitionStore()
		ctx := context.Background()

		require.NoError(t, st.Rename(ctx, "org_missing", "org_new"))

		exists, err := st.Exists(ctx, "org_new")
		require.NoError(t, err)
		require.False(t, exists)
	})
}

func TestMemoryPartitionStore_Drop(t *testing.T) {
	t.Run("drop twice does not error", func(t *testing.T) {
		st := NewPartitionStore()
		ctx := context.Background()

		orgID, err := uuid.NewV7()
		require.NoError(t, err)

		require.NoError(t, st.Create(ctx, "org_acme", orgID))
		require.NoError(t, st.Drop(ctx, "org_acme"))
		require.NoError(t, st.Drop(ctx, "org_acme"))
	})
}

func TestMemoryPartitionStore_InsertDocument(t *testing.T) {
	t.Run("insert into existing partition", func(t *testing.T) {
		st := NewPartitionStore()
		ctx := context.Background()

		orgID, err := uuid.NewV7()
		require.NoError(t, err)
		require.NoError(t, st.Create(ctx, "org_acme", orgID))

		docID, err := uuid.NewV7()
		require.NoError(t, err)

		err = st.InsertDocument(ctx, "org_acme", &store.Document{
			ID:   docID,
			Body: map[string]any{"hello": "world"},
		})
		require.NoError(t, err)
		require.Len(t, st.Documents("org_acme"), 2)
	})

	t.Run("insert into missing partition returns error", func(t *testing.T) {
		st := NewPartitionStore()
		ctx := context.Background()

		docID, err := uuid.NewV7()
		require.NoError(t, err)

		err = st.InsertDocument(ctx, "org_missing", &store.Document{ID: docID})
		require.ErrorIs(t, err, store.ErrPartitionNotFound)
	})
}
