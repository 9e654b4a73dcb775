package memory

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/wolfeidau/tenantd/internal/models"
	"github.com/wolfeidau/tenantd/internal/store"
)

func newOrg(t *testing.T, name string) *models.Organization {
	t.Helper()

	id, err := uuid.NewV7()
	require.NoError(t, err)

	return &models.Organization{
		OrgID:         id,
		Name:          name,
		PartitionName: models.PartitionName(name),
		AdminEmail:    "admin@example.com",
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}
}

func TestMemoryOrganizationStore_Create(t *testing.T) {
	t.Run("create new organization", func(t *testing.T) {
		st := NewOrganizationStore()
		ctx := context.Background()

		err := st.Create(ctx, newOrg(t, "Acme"))
		require.NoError(t, err)
	})

	t.Run("create duplicate name returns error", func(t *testing.T) {
		st := NewOrganizationStore()
		ctx := context.Background()

		require.NoError(t, st.Create(ctx, newOrg(t, "Acme")))

		err := st.Create(ctx, newOrg(t, "Acme"))
		require.Error(t, err)
		require.ErrorIs(t, err, store.ErrOrganizationExists)
	})

	t.Run("create colliding partition name returns error", func(t *testing.T) {
		st := NewOrganizationStore()
		ctx := context.Background()

		require.NoError(t, st.Create(ctx, newOrg(t, "Acme Corp")))

		// Different display name, same derived partition.
		other := newOrg(t, "acme corp")
		err := st.Create(ctx, other)
		require.ErrorIs(t, err, store.ErrOrganizationExists)
	})
}

func TestMemoryOrganizationStore_GetByName(t *testing.T) {
	t.Run("get existing organization", func(t *testing.T) {
		st := NewOrganizationStore()
		ctx := context.Background()

		org := newOrg(t, "Acme")
		require.NoError(t, st.Create(ctx, org))

		retrieved, err := st.GetByName(ctx, "Acme")
		require.NoError(t, err)
		require.Equal(t, org.OrgID, retrieved.OrgID)
		require.Equal(t, "org_acme", retrieved.PartitionName)
	})

	t.Run("get nonexistent organization returns error", func(t *testing.T) {
		st := NewOrganizationStore()
		ctx := context.Background()

		_, err := st.GetByName(ctx, "missing")
		require.ErrorIs(t, err, store.ErrOrganizationNotFound)
	})

	t.Run("get returns copy", func(t *testing.T) {
		st := NewOrganizationStore()
		ctx := context.Background()

		org := newOrg(t, "Acme")
		require.NoError(t, st.Create(ctx, org))

		retrieved, err := st.GetByName(ctx, "Acme")
		require.NoError(t, err)

		retrieved.Name = "Mutated"

		again, err := st.GetByName(ctx, "Acme")
		require.NoError(t, err)
		require.Equal(t, "Acme", again.Name)
	})
}

func TestMemoryOrganizationStore_GetByPartitionName(t *testing.T) {
	t.Run("finds the owning organization", func(t *testing.T) {
		st := NewOrganizationStore()
		ctx := context.Background()

		org := newOrg(t, "Acme Corp")
		require.NoError(t, st.Create(ctx, org))

		owner, err := st.GetByPartitionName(ctx, "org_acme_corp")
		require.NoError(t, err)
		require.Equal(t, org.OrgID, owner.OrgID)
	})

	t.Run("unknown partition returns error", func(t *testing.T) {
		st := NewOrganizationStore()
		ctx := context.Background()

		_, err := st.GetByPartitionName(ctx, "org_nope")
		require.ErrorIs(t, err, store.ErrOrganizationNotFound)
	})
}

func TestMemoryOrganizationStore_Rename(t *testing.T) {
	t.Run("rename updates name and partition", func(t *testing.T) {
		st := NewOrganizationStore()
		ctx := context.Background()

		org := newOrg(t, "Acme")
		require.NoError(t, st.Create(ctx, org))

		err := st.Rename(ctx, org.OrgID, "Acme Corp", models.PartitionName("Acme Corp"))
		require.NoError(t, err)

		_, err = st.GetByName(ctx, "Acme")
		require.ErrorIs(t, err, store.ErrOrganizationNotFound)

		renamed, err := st.GetByName(ctx, "Acme Corp")
		require.NoError(t, err)
		require.Equal(t, "org_acme_corp", renamed.PartitionName)
	})

	t.Run("rename to taken name returns error", func(t *testing.T) {
		st := NewOrganizationStore()
		ctx := context.Background()

		org := newOrg(t, "Acme")
		require.NoError(t, st.Create(ctx, org))
		require.NoError(t, st.Create(ctx, newOrg(t, "Globex")))

		err := st.Rename(ctx, org.OrgID, "Globex", models.PartitionName("Globex"))
		require.ErrorIs(t, err, store.ErrOrganizationExists)
	})

	t.Run("rename missing organization returns error", func(t *testing.T) {
		st := NewOrganizationStore()
		ctx := context.Background()

		id, err := uuid.NewV7()
		require.NoError(t, err)

		err = st.Rename(ctx, id, "Acme", "org_acme")
		require.ErrorIs(t, err, store.ErrOrganizationNotFound)
	})
}

func TestMemoryOrganizationStore_Delete(t *testing.T) {
	t.Run("delete removes organization", func(t *testing.T) {
		st := NewOrganizationStore()
		ctx := context.Background()

		org := newOrg(t, "Acme")
		require.NoError(t, st.Create(ctx, org))
		require.NoError(t, st.Delete(ctx, org.OrgID))

		_, err := st.GetByName(ctx, "Acme")
		require.ErrorIs(t, err, store.ErrOrganizationNotFound)
	})

	t.Run("delete absent organization is a no-op", func(t *testing.T) {
		st := NewOrganizationStore()
		ctx := context.Background()

		id, err := uuid.NewV7()
		require.NoError(t, err)

		require.NoError(t, st.Delete(ctx, id))
		require.NoError(t, st.Delete(ctx, id))
	})
}
