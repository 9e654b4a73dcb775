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

func newAdmin(t *testing.T, email string) *models.Admin {
	t.Helper()

	adminID, err := uuid.NewV7()
	require.NoError(t, err)
	orgID, err := uuid.NewV7()
	require.NoError(t, err)

	return &models.Admin{
		AdminID:      adminID,
		Email:        email,
		PasswordHash: "$2a$10$fakehashfortest",
		OrgID:        orgID,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
}

func TestMemoryAdminStore_Create(t *testing.T) {
	t.Run("create new admin", func(t *testing.T) {
		st := NewAdminStore()
		ctx := context.Background()

		err := st.Create(ctx, newAdmin(t, "a@acme.com"))
		require.NoError(t, err)
	})

	t.Run("create duplicate email returns error", func(t *testing.T) {
		st := NewAdminStore()
		ctx := context.Background()

		require.NoError(t, st.Create(ctx, newAdmin(t, "a@acme.com")))

		err := st.Create(ctx, newAdmin(t, "a@acme.com"))
		require.ErrorIs(t, err, store.ErrAdminExists)
	})

	t.Run("second admin for same org returns error", func(t *testing.T) {
		st := NewAdminStore()
		ctx := context.Background()

		first := newAdmin(t, "a@acme.com")
		require.NoError(t, st.Create(ctx, first))

		second := newAdmin(t, "b@acme.com")
		second.OrgID = first.OrgID
		err := st.Create(ctx, second)
		require.ErrorIs(t, err, store.ErrAdminExists)
	})
}

func TestMemoryAdminStore_UpdateCredentials(t *testing.T) {
	t.Run("update email and password", func(t *testing.T) {
		st := NewAdminStore()
		ctx := context.Background()

		admin := newAdmin(t, "a@acme.com")
		require.NoError(t, st.Create(ctx, admin))

		newEmail := "b@acme.com"
		newHash := "$2a$10$anotherfakehash"
		err := st.UpdateCredentials(ctx, admin.AdminID, &newEmail, &newHash)
		require.NoError(t, err)

		updated, err := st.GetByEmail(ctx, "b@acme.com")
		require.NoError(t, err)
		require.Equal(t, newHash, updated.PasswordHash)

		_, err = st.GetByEmail(ctx, "a@acme.com")
		require.ErrorIs(t, err, store.ErrAdminNotFound)
	})

	t.Run("nil fields are unchanged", func(t *testing.T) {
		st := NewAdminStore()
		ctx := context.Background()

		admin := newAdmin(t, "a@acme.com")
		require.NoError(t, st.Create(ctx, admin))

		newHash := "$2a$10$anotherfakehash"
		require.NoError(t, st.UpdateCredentials(ctx, admin.AdminID, nil, &newHash))

		updated, err := st.GetByEmail(ctx, "a@acme.com")
		require.NoError(t, err)
		require.Equal(t, newHash, updated.PasswordHash)
	})

	t.Run("update to taken email returns error", func(t *testing.T) {
		st := NewAdminStore()
		ctx := context.Background()

		admin := newAdmin(t, "a@acme.com")
		require.NoError(t, st.Create(ctx, admin))
		require.NoError(t, st.Create(ctx, newAdmin(t, "b@acme.com")))

		taken := "b@acme.com"
		err := st.UpdateCredentials(ctx, admin.AdminID, &taken, nil)
		require.ErrorIs(t, err, store.ErrAdminExists)
	})

	t.Run("update missing admin returns error", func(t *testing.T) {
		st := NewAdminStore()
		ctx := context.Background()

		id, err := uuid.NewV7()
		require.NoError(t, err)

		email := "a@acme.com"
		err = st.UpdateCredentials(ctx, id, &email, nil)
		require.ErrorIs(t, err, store.ErrAdminNotFound)
	})
}

func TestMemoryAdminStore_Delete(t *testing.T) {
	t.Run("delete is idempotent", func(t *testing.T) {
		st := NewAdminStore()
		ctx := context.Background()

		admin := newAdmin(t, "a@acme.com")
		require.NoError(t, st.Create(ctx, admin))
		require.NoError(t, st.Delete(ctx, admin.AdminID))
		require.NoError(t, st.Delete(ctx, admin.AdminID))
	})
}
