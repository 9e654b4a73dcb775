package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/wolfeidau/tenantd/internal/credentials"
	"github.com/wolfeidau/tenantd/internal/models"
	"github.com/wolfeidau/tenantd/internal/store/memory"
)

var testSecret = []byte("test-secret-key-minimum-32-characters!!")

func newTestGateway(t *testing.T) (*Gateway, *memory.AdminStore) {
	t.Helper()

	tokens, err := credentials.NewTokens(testSecret, time.Hour)
	require.NoError(t, err)

	admins := memory.NewAdminStore()

	return NewGateway(admins, tokens), admins
}

func seedAdmin(t *testing.T, admins *memory.AdminStore, email, password string) *models.Admin {
	t.Helper()

	hash, err := credentials.HashPassword(password)
	require.NoError(t, err)

	adminID, err := uuid.NewV7()
	require.NoError(t, err)
	orgID, err := uuid.NewV7()
	require.NoError(t, err)

	admin := &models.Admin{
		AdminID:      adminID,
		Email:        email,
		PasswordHash: hash,
		OrgID:        orgID,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	require.NoError(t, admins.Create(context.Background(), admin))

	return admin
}

func TestGateway_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("valid credentials return a verifiable token", func(t *testing.T) {
		gw, admins := newTestGateway(t)
		seedAdmin(t, admins, "a@acme.com", "hunter22")

		token, err := gw.Login(ctx, "a@acme.com", "hunter22")
		require.NoError(t, err)

		subject, err := gw.tokens.Verify(token)
		require.NoError(t, err)
		require.Equal(t, "a@acme.com", subject)
	})

	t.Run("wrong password and unknown email fail identically", func(t *testing.T) {
		gw, admins := newTestGateway(t)
		seedAdmin(t, admins, "a@acme.com", "hunter22")

		_, badPassword := gw.Login(ctx, "a@acme.com", "wrong")
		_, unknownEmail := gw.Login(ctx, "nobody@acme.com", "hunter22")

		require.ErrorIs(t, badPassword, ErrInvalidCredentials)
		require.ErrorIs(t, unknownEmail, ErrInvalidCredentials)
		require.Equal(t, badPassword.Error(), unknownEmail.Error())
	})
}

func TestGateway_Middleware(t *testing.T) {
	gw, admins := newTestGateway(t)
	seedAdmin(t, admins, "a@acme.com", "hunter22")

	handler := gw.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(SubjectFromContext(r.Context())))
	}))

	t.Run("valid token injects subject", func(t *testing.T) {
		token, err := gw.Login(context.Background(), "a@acme.com", "hunter22")
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "a@acme.com", rec.Body.String())
	})

	t.Run("missing header is rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("malformed header is rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Token abc")

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("garbage token is rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer not.a.token")

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
