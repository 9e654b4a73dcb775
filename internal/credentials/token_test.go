package credentials

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-secret-key-minimum-32-characters!!")

func TestNewTokens(t *testing.T) {
	t.Run("rejects short secret", func(t *testing.T) {
		_, err := NewTokens([]byte("short"), time.Hour)
		require.Error(t, err)
	})

	t.Run("rejects non-positive ttl", func(t *testing.T) {
		_, err := NewTokens(testSecret, 0)
		require.Error(t, err)
	})
}

func TestTokens_IssueVerify(t *testing.T) {
	tokens, err := NewTokens(testSecret, time.Hour)
	require.NoError(t, err)

	orgID, err := uuid.NewV7()
	require.NoError(t, err)

	t.Run("round trip returns subject", func(t *testing.T) {
		signed, err := tokens.Issue("a@acme.com", orgID)
		require.NoError(t, err)

		subject, err := tokens.Verify(signed)
		require.NoError(t, err)
		require.Equal(t, "a@acme.com", subject)
	})

	t.Run("expired token fails with generic error", func(t *testing.T) {
		expired, err := NewTokens(testSecret, time.Nanosecond)
		require.NoError(t, err)

		signed, err := expired.Issue("a@acme.com", orgID)
		require.NoError(t, err)

		time.Sleep(10 * time.Millisecond)

		_, err = tokens.Verify(signed)
		require.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong key fails with generic error", func(t *testing.T) {
		other, err := NewTokens([]byte("another-secret-key-of-32-bytes-min!!"), time.Hour)
		require.NoError(t, err)

		signed, err := other.Issue("a@acme.com", orgID)
		require.NoError(t, err)

		_, err = tokens.Verify(signed)
		require.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage fails with generic error", func(t *testing.T) {
		_, err := tokens.Verify("not.a.token")
		require.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestPassword(t *testing.T) {
	t.Run("hash and verify", func(t *testing.T) {
		hash, err := HashPassword("hunter22")
		require.NoError(t, err)
		require.NotEqual(t, "hunter22", hash)

		require.True(t, VerifyPassword("hunter22", hash))
		require.False(t, VerifyPassword("hunter23", hash))
	})
}
