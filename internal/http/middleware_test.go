package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExtractClientIP(t *testing.T) {
	t.Run("prefers x-forwarded-for and takes the first hop", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/admin/login", nil)
		r.Header.Set("X-Forwarded-For", "203.0.113.1, 198.51.100.1")
		r.Header.Set("X-Real-IP", "192.168.1.100")

		require.Equal(t, "203.0.113.1", ExtractClientIP(r))
	})

	t.Run("falls back to x-real-ip", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/admin/login", nil)
		r.Header.Set("X-Real-IP", "192.168.1.100")

		require.Equal(t, "192.168.1.100", ExtractClientIP(r))
	})

	t.Run("strips the port from remote addr", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/admin/login", nil)
		r.RemoteAddr = "192.168.1.1:54321"

		require.Equal(t, "192.168.1.1", ExtractClientIP(r))
	})

	t.Run("ipv6 remote addr keeps the bracketed host", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/admin/login", nil)
		r.RemoteAddr = "[2001:db8::1]:54321"

		require.Equal(t, "[2001:db8::1]", ExtractClientIP(r))
	})
}

func TestClientIPMiddleware(t *testing.T) {
	t.Run("handlers downstream read the ip from the context", func(t *testing.T) {
		// The auth gateway reads the ip this way when attributing failed
		// logins.
		var auditIP string
		handler := ClientIPMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auditIP = ClientIPFromContext(r.Context())
		}))

		r := httptest.NewRequest(http.MethodPost, "/admin/login", nil)
		r.Header.Set("X-Forwarded-For", "203.0.113.1")

		handler.ServeHTTP(httptest.NewRecorder(), r)

		require.Equal(t, "203.0.113.1", auditIP)
	})

	t.Run("context without the middleware yields empty", func(t *testing.T) {
		require.Empty(t, ClientIPFromContext(context.Background()))
	})
}
