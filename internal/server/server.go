package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/wolfeidau/tenantd/internal/auth"
	httpmiddleware "github.com/wolfeidau/tenantd/internal/http"
	"github.com/wolfeidau/tenantd/internal/logger"
	"github.com/wolfeidau/tenantd/internal/tenant"
)

// Server wraps the HTTP API over the lifecycle manager and auth gateway.
type Server struct {
	manager *tenant.Manager
	gateway *auth.Gateway
}

// NewServer creates a new server with the given lifecycle manager and
// auth gateway.
func NewServer(manager *tenant.Manager, gateway *auth.Gateway) *Server {
	return &Server{
		manager: manager,
		gateway: gateway,
	}
}

// Handler returns the HTTP handler for the server.
func (s *Server) Handler(log zerolog.Logger) http.Handler {
	mux := http.NewServeMux()

	// Health check endpoint for load balancer
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	mux.HandleFunc("POST /org/create", s.handleCreateOrganization)
	mux.HandleFunc("GET /org/get", s.handleGetOrganization)
	mux.HandleFunc("POST /admin/login", s.handleLogin)

	// Mutating organization routes require a bearer token.
	authed := s.gateway.Middleware()
	mux.Handle("PUT /org/update", authed(http.HandlerFunc(s.handleUpdateOrganization)))
	mux.Handle("DELETE /org/delete", authed(http.HandlerFunc(s.handleDeleteOrganization)))

	// Client IP middleware for audit logging
	return logger.Requests(log)(httpmiddleware.ClientIPMiddleware()(mux))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errorResponse struct {
	Error string `json:"error"`
}

// writeError maps lifecycle and auth error kinds to HTTP statuses.
// Anything unclassified is a storage or internal failure and is reported
// as a 500 with a generic message so internals never leak to callers.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, tenant.ErrConflict):
		writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
	case errors.Is(err, tenant.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	case errors.Is(err, tenant.ErrUnauthorized), errors.Is(err, auth.ErrInvalidCredentials):
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: err.Error()})
	case errors.Is(err, tenant.ErrForbidden):
		writeJSON(w, http.StatusForbidden, errorResponse{Error: err.Error()})
	default:
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
	}
}
