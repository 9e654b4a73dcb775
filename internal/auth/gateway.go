package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/wolfeidau/tenantd/internal/credentials"
	httpmiddleware "github.com/wolfeidau/tenantd/internal/http"
	"github.com/wolfeidau/tenantd/internal/store"
	"github.com/wolfeidau/tenantd/internal/telemetry"
)

// ErrInvalidCredentials is returned for every login failure, whether the
// email is unknown or the password is wrong. A single error keeps login
// from being usable as an email oracle.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Gateway authenticates admins and verifies bearer tokens on incoming
// requests.
type Gateway struct {
	admins store.AdminStore
	tokens *credentials.Tokens
}

// NewGateway creates an authentication gateway over the admin store.
func NewGateway(admins store.AdminStore, tokens *credentials.Tokens) *Gateway {
	return &Gateway{admins: admins, tokens: tokens}
}

// Login verifies the email and password and returns a signed bearer token.
func (g *Gateway) Login(ctx context.Context, email, password string) (string, error) {
	admin, err := g.admins.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrAdminNotFound) {
			telemetry.GetMetrics().LoginFailuresTotal.Add(ctx, 1)
			log.Warn().
				Str("email", email).
				Str("client_ip", httpmiddleware.ClientIPFromContext(ctx)).
				Msg("Login failed: unknown admin")
			return "", ErrInvalidCredentials
		}
		return "", fmt.Errorf("failed to look up admin: %w", err)
	}

	if !credentials.VerifyPassword(password, admin.PasswordHash) {
		telemetry.GetMetrics().LoginFailuresTotal.Add(ctx, 1)
		log.Warn().
			Str("email", email).
			Str("client_ip", httpmiddleware.ClientIPFromContext(ctx)).
			Msg("Login failed: bad password")
		return "", ErrInvalidCredentials
	}

	token, err := g.tokens.Issue(admin.Email, admin.OrgID)
	if err != nil {
		return "", fmt.Errorf("failed to issue token: %w", err)
	}

	telemetry.GetMetrics().LoginsTotal.Add(ctx, 1)

	log.Info().
		Str("email", email).
		Str("org_id", admin.OrgID.String()).
		Msg("Admin logged in")

	return token, nil
}
