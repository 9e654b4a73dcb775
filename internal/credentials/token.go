package credentials

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrInvalidToken is returned for every token verification failure:
// bad signature, expiry, malformed input, wrong signing method. A single
// error keeps the failure mode opaque to callers.
var ErrInvalidToken = errors.New("invalid token")

// Claims are the bearer token claims: the subject is the admin's email,
// org_id the owning organization.
type Claims struct {
	OrgID string `json:"org_id"`
	jwt.RegisteredClaims
}

// Tokens issues and verifies HMAC-signed bearer tokens with a fixed
// expiry window.
type Tokens struct {
	secret []byte
	ttl    time.Duration
}

// NewTokens creates a token issuer/verifier. The secret must be at least
// 32 bytes for HMAC-SHA256.
func NewTokens(secret []byte, ttl time.Duration) (*Tokens, error) {
	if len(secret) < 32 {
		return nil, fmt.Errorf("token secret must be at least 32 bytes")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("token TTL must be greater than 0")
	}

	return &Tokens{secret: secret, ttl: ttl}, nil
}

// Issue creates a signed token for the given admin email and organization.
func (t *Tokens) Issue(email string, orgID uuid.UUID) (string, error) {
	now := time.Now()

	claims := Claims{
		OrgID: orgID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}

// Verify validates the token signature and expiry and returns the subject
// email. All failure modes map to ErrInvalidToken.
func (t *Tokens) Verify(tokenStr string) (string, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(tok *jwt.Token) (any, error) {
		if tok.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("invalid signing method")
		}
		return t.secret, nil
	})
	if err != nil || !parsed.Valid {
		return "", ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || claims.Subject == "" {
		return "", ErrInvalidToken
	}

	return claims.Subject, nil
}
