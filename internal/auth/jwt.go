package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v4"

	"github.com/fhuszti/assets-ms-go/internal/port"
	"github.com/fhuszti/assets-ms-go/internal/uuid"
)

// ErrUnauthorized is returned for missing, malformed or invalid credentials.
var ErrUnauthorized = errors.New("unauthorized")

// Validator checks HS256 bearer tokens and resolves their subject to a user id.
// A validator built without a secret rejects every token.
type Validator struct {
	secret []byte
	parser *jwt.Parser
}

// compile-time check
var _ port.TokenValidator = (*Validator)(nil)

func NewValidator(secret string) *Validator {
	return &Validator{
		secret: []byte(secret),
		parser: jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name})),
	}
}

func (v *Validator) ValidateToken(raw string) (uuid.UUID, error) {
	if raw == "" {
		return uuid.Nil, fmt.Errorf("%w: missing bearer token", ErrUnauthorized)
	}

	if len(v.secret) == 0 {
		return uuid.Nil, fmt.Errorf("%w: no signing secret configured", ErrUnauthorized)
	}

	claims := &jwt.RegisteredClaims{}
	tok, err := v.parser.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		return v.secret, nil
	})
	if err != nil || !tok.Valid {
		return uuid.Nil, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}

	if claims.Subject == "" {
		return uuid.Nil, fmt.Errorf("%w: missing sub", ErrUnauthorized)
	}
	id, err := uuid.Parse(claims.Subject)
	if err != nil || id.IsNil() {
		return uuid.Nil, fmt.Errorf("%w: sub %q is not a user id", ErrUnauthorized, claims.Subject)
	}
	return id, nil
}

// BearerToken returns the token of an "Authorization: Bearer" header.
func BearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if len(h) < 7 || !strings.EqualFold(h[:7], "Bearer ") {
		return ""
	}
	return strings.TrimSpace(h[7:])
}

// TokenFromRequest falls back to the access_token query parameter,
// for clients that cannot set headers on a websocket handshake.
func TokenFromRequest(r *http.Request) string {
	if t := BearerToken(r); t != "" {
		return t
	}
	return r.URL.Query().Get("access_token")
}
