// Package auth validates bearer tokens and carries claims on the request
// context. Tokens are HS256 JWTs minted by the identity service; the subject
// claim is the owner id every repository call is scoped to.
package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Config holds signer verification parameters.
type Config struct {
	Secret string
	Issuer string
}

// ErrMissingToken is returned when the Authorization header is absent.
var ErrMissingToken = errors.New("missing bearer token")

// ErrInvalidToken wraps parsing/validation errors.
var ErrInvalidToken = errors.New("invalid bearer token")

// Claims is the normalized view of a validated token.
type Claims struct {
	Subject   string
	Scopes    map[string]struct{}
	ExpiresAt time.Time
}

// HasScope reports whether the claim set includes the provided scope.
func (c *Claims) HasScope(scope string) bool {
	if c == nil {
		return false
	}
	_, ok := c.Scopes[scope]
	return ok
}

// tokenClaims mirrors the raw JWT payload. Scopes may arrive as a JSON array
// or a space-separated string depending on the issuer version.
type tokenClaims struct {
	Scopes interface{} `json:"scopes"`
	jwt.RegisteredClaims
}

// Parse validates a JWT and returns normalized claims.
func Parse(token string, cfg Config) (*Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrMissingToken
	}

	var raw tokenClaims
	parsed, err := jwt.ParseWithClaims(token, &raw,
		func(t *jwt.Token) (interface{}, error) { return []byte(cfg.Secret), nil },
		jwt.WithIssuer(cfg.Issuer),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !parsed.Valid || raw.Subject == "" {
		return nil, ErrInvalidToken
	}

	out := &Claims{
		Subject: raw.Subject,
		Scopes:  scopeSet(raw.Scopes),
	}
	if raw.ExpiresAt != nil {
		out.ExpiresAt = raw.ExpiresAt.Time
	}
	return out, nil
}

func scopeSet(value interface{}) map[string]struct{} {
	out := make(map[string]struct{})
	add := func(scope string) {
		scope = strings.TrimSpace(scope)
		if scope != "" {
			out[scope] = struct{}{}
		}
	}

	switch v := value.(type) {
	case []interface{}:
		for _, item := range v {
			if s, ok := item.(string); ok {
				add(s)
			}
		}
	case []string:
		for _, s := range v {
			add(s)
		}
	case string:
		for _, s := range strings.Fields(v) {
			add(s)
		}
	}
	return out
}
