// Package token issues and verifies the signed session tokens that carry
// caller identity between requests.
package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/kmalygin/machine-vault/internal/errs"
)

// Claims is the identity payload embedded in a session token.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

// Manager signs and verifies session tokens with a process-wide HS256 secret.
type Manager struct {
	key []byte
	ttl time.Duration
}

// NewManager constructs a Manager. ttl is the session lifetime; expiry is the
// only invalidation mechanism, there is no server-side revocation.
func NewManager(key []byte, ttl time.Duration) *Manager {
	return &Manager{key: key, ttl: ttl}
}

// Issue creates a signed token for the given identity with issued-at set to
// now and expiry a fixed ttl later.
func (m *Manager) Issue(email, name string) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
		Email: email,
		Name:  name,
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString(m.key)
}

// Verify checks signature and expiry and returns the embedded claims.
// Tampered or expired tokens return errs.ErrInvalidToken. Only Verify may
// back an authorization decision.
func (m *Manager) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	tok, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return m.key, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !tok.Valid {
		return nil, errs.ErrInvalidToken
	}
	return claims, nil
}

// Decode extracts claims without checking the signature. It exists for
// contexts that already trust the token's origin, such as inspecting a token
// the server itself just issued. Never use it for authorization.
func (m *Manager) Decode(tokenString string) (*Claims, error) {
	claims := &Claims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(tokenString, claims); err != nil {
		return nil, errs.ErrInvalidToken
	}
	return claims, nil
}
