package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/o1egl/paseto"
)

const (
	AccessTokenExpiry = 24 * time.Hour

	RolePatient = "patient"
	RoleDoctor  = "doctor"
	RoleAdmin   = "admin"
)

var (
	ErrTokenInvalid  = errors.New("invalid token")
	ErrTokenExpired  = errors.New("token expired")
	ErrInsufficient  = errors.New("insufficient permissions")
	ErrStaleAdminKey = errors.New("admin identity no longer valid")
)

// TokenClaims is the data carried inside a token.
type TokenClaims struct {
	Subject string    `json:"sub"`
	Role    string    `json:"role"`
	Expiry  time.Time `json:"expiry"`
}

// TokenMaker issues and verifies PASETO v2 tokens. The symmetric key and
// the admin identity come from the startup config rather than the
// environment, so tests and deployments control them explicitly.
type TokenMaker struct {
	key        []byte
	adminEmail string
}

func NewTokenMaker(symmetricKey, adminEmail string) (*TokenMaker, error) {
	if len(symmetricKey) != 32 {
		return nil, fmt.Errorf("symmetric key must be 32 bytes long, got %d", len(symmetricKey))
	}
	return &TokenMaker{key: []byte(symmetricKey), adminEmail: adminEmail}, nil
}

// Issue produces a signed token asserting the subject id and role.
func (m *TokenMaker) Issue(subject, role string) (string, error) {
	return m.issueWithExpiry(subject, role, AccessTokenExpiry)
}

func (m *TokenMaker) issueWithExpiry(subject, role string, expiry time.Duration) (string, error) {
	claims := TokenClaims{
		Subject: subject,
		Role:    role,
		Expiry:  time.Now().Add(expiry),
	}

	token, err := paseto.NewV2().Encrypt(m.key, claims, nil)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return token, nil
}

// Verify decrypts the token and checks expiry and the required role.
// Admin tokens additionally re-check the configured admin email, so
// rotating the admin credentials invalidates tokens already issued.
func (m *TokenMaker) Verify(tokenString string, requiredRole string) (*TokenClaims, error) {
	var claims TokenClaims
	if err := paseto.NewV2().Decrypt(tokenString, m.key, &claims, nil); err != nil {
		return nil, ErrTokenInvalid
	}

	if time.Now().After(claims.Expiry) {
		return nil, ErrTokenExpired
	}

	if claims.Role != requiredRole {
		return nil, ErrInsufficient
	}

	if claims.Role == RoleAdmin && claims.Subject != m.adminEmail {
		return nil, ErrStaleAdminKey
	}

	return &claims, nil
}
