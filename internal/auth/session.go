// Package auth issues and verifies blog session tokens. A session token is an
// HS256 JWT naming a Lemmy account that was verified when the token was
// issued; verification never contacts the Lemmy instance.
package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/anonto42/lemmy-blog/backend/internal/models"
)

// DefaultTTL is the lifetime of an issued session token.
const DefaultTTL = 24 * time.Hour

var (
	ErrMissingHeader   = errors.New("missing authorization header")
	ErrMalformedHeader = errors.New("authorization header must be in Bearer format")
	ErrInvalidToken    = errors.New("invalid token")
	ErrExpiredToken    = errors.New("token expired")
)

// Error is returned for every failed verification. It wraps one of the
// sentinel errors above.
type Error struct {
	Err    error
	Detail string
}

func (e *Error) Error() string {
	if e.Detail == "" {
		return e.Err.Error()
	}
	return e.Err.Error() + ": " + e.Detail
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Manager signs and verifies session tokens with a shared secret.
type Manager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewManager creates a Manager. A non-positive ttl selects DefaultTTL.
func NewManager(secret string, ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Manager{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue signs a session token for identity. lemmyUserID may be zero.
func (m *Manager) Issue(identity models.Identity, lemmyUserID int64) (string, error) {
	now := m.now()
	claims := &models.SessionClaims{
		Username:    identity.Username,
		Instance:    identity.Instance,
		LemmyUserID: lemmyUserID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}

// Verify checks an Authorization header value of the form "Bearer <token>"
// and returns the token's claims.
func (m *Manager) Verify(header string) (*models.SessionClaims, error) {
	if strings.TrimSpace(header) == "" {
		return nil, &Error{Err: ErrMissingHeader}
	}
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return nil, &Error{Err: ErrMalformedHeader}
	}
	return m.Parse(parts[1])
}

// Parse verifies a raw token string.
func (m *Manager) Parse(tokenString string) (*models.SessionClaims, error) {
	claims := &models.SessionClaims{}
	parser := jwt.Parser{ValidMethods: []string{jwt.SigningMethodHS256.Alg()}}
	token, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return m.secret, nil
	})
	if err != nil {
		var validationErr *jwt.ValidationError
		if errors.As(err, &validationErr) && validationErr.Errors&jwt.ValidationErrorExpired != 0 {
			return nil, &Error{Err: ErrExpiredToken}
		}
		return nil, &Error{Err: ErrInvalidToken, Detail: err.Error()}
	}
	if !token.Valid {
		return nil, &Error{Err: ErrInvalidToken}
	}
	if claims.ExpiresAt == nil {
		return nil, &Error{Err: ErrInvalidToken, Detail: "token has no expiry"}
	}
	if claims.Username == "" || claims.Instance == "" {
		return nil, &Error{Err: ErrInvalidToken, Detail: "token has no identity"}
	}
	return claims, nil
}
