package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anonto42/lemmy-blog/backend/internal/models"
)

var alice = models.Identity{Username: "alice", Instance: "lemmy.ml"}

func TestIssueAndVerify(t *testing.T) {
	m := NewManager("test-secret", time.Hour)

	token, err := m.Issue(alice, 42)
	require.NoError(t, err)

	claims, err := m.Verify("Bearer " + token)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "lemmy.ml", claims.Instance)
	assert.Equal(t, int64(42), claims.LemmyUserID)
	assert.Equal(t, "alice@lemmy.ml", claims.Identity().String())
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, 5*time.Second)
}

func TestVerify_LowercaseScheme(t *testing.T) {
	m := NewManager("test-secret", 0)
	token, err := m.Issue(alice, 0)
	require.NoError(t, err)

	_, err = m.Verify("bearer " + token)
	assert.NoError(t, err)
}

func TestVerify_Errors(t *testing.T) {
	m := NewManager("test-secret", time.Hour)
	good, err := m.Issue(alice, 0)
	require.NoError(t, err)

	wrongKey, err := NewManager("other-secret", time.Hour).Issue(alice, 0)
	require.NoError(t, err)

	expiredManager := NewManager("test-secret", time.Hour)
	expiredManager.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expired, err := expiredManager.Issue(alice, 0)
	require.NoError(t, err)

	noIdentity, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &models.SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &models.SessionClaims{
		Username: "alice",
		Instance: "lemmy.ml",
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, &models.SessionClaims{
		Username:         "alice",
		Instance:         "lemmy.ml",
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	cases := []struct {
		name   string
		header string
		want   error
	}{
		{"missing", "", ErrMissingHeader},
		{"no scheme", good, ErrMalformedHeader},
		{"wrong scheme", "Token " + good, ErrMalformedHeader},
		{"extra parts", "Bearer " + good + " extra", ErrMalformedHeader},
		{"garbage", "Bearer not-a-jwt", ErrInvalidToken},
		{"wrong key", "Bearer " + wrongKey, ErrInvalidToken},
		{"expired", "Bearer " + expired, ErrExpiredToken},
		{"no identity", "Bearer " + noIdentity, ErrInvalidToken},
		{"no expiry", "Bearer " + noExpiry, ErrInvalidToken},
		{"alg none", "Bearer " + unsigned, ErrInvalidToken},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			claims, err := m.Verify(tc.header)
			assert.Nil(t, claims)
			require.Error(t, err)
			assert.ErrorIs(t, err, tc.want)

			var authErr *Error
			assert.True(t, errors.As(err, &authErr))
		})
	}
}
