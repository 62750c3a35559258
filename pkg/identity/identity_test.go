package identity

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var secret = []byte("test-secret")

func TestIssueAndParse(t *testing.T) {
	tok, expiresAt, err := Issue(secret, "alice", []string{"Admin", "User"}, time.Hour)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	id, err := Parse(secret, tok)
	require.NoError(t, err)
	assert.Equal(t, "alice", id.Login)
	assert.Equal(t, []string{"Admin", "User"}, id.Roles)
	assert.NotEmpty(t, id.TokenID)
	assert.True(t, id.HasRole("Admin"))
	assert.False(t, id.HasRole("Editors"))
}

func TestIssueWithoutSecret(t *testing.T) {
	_, _, err := Issue(nil, "alice", nil, time.Hour)
	assert.EqualError(t, err, "token secret is not configured")
}

func TestParseRejects(t *testing.T) {
	valid, _, err := Issue(secret, "alice", []string{"Admin"}, time.Hour)
	require.NoError(t, err)

	expired, _, err := Issue(secret, "alice", []string{"Admin"}, -2*time.Hour)
	require.NoError(t, err)

	noneAlg, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "alice",
			Issuer:    Issuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	noSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    Issuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString(secret)
	require.NoError(t, err)

	tests := []struct {
		name   string
		secret []byte
		token  string
	}{
		{name: "wrong secret", secret: []byte("other"), token: valid},
		{name: "expired", secret: secret, token: expired},
		{name: "none algorithm", secret: secret, token: noneAlg},
		{name: "missing subject", secret: secret, token: noSubject},
		{name: "garbage", secret: secret, token: "not-a-token"},
		{name: "no secret configured", secret: nil, token: valid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.secret, tt.token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestContext(t *testing.T) {
	ctx := context.Background()

	_, ok := Get(ctx)
	assert.False(t, ok)
	assert.Equal(t, "anonymous", FromContext(ctx).Login)

	id := (&Identity{Login: "alice"}).WithRemoteIP("10.0.0.1")
	ctx = Set(ctx, id)

	got, ok := Get(ctx)
	require.True(t, ok)
	assert.Same(t, id, got)
	assert.Equal(t, "10.0.0.1", FromContext(ctx).ClientIP())
	assert.Equal(t, "", Anonymous().ClientIP())
}
