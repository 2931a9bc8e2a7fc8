package jwthelper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	key := []byte("test-signing-key")

	token, err := GenerateToken(key, 42, []string{"admin", "operator"}, "go-test")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ParseToken(key, token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, []string{"admin", "operator"}, claims.Roles)
	assert.Equal(t, "go-test", claims.UserAgent)
}

func TestParseTokenWrongKey(t *testing.T) {
	token, err := GenerateToken([]byte("right-key"), 42, nil, "")
	require.NoError(t, err)

	_, err = ParseToken([]byte("wrong-key"), token)
	assert.Error(t, err)
}

func TestParseTokenGarbage(t *testing.T) {
	_, err := ParseToken([]byte("key"), "not.a.token")
	assert.Error(t, err)
}
