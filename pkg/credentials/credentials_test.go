package credentials

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateClientID(t *testing.T) {
	a, err := GenerateClientID()
	require.NoError(t, err)
	b, err := GenerateClientID()
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	// 24 bytes -> 32 chars of unpadded base64url
	assert.Len(t, a, 32)
	assert.NotContains(t, a, "=")
	assert.NotContains(t, a, "+")
	assert.NotContains(t, a, "/")
}

func TestGenerateClientSecret(t *testing.T) {
	s, err := GenerateClientSecret()
	require.NoError(t, err)

	// 32 bytes of entropy -> 43 chars of unpadded base64url
	assert.Len(t, s, 43)
	for _, c := range s {
		assert.True(t, strings.ContainsRune("ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_", c),
			"secret must be URL-safe, got %q", c)
	}
}

func TestHashSecretSaltsPerCall(t *testing.T) {
	secret, err := GenerateClientSecret()
	require.NoError(t, err)

	h1, err := HashSecret(secret)
	require.NoError(t, err)
	h2, err := HashSecret(secret)
	require.NoError(t, err)

	// Same input, different hashes — and both verify.
	assert.NotEqual(t, h1, h2)
	assert.True(t, VerifySecret(secret, h1))
	assert.True(t, VerifySecret(secret, h2))
}

func TestVerifySecret(t *testing.T) {
	hash, err := HashSecret("correct-horse")
	require.NoError(t, err)

	assert.True(t, VerifySecret("correct-horse", hash))
	assert.False(t, VerifySecret("wrong-horse", hash))
	assert.False(t, VerifySecret("Correct-horse", hash), "comparison must be case-sensitive")
	assert.False(t, VerifySecret("", hash))
	assert.False(t, VerifySecret("correct-horse", "not-a-bcrypt-hash"))
}
