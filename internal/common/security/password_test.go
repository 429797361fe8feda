package security

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("pw123")
	require.NoError(t, err)
	require.NotEqual(t, "pw123", hash, "hash must not be the plaintext")

	require.True(t, CheckPasswordHash("pw123", hash))
	require.False(t, CheckPasswordHash("pw124", hash))
}

func TestCheckPasswordHash_NotAHash(t *testing.T) {
	require.False(t, CheckPasswordHash("pw123", "pw123"))
}
