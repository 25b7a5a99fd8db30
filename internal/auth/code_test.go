package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCode(t *testing.T) {
	const alphabet = "abc123"

	code, err := NewCode(16, alphabet)
	require.NoError(t, err)
	assert.Len(t, code, 16)
	for _, r := range code {
		assert.True(t, strings.ContainsRune(alphabet, r), "unexpected rune %q", r)
	}

	other, err := NewCode(16, alphabet)
	require.NoError(t, err)
	assert.NotEqual(t, code, other)
}

func TestHashCode(t *testing.T) {
	hash, err := HashCode("secret-code")
	require.NoError(t, err)
	assert.NotEqual(t, "secret-code", hash)

	assert.True(t, CheckCode("secret-code", hash))
	assert.False(t, CheckCode("wrong-code", hash))
	assert.False(t, CheckCode("secret-code", "not-a-hash"))
}
