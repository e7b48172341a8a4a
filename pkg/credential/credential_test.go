package credential

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateIsUniqueAndWellFormed(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		secret, err := Generate()
		require.NoError(t, err)
		assert.True(t, WellFormed(secret))
		assert.False(t, seen[secret], "generated credentials must not repeat")
		seen[secret] = true
	}
}

func TestVerify(t *testing.T) {
	secret, err := Generate()
	require.NoError(t, err)

	ownerHash := Hash(secret)
	assert.True(t, Verify(secret, ownerHash))

	other, err := Generate()
	require.NoError(t, err)
	assert.False(t, Verify(other, ownerHash))
	assert.False(t, Verify("", ownerHash))
}

func TestWellFormed(t *testing.T) {
	assert.False(t, WellFormed(""))
	assert.False(t, WellFormed("abc"))
	assert.False(t, WellFormed("zzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzz")) // not hex
	assert.True(t, WellFormed("00112233445566778899aabbccddeeff"))
}
