package helpers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("pw12345678")
	require.NoError(t, err)
	assert.NotEqual(t, "pw12345678", hash)

	assert.True(t, CompareHashAndPassword(hash, "pw12345678"))
	assert.False(t, CompareHashAndPassword(hash, "pw12345679"))
	assert.False(t, CompareHashAndPassword("", "pw12345678"))
}

func TestHashPassword_DistinctSalts(t *testing.T) {
	h1, err := HashPassword("same")
	require.NoError(t, err)
	h2, err := HashPassword("same")
	require.NoError(t, err)
	assert.NotEqual(t, h1, h2)
}
