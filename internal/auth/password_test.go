package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordHasher(t *testing.T) {
	hasher := NewPasswordHasher()

	hash, err := hasher.Hash("password123")
	require.NoError(t, err)
	assert.NotEqual(t, "password123", hash)

	assert.True(t, hasher.Verify("password123", hash))
	assert.False(t, hasher.Verify("wrong-password", hash))
	assert.False(t, hasher.Verify("password123", "not-a-hash"))
}

func TestPasswordHasher_DistinctSalts(t *testing.T) {
	hasher := NewPasswordHasher()

	a, err := hasher.Hash("password123")
	require.NoError(t, err)
	b, err := hasher.Hash("password123")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	assert.True(t, hasher.Verify("password123", a))
	assert.True(t, hasher.Verify("password123", b))
}
