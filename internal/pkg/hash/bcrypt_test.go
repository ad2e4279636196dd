package hash

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcrypt(t *testing.T) {
	h := NewBcrypt(bcrypt.MinCost)

	hashed, err := h.Hash("Passw0rd")
	require.NoError(t, err)
	assert.NotEqual(t, "Passw0rd", hashed)
	assert.True(t, h.Verify(hashed, "Passw0rd"))
	assert.False(t, h.Verify(hashed, "passw0rd"))
	assert.False(t, h.Verify("not-a-hash", "Passw0rd"))

	long := strings.Repeat("a", 200)
	hashed, err = h.Hash(long)
	require.NoError(t, err)
	assert.True(t, h.Verify(hashed, long))
	assert.False(t, h.Verify(hashed, long[:199]+"b"))
}

func TestNewBcrypt_CostFallback(t *testing.T) {
	assert.Equal(t, bcrypt.DefaultCost, NewBcrypt(0).cost)
	assert.Equal(t, bcrypt.DefaultCost, NewBcrypt(99).cost)
	assert.Equal(t, 12, NewBcrypt(12).cost)
}
