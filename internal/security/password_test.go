package security_test

import (
	"testing"

	"github.com/geocoder89/dumbcrm/internal/security"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := security.HashPassword("admin123")
	require.NoError(t, err)
	require.NotEqual(t, "admin123", hash)

	assert.NoError(t, security.CheckPassword(hash, "admin123"))
	assert.Error(t, security.CheckPassword(hash, "wrong-password"))
}

func TestHashPasswordSalted(t *testing.T) {
	first, err := security.HashPassword("same-input")
	require.NoError(t, err)

	second, err := security.HashPassword("same-input")
	require.NoError(t, err)

	// bcrypt salts every hash
	assert.NotEqual(t, first, second)
}
