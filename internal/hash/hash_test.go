package hash

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword_RoundTrip(t *testing.T) {
	t.Parallel()

	h, err := HashPassword("secret123")
	require.NoError(t, err)
	assert.NotEqual(t, "secret123", h)

	assert.True(t, CheckPassword(h, "secret123"))
	assert.False(t, CheckPassword(h, "secret124"))
}

func TestCheckPassword_EmptyOrBrokenHash(t *testing.T) {
	t.Parallel()

	assert.False(t, CheckPassword("", "anything"))
	assert.False(t, CheckPassword("not-bcrypt", "anything"))
}
