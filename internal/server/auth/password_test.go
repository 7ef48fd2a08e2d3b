package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword_VerifyMatch(t *testing.T) {
	digest, err := HashPassword("correct horse battery staple")
	require.NoError(t, err)
	require.NotEmpty(t, digest)

	assert.True(t, CheckPassword("correct horse battery staple", digest))
	assert.False(t, CheckPassword("wrong password", digest))
	assert.False(t, CheckPassword("", digest))
}

func TestHashPassword_SaltedDigests(t *testing.T) {
	a, err := HashPassword("pw")
	require.NoError(t, err)
	b, err := HashPassword("pw")
	require.NoError(t, err)

	// bcrypt embeds a random salt, so two digests of the same input differ.
	assert.NotEqual(t, a, b)
	assert.True(t, CheckPassword("pw", a))
	assert.True(t, CheckPassword("pw", b))
}

func TestHashPassword_DigestSelfDescribing(t *testing.T) {
	digest, err := HashPassword("pw")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(digest, "$2"), "bcrypt digest must embed its parameters: %s", digest)
}

func TestCheckPassword_GarbageDigest(t *testing.T) {
	assert.False(t, CheckPassword("pw", "not-a-digest"))
}
