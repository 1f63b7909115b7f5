// AngelaMos | 2026
// security_test.go

package core

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("correct horse battery")
	require.NoError(t, err)

	ok, err := VerifyPassword("correct horse battery", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifyPassword("wrong", hash)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHashPasswordFormat(t *testing.T) {
	hash, err := HashPassword("pw")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(hash, "$argon2id$v=19$m=65536,t=1,p=4$"))
	assert.False(t, needsRehash(hash))
	assert.True(t, needsRehash("not-a-hash"))

	_, err = VerifyPassword("pw", "$bcrypt$v=19$m=1,t=1,p=1$AA$AA")
	assert.Error(t, err)
}

func TestRehashOnOldParams(t *testing.T) {
	old := argonParams{memory: 8 * 1024, time: 1, threads: 1, keyLen: 32}
	salt := []byte("0123456789abcdef")
	stored := old.encode(salt, old.derive("pw", salt))

	ok, newHash, err := VerifyPasswordWithRehash("pw", stored)
	require.NoError(t, err)
	assert.True(t, ok)
	require.NotEmpty(t, newHash)
	assert.False(t, needsRehash(newHash))

	ok, newHash, err = VerifyPasswordTimingSafe("nope", &stored)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, newHash)
}

func TestVerifyPasswordTimingSafeUnknownAccount(t *testing.T) {
	ok, newHash, err := VerifyPasswordTimingSafe("anything", nil)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, newHash)

	empty := ""
	ok, _, err = VerifyPasswordTimingSafe("anything", &empty)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSessionTokensAreUniqueAndURLSafe(t *testing.T) {
	seen := make(map[string]struct{})
	for range 64 {
		tok, err := GenerateSessionToken()
		require.NoError(t, err)
		assert.Len(t, tok, 43)
		assert.NotContains(t, tok, "+")
		assert.NotContains(t, tok, "/")
		assert.NotContains(t, tok, ".")

		_, dup := seen[tok]
		assert.False(t, dup)
		seen[tok] = struct{}{}
	}
}

func TestHashTokenDeterministic(t *testing.T) {
	hash := HashToken("abc")
	assert.Len(t, hash, 64)
	assert.Equal(t, hash, HashToken("abc"))
	assert.NotEqual(t, hash, HashToken("abd"))
}
