package auth

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelfnote/shelfnote-server/internal/errors"
)

func testKey() []byte {
	return bytes.Repeat([]byte{7}, keySize)
}

func TestTokenService_RoundTrip(t *testing.T) {
	svc, err := NewTokenService(testKey(), time.Hour)
	require.NoError(t, err)

	token, expires, err := svc.Issue("user-1")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(token, "v4.local."))
	assert.WithinDuration(t, time.Now().Add(time.Hour), expires, 5*time.Second)

	claims, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, tokenIssuer, claims.Issuer)
	assert.True(t, strings.HasPrefix(claims.TokenID, "tok-"))
}

func TestTokenService_Expired(t *testing.T) {
	svc, err := NewTokenService(testKey(), time.Hour)
	require.NoError(t, err)

	issued := time.Now().Add(-2 * time.Hour)
	svc.now = func() time.Time { return issued }
	token, _, err := svc.Issue("user-1")
	require.NoError(t, err)

	svc.now = time.Now
	_, err = svc.Verify(token)
	assert.True(t, errors.Is(err, errors.ErrUnauthorized))
}

func TestTokenService_WrongKey(t *testing.T) {
	issuer, err := NewTokenService(testKey(), time.Hour)
	require.NoError(t, err)
	token, _, err := issuer.Issue("user-1")
	require.NoError(t, err)

	other, err := NewTokenService(bytes.Repeat([]byte{9}, keySize), time.Hour)
	require.NoError(t, err)
	_, err = other.Verify(token)
	assert.True(t, errors.Is(err, errors.ErrUnauthorized))

	_, err = issuer.Verify("garbage")
	assert.True(t, errors.Is(err, errors.ErrUnauthorized))
}

func TestNewTokenService_Validation(t *testing.T) {
	_, err := NewTokenService([]byte("short"), time.Hour)
	assert.Error(t, err)

	_, err = NewTokenService(testKey(), 0)
	assert.Error(t, err)

	svc, err := NewTokenService(testKey(), time.Hour)
	require.NoError(t, err)
	_, _, err = svc.Issue(" ")
	assert.True(t, errors.Is(err, errors.ErrValidation))
}

func TestLoadOrGenerateKey(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")

	key, err := LoadOrGenerateKey(dir)
	require.NoError(t, err)
	assert.Len(t, key, keySize)

	info, err := os.Stat(filepath.Join(dir, KeyFileName))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	again, err := LoadOrGenerateKey(dir)
	require.NoError(t, err)
	assert.Equal(t, key, again)
}

func TestLoadOrGenerateKey_Malformed(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, KeyFileName), []byte("not hex"), 0o600))

	_, err := LoadOrGenerateKey(dir)
	assert.Error(t, err)

	raw, err := os.ReadFile(filepath.Join(dir, KeyFileName))
	require.NoError(t, err)
	assert.Equal(t, "not hex", string(raw), "a malformed key is never overwritten")
}
