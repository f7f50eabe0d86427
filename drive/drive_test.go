package drive

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func TestCachedToken(t *testing.T) {
	dir := t.TempDir()

	t.Run("valid cache", func(t *testing.T) {
		tok := &oauth2.Token{
			AccessToken:  "access-1",
			RefreshToken: "refresh-1",
			TokenType:    "Bearer",
			Expiry:       time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		}
		tokPath := filepath.Join(dir, "token.json")
		cacheToken(tokPath, tok)

		got, ok := cachedToken(tokPath)
		require.True(t, ok)
		assert.Equal(t, "access-1", got.AccessToken)
		assert.Equal(t, "refresh-1", got.RefreshToken)
		assert.True(t, got.Expiry.Equal(tok.Expiry))
	})

	t.Run("missing cache", func(t *testing.T) {
		_, ok := cachedToken(filepath.Join(dir, "absent.json"))
		assert.False(t, ok)
	})

	t.Run("undecodable cache falls through to consent", func(t *testing.T) {
		tokPath := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(tokPath, []byte("{not json"), 0600))
		_, ok := cachedToken(tokPath)
		assert.False(t, ok)
	})

	t.Run("empty token object is not a usable cache", func(t *testing.T) {
		tokPath := filepath.Join(dir, "empty.json")
		require.NoError(t, os.WriteFile(tokPath, []byte("{}"), 0600))
		_, ok := cachedToken(tokPath)
		assert.False(t, ok)
	})
}

func TestNewMissingClientSecret(t *testing.T) {
	_, err := New(context.Background(), t.TempDir())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUpload))
}

func TestNewInvalidClientSecret(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "credentials.json"), []byte("not a client secret"), 0600))

	_, err := New(context.Background(), dir)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUpload))
}
