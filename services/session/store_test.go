package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sjsage522/profilescout/services/browser"
)

func TestFileStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cookies.json")
	store := NewFileStore(path)

	// Missing file is an empty store, not an error
	cookies, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, cookies)

	saved := []browser.Cookie{
		{Name: "li_at", Value: "token", Domain: ".linkedin.com", Path: "/", Secure: true, HTTPOnly: true},
		{Name: "JSESSIONID", Value: "ajax:123", Domain: ".www.linkedin.com", Path: "/"},
	}
	require.NoError(t, store.Save(saved))

	cookies, err = store.Load()
	require.NoError(t, err)
	assert.Equal(t, saved, cookies)
}

func TestFileStoreCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cookies.json")
	store := NewFileStore(path)
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0600))

	_, err := store.Load()
	assert.Error(t, err)
}
