package session

import (
	"encoding/json"
	"os"

	"sjsage522/profilescout/services/browser"
)

// Store persists authentication cookies between runs.
type Store interface {
	// Load returns the saved cookies, or (nil, nil) when nothing is saved yet.
	Load() ([]browser.Cookie, error)

	// Save overwrites the saved cookies.
	Save(cookies []browser.Cookie) error
}

// FileStore implements Store as a JSON file next to the binary.
type FileStore struct {
	path string
}

// NewFileStore creates a file-backed cookie store
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load reads cookies from the file; a missing file is not an error
func (f *FileStore) Load() ([]browser.Cookie, error) {
	data, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var cookies []browser.Cookie
	if err := json.Unmarshal(data, &cookies); err != nil {
		return nil, err
	}
	return cookies, nil
}

// Save writes cookies to the file, replacing any previous content
func (f *FileStore) Save(cookies []browser.Cookie) error {
	data, err := json.MarshalIndent(cookies, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(f.path, data, 0600)
}
