package store

import (
	"path/filepath"
	"sync"
)

const prefsFile = "prefs.json"

// FileStore keeps string preferences in a JSON object on disk.
type FileStore struct {
	dir string
	mu  sync.Mutex
}

// NewFileStore returns a FileStore rooted at dir.
func NewFileStore(dir string) *FileStore { return &FileStore{dir: dir} }

// GetString returns the value stored under key, or def when absent.
func (s *FileStore) GetString(key, def string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m := make(map[string]string)
	if err := readJSON(filepath.Join(s.dir, prefsFile), &m); err != nil {
		return def, err
	}
	if v, ok := m[key]; ok {
		return v, nil
	}
	return def, nil
}

// SetString stores value under key.
func (s *FileStore) SetString(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := filepath.Join(s.dir, prefsFile)
	m := make(map[string]string)
	if err := readJSON(path, &m); err != nil {
		return err
	}
	m[key] = value
	return writeJSON(path, m, 0o600)
}
