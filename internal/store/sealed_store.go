package store

import (
	"errors"
	"path/filepath"
	"sync"
)

const sealedFile = "prefs.json.enc"

// ErrNoPassphrase is returned when a sealed store is opened without a passphrase.
var ErrNoPassphrase = errors.New("sealed store requires a passphrase")

// SealedFileStore keeps string preferences on disk encrypted under a
// passphrase (scrypt + ChaCha20-Poly1305). Every write re-seals the whole
// map with a fresh salt and nonce.
type SealedFileStore struct {
	dir        string
	passphrase string
	kdf        kdf
	mu         sync.Mutex
}

// NewSealedFileStore returns a SealedFileStore rooted at dir.
func NewSealedFileStore(dir, passphrase string) (*SealedFileStore, error) {
	if passphrase == "" {
		return nil, ErrNoPassphrase
	}
	return &SealedFileStore{dir: dir, passphrase: passphrase, kdf: defaultKDF()}, nil
}

// GetString returns the value stored under key, or def when absent.
func (s *SealedFileStore) GetString(key, def string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.load()
	if err != nil {
		return def, err
	}
	if v, ok := m[key]; ok {
		return v, nil
	}
	return def, nil
}

// SetString stores value under key.
func (s *SealedFileStore) SetString(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.load()
	if err != nil {
		return err
	}
	m[key] = value
	sealed, err := sealPrefs(s.passphrase, m, s.kdf)
	if err != nil {
		return err
	}
	return writeFile(filepath.Join(s.dir, sealedFile), sealed, 0o600)
}

func (s *SealedFileStore) load() (map[string]string, error) {
	b, err := readFile(filepath.Join(s.dir, sealedFile))
	if err != nil {
		return nil, err
	}
	if b == nil {
		return make(map[string]string), nil
	}
	return openPrefs(s.passphrase, b)
}
