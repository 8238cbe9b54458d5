package store

import (
	"fmt"
	"sync"

	"textbuddy/internal/domain"
)

// UserIDKey is the store key holding the cached subscriber identifier.
const UserIDKey = "TEXTBUDDY_USER_ID_KEY"

// Kind names a store backend in configuration.
type Kind string

const (
	KindMemory Kind = "memory"
	KindFile   Kind = "file"
	KindSealed Kind = "sealed"
	KindSQLite Kind = "sqlite"
)

// Valid reports whether k names a known backend.
func (k Kind) Valid() bool {
	switch k {
	case KindMemory, KindFile, KindSealed, KindSQLite:
		return true
	}
	return false
}

// Memory is a process-local KVStore. Values do not survive a restart.
type Memory struct {
	mu sync.RWMutex
	m  map[string]string
}

// NewMemory returns an empty Memory store.
func NewMemory() *Memory { return &Memory{m: make(map[string]string)} }

func (s *Memory) GetString(key, def string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if v, ok := s.m[key]; ok {
		return v, nil
	}
	return def, nil
}

func (s *Memory) SetString(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[key] = value
	return nil
}

// Open builds the store named by kind rooted at dir. passphrase is only
// used by the sealed store.
func Open(kind Kind, dir, passphrase string) (domain.KVStore, error) {
	switch kind {
	case KindMemory:
		return NewMemory(), nil
	case KindFile:
		return NewFileStore(dir), nil
	case KindSealed:
		return NewSealedFileStore(dir, passphrase)
	case KindSQLite:
		return OpenSQLite(dir)
	default:
		return nil, fmt.Errorf("unknown store kind %q", kind)
	}
}

// Compile-time assertions that each backend implements domain.KVStore.
var (
	_ domain.KVStore = (*Memory)(nil)
	_ domain.KVStore = (*FileStore)(nil)
	_ domain.KVStore = (*SealedFileStore)(nil)
	_ domain.KVStore = (*SQLiteStore)(nil)
)
