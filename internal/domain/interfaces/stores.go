package interfaces

// KVStore persists small string values across process restarts.
type KVStore interface {
	GetString(key, def string) (string, error)
	SetString(key, value string) error
}
