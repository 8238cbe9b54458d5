// Package store provides persistence for the SDK's locally cached values.
//
// It contains concrete implementations of domain.KVStore. The cached
// subscriber identifier lives under UserIDKey. All implementations are
// concurrency-safe.
//
// The package includes stores for:
//   - Process memory (Memory), for tests and ephemeral hosts
//   - A JSON file written atomically (FileStore)
//   - A passphrase-sealed JSON file (SealedFileStore)
//   - An SQLite database (SQLiteStore)
package store
