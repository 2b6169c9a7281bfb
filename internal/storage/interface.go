package storage

import "errors"

// ErrKeyNotFound is returned by Get when the key has never been written.
var ErrKeyNotFound = errors.New("key not found")

// ErrNotLoaded is returned when a backend is used before Init or Load.
var ErrNotLoaded = errors.New("storage not loaded")

// Backend is a small key-value store. Values are opaque JSON documents
// owned by the caller.
type Backend interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
	Delete(key string) error

	// Utils
	GetConfigPath() string
}

// Versioned is implemented by backends with a migrated schema.
type Versioned interface {
	SchemaVersion() (current, latest int, err error)
}
