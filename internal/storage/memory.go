package storage

import (
	"errors"
	"sync"
)

// ErrInjected is returned by a MemoryStore when a failure has been injected.
var ErrInjected = errors.New("injected storage failure")

// MemoryStore is a Backend that lives only in process memory. Read and write
// failures can be switched on to exercise fail-soft paths.
type MemoryStore struct {
	mu        sync.Mutex
	data      map[string][]byte
	FailReads bool
	FailWrite bool
	Writes    int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

func (s *MemoryStore) Init() error  { return nil }
func (s *MemoryStore) Load() error  { return nil }
func (s *MemoryStore) Close() error { return nil }

func (s *MemoryStore) Get(key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailReads {
		return nil, ErrInjected
	}
	v, ok := s.data[key]
	if !ok {
		return nil, ErrKeyNotFound
	}
	return append([]byte(nil), v...), nil
}

func (s *MemoryStore) Set(key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailWrite {
		return ErrInjected
	}
	s.data[key] = append([]byte(nil), value...)
	s.Writes++
	return nil
}

func (s *MemoryStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailWrite {
		return ErrInjected
	}
	delete(s.data, key)
	return nil
}

func (s *MemoryStore) GetConfigPath() string {
	return "memory"
}

// SetRaw stores value without counting it as a write. Tests use it to seed
// corrupt documents.
func (s *MemoryStore) SetRaw(key string, value []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = append([]byte(nil), value...)
}
