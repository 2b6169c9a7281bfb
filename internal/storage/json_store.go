package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	apperrors "github.com/julianstephens/datebook/internal/errors"
	"github.com/julianstephens/datebook/internal/logger"
)

// JSONStore keeps every key in a single JSON document on disk.
type JSONStore struct {
	mu   sync.Mutex
	path string
	doc  map[string]json.RawMessage
}

func NewJSONStore(path string) *JSONStore {
	return &JSONStore{
		path: path,
	}
}

func (s *JSONStore) Init() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(s.path); err == nil {
		return s.Load()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc = make(map[string]json.RawMessage)
	return s.save()
}

// Load reads the document from disk. A missing file is an empty document.
// A corrupt file is moved aside and logged, and the store starts empty.
func (s *JSONStore) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.readDoc()
	if errors.Is(err, errCorrupt) {
		s.doc = make(map[string]json.RawMessage)
		s.quarantine(err)
		return nil
	}
	if err != nil {
		s.doc = make(map[string]json.RawMessage)
		return err
	}
	s.doc = doc
	return nil
}

var errCorrupt = errors.New("storage file is not valid JSON")

// readDoc parses the file as it is on disk right now.
func (s *JSONStore) readDoc() (map[string]json.RawMessage, error) {
	doc := make(map[string]json.RawMessage)

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return doc, nil
		}
		return nil, fmt.Errorf("failed to read storage: %w", err)
	}
	if len(data) == 0 {
		return doc, nil
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", errCorrupt, err)
	}
	if doc == nil {
		doc = make(map[string]json.RawMessage)
	}
	return doc, nil
}

func (s *JSONStore) quarantine(cause error) {
	serr := &apperrors.StorageError{Op: "load", Key: s.path, Err: cause}
	aside := fmt.Sprintf("%s.corrupt-%d", s.path, time.Now().Unix())
	if err := os.Rename(s.path, aside); err != nil {
		logger.Warn("Corrupt storage, starting empty", "error", serr, "rename_error", err)
		return
	}
	logger.Warn("Corrupt storage moved aside, starting empty", "error", serr, "moved_to", aside)
}

// sync replaces the cached document with the file on disk so writes from
// other processes are seen. When the file cannot be parsed the cache is kept.
func (s *JSONStore) sync() error {
	doc, err := s.readDoc()
	if err != nil {
		return err
	}
	s.doc = doc
	return nil
}

func (s *JSONStore) Close() error {
	return nil
}

// Get returns the value stored under key as it is on disk.
func (s *JSONStore) Get(key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.doc == nil {
		return nil, ErrNotLoaded
	}
	if err := s.sync(); err != nil {
		return nil, err
	}
	raw, ok := s.doc[key]
	if !ok {
		return nil, ErrKeyNotFound
	}
	out := make([]byte, len(raw))
	copy(out, raw)
	return out, nil
}

// Set writes key. Other keys are taken from the file on disk so concurrent
// writers of different keys do not undo each other.
func (s *JSONStore) Set(key string, value []byte) error {
	if !json.Valid(value) {
		return fmt.Errorf("value for %q is not valid JSON", key)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.doc == nil {
		return ErrNotLoaded
	}
	if err := s.sync(); err != nil {
		logger.Warn("Writing over unreadable storage", "path", s.path, "error", err)
	}
	prev, had := s.doc[key]
	s.doc[key] = append(json.RawMessage(nil), value...)
	if err := s.save(); err != nil {
		if had {
			s.doc[key] = prev
		} else {
			delete(s.doc, key)
		}
		return err
	}
	return nil
}

func (s *JSONStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.doc == nil {
		return ErrNotLoaded
	}
	if err := s.sync(); err != nil {
		logger.Warn("Writing over unreadable storage", "path", s.path, "error", err)
	}
	if _, ok := s.doc[key]; !ok {
		return nil
	}
	delete(s.doc, key)
	return s.save()
}

func (s *JSONStore) GetConfigPath() string {
	return s.path
}

// save writes the document atomically via a temp file and rename.
func (s *JSONStore) save() error {
	data, err := json.MarshalIndent(s.doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize storage: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".datebook-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write storage: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}
	if err := os.Chmod(tmpName, 0600); err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}

	return nil
}
