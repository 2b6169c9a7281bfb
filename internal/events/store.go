package events

import (
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/datebook/internal/constants"
	apperrors "github.com/julianstephens/datebook/internal/errors"
	"github.com/julianstephens/datebook/internal/logger"
	"github.com/julianstephens/datebook/internal/models"
	"github.com/julianstephens/datebook/internal/storage"
)

// EventPatch holds the fields Update may change. Nil fields are left alone.
type EventPatch struct {
	Title *string
	Date  *string
	Time  *string
	Email *string
}

// Store owns the event collection and writes every change through to the
// backend. All methods are safe for concurrent use.
type Store struct {
	mu         sync.Mutex
	backend    storage.Backend
	events     []models.Event
	persistErr error

	now   func() time.Time
	newID func() string
}

func New(backend storage.Backend) *Store {
	return &Store{
		backend: backend,
		now:     time.Now,
		newID:   func() string { return uuid.New().String() },
	}
}

// Load replaces the in-memory collection with the persisted one. A missing
// key is an empty collection. Unreadable or corrupt storage is logged and
// also yields an empty collection.
func (s *Store) Load() []models.Event {
	s.mu.Lock()
	defer s.mu.Unlock()

	loaded, err := s.read()
	if err != nil {
		logger.Warn("Failed to load events, starting empty", "error", err)
		loaded = nil
	}
	s.events = loaded
	return s.snapshot()
}

// read decodes the persisted collection. A missing key is not an error.
func (s *Store) read() ([]models.Event, error) {
	raw, err := s.backend.Get(constants.EventsKey)
	if err != nil {
		if errors.Is(err, storage.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, &apperrors.StorageError{Op: "read", Key: constants.EventsKey, Err: err}
	}

	var loaded []models.Event
	if err := json.Unmarshal(raw, &loaded); err != nil {
		return nil, &apperrors.StorageError{Op: "decode", Key: constants.EventsKey, Err: err}
	}
	for i := range loaded {
		if loaded[i].NotificationsSent == nil {
			loaded[i].NotificationsSent = models.NewNotificationsSent()
		}
	}
	return loaded, nil
}

// Persist writes the full collection to the backend. On failure the error is
// logged and memory stays authoritative.
func (s *Store) Persist() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.persist()
}

func (s *Store) persist() error {
	events := s.events
	if events == nil {
		events = []models.Event{}
	}
	data, err := json.Marshal(events)
	if err == nil {
		err = s.backend.Set(constants.EventsKey, data)
	}
	if err != nil {
		s.persistErr = &apperrors.StorageError{Op: "write", Key: constants.EventsKey, Err: err}
		logger.Warn("Failed to persist events", "error", s.persistErr)
		return s.persistErr
	}
	s.persistErr = nil
	return nil
}

// PersistErr returns the outcome of the most recent write.
func (s *Store) PersistErr() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.persistErr
}

// Create validates and appends a new event with every reminder pending.
func (s *Store) Create(title, date, tm, email string) (models.Event, error) {
	ev := models.Event{
		Title: title,
		Date:  date,
		Time:  tm,
		Email: email,
	}
	if err := ev.Normalize(); err != nil {
		return models.Event{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.refresh()

	ev.ID = s.newID()
	ev.NotificationsSent = models.NewNotificationsSent()
	ev.CreatedAt = s.now()

	s.events = append(s.events, ev)
	_ = s.persist()

	logger.Debug("Event created", "id", ev.ID, "date", ev.Date, "time", ev.Time)
	return ev.Clone(), nil
}

// Update merges the non-nil fields of patch into the event with id. The id,
// creation time and reminder flags never change.
func (s *Store) Update(id string, patch EventPatch) (models.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refresh()

	i := s.indexOf(id)
	if i < 0 {
		return models.Event{}, apperrors.ErrNotFound
	}

	merged := s.events[i].Clone()
	if patch.Title != nil {
		merged.Title = *patch.Title
	}
	if patch.Date != nil {
		merged.Date = *patch.Date
	}
	if patch.Time != nil {
		merged.Time = *patch.Time
	}
	if patch.Email != nil {
		merged.Email = *patch.Email
	}
	if err := merged.Normalize(); err != nil {
		return models.Event{}, err
	}

	s.events[i] = merged
	_ = s.persist()
	return merged.Clone(), nil
}

// Delete removes the event with id and reports whether it existed.
func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refresh()

	i := s.indexOf(id)
	if i < 0 {
		return false
	}
	s.events = append(s.events[:i], s.events[i+1:]...)
	_ = s.persist()
	return true
}

// MarkSent latches the reminder flag for label. Marking an already sent
// reminder is a no-op that does not write.
func (s *Store) MarkSent(id string, label models.OffsetLabel) (models.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refresh()

	i := s.indexOf(id)
	if i < 0 {
		return models.Event{}, apperrors.ErrNotFound
	}
	if s.events[i].NotificationsSent == nil {
		s.events[i].NotificationsSent = models.NewNotificationsSent()
	}
	if !s.events[i].NotificationsSent[label] {
		s.events[i].NotificationsSent[label] = true
		_ = s.persist()
	}
	return s.events[i].Clone(), nil
}

// Refresh re-reads the backend so changes made by other processes become
// visible. A flag set in memory stays set. If the last write failed, memory
// is written back first instead of being overwritten.
func (s *Store) Refresh() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refresh()
}

// refresh is Refresh with s.mu held. Mutations call it first so a stale copy
// never overwrites events written by another process.
func (s *Store) refresh() {
	if s.persistErr != nil {
		if err := s.persist(); err != nil {
			return
		}
	}

	loaded, err := s.read()
	if err != nil {
		logger.Warn("Failed to refresh events, keeping in-memory copy", "error", err)
		return
	}

	sent := make(map[string]map[models.OffsetLabel]bool, len(s.events))
	for _, ev := range s.events {
		sent[ev.ID] = ev.NotificationsSent
	}

	dirty := false
	for i := range loaded {
		for label, done := range sent[loaded[i].ID] {
			if done && !loaded[i].NotificationsSent[label] {
				loaded[i].NotificationsSent[label] = true
				dirty = true
			}
		}
	}
	s.events = loaded

	if dirty {
		_ = s.persist()
	}
}

// Get returns a copy of the event with id.
func (s *Store) Get(id string) (models.Event, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return models.Event{}, false
	}
	return s.events[i].Clone(), true
}

// All returns a copy of the collection in insertion order.
func (s *Store) All() []models.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

func (s *Store) snapshot() []models.Event {
	out := make([]models.Event, len(s.events))
	for i, ev := range s.events {
		out[i] = ev.Clone()
	}
	return out
}

func (s *Store) indexOf(id string) int {
	for i := range s.events {
		if s.events[i].ID == id {
			return i
		}
	}
	return -1
}
