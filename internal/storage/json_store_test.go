package storage

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func setupTestJSONStore(t *testing.T) (*JSONStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nested", "datebook.json")
	store := NewJSONStore(path)
	if err := store.Init(); err != nil {
		t.Fatalf("failed to initialize test store: %v", err)
	}
	return store, path
}

func TestJSONStore_SetGetRoundTrip(t *testing.T) {
	store, path := setupTestJSONStore(t)

	if _, err := store.Get("calendar_events"); !errors.Is(err, ErrKeyNotFound) {
		t.Fatalf("expected ErrKeyNotFound, got %v", err)
	}

	value := []byte(`[{"id":"a","title":"Dentist"}]`)
	if err := store.Set("calendar_events", value); err != nil {
		t.Fatalf("Set() error: %v", err)
	}

	// A fresh store reading the same file sees the value.
	reopened := NewJSONStore(path)
	if err := reopened.Load(); err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	got, err := reopened.Get("calendar_events")
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if !strings.Contains(string(got), "Dentist") {
		t.Errorf("Get() = %s, want it to contain Dentist", got)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("file permissions = %o, want 0600", perm)
	}
}

func TestJSONStore_RejectsInvalidJSON(t *testing.T) {
	store, _ := setupTestJSONStore(t)
	if err := store.Set("k", []byte("{not json")); err == nil {
		t.Error("expected error for invalid JSON value")
	}
}

func TestJSONStore_Delete(t *testing.T) {
	store, _ := setupTestJSONStore(t)
	if err := store.Set("email_provider", []byte(`{"serviceId":"svc"}`)); err != nil {
		t.Fatal(err)
	}
	if err := store.Delete("email_provider"); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	if _, err := store.Get("email_provider"); !errors.Is(err, ErrKeyNotFound) {
		t.Errorf("expected key to be gone, got %v", err)
	}
	// Deleting a missing key is not an error.
	if err := store.Delete("email_provider"); err != nil {
		t.Errorf("Delete() of missing key error: %v", err)
	}
}

func TestJSONStore_CorruptFileMovedAside(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "datebook.json")
	if err := os.WriteFile(path, []byte("{not json"), 0600); err != nil {
		t.Fatal(err)
	}

	store := NewJSONStore(path)
	if err := store.Load(); err != nil {
		t.Fatalf("Load() of corrupt storage error: %v", err)
	}
	if _, err := store.Get("calendar_events"); !errors.Is(err, ErrKeyNotFound) {
		t.Errorf("expected an empty document, got %v", err)
	}

	matches, _ := filepath.Glob(filepath.Join(dir, "datebook.json.corrupt-*"))
	if len(matches) != 1 {
		t.Errorf("expected corrupt file to be moved aside, found %v", matches)
	}

	// The next write starts a clean document.
	if err := store.Set("calendar_events", []byte(`[]`)); err != nil {
		t.Fatalf("Set() after corrupt load error: %v", err)
	}
	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), "calendar_events") {
		t.Errorf("storage after Set = %s", data)
	}
}

func TestJSONStore_SeesOtherWriters(t *testing.T) {
	path := filepath.Join(t.TempDir(), "datebook.json")
	daemon := NewJSONStore(path)
	cli := NewJSONStore(path)
	if err := daemon.Init(); err != nil {
		t.Fatal(err)
	}
	if err := cli.Load(); err != nil {
		t.Fatal(err)
	}

	if err := daemon.Set("calendar_events", []byte(`[{"id":"a"}]`)); err != nil {
		t.Fatal(err)
	}
	if err := cli.Set("email_provider", []byte(`{"serviceId":"svc"}`)); err != nil {
		t.Fatal(err)
	}

	// The cli write kept the daemon's key, and the daemon reads the cli's.
	got, err := cli.Get("calendar_events")
	if err != nil || !strings.Contains(string(got), `"a"`) {
		t.Errorf("cli Get(calendar_events) = %s, %v", got, err)
	}
	got, err = daemon.Get("email_provider")
	if err != nil || !strings.Contains(string(got), "svc") {
		t.Errorf("daemon Get(email_provider) = %s, %v", got, err)
	}

	if err := cli.Delete("calendar_events"); err != nil {
		t.Fatal(err)
	}
	if _, err := daemon.Get("calendar_events"); !errors.Is(err, ErrKeyNotFound) {
		t.Errorf("daemon still sees a key deleted elsewhere: %v", err)
	}
}

func TestJSONStore_GetOfCorruptFileFails(t *testing.T) {
	store, path := setupTestJSONStore(t)
	if err := store.Set("calendar_events", []byte(`[]`)); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("{{{"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := store.Get("calendar_events"); err == nil {
		t.Error("expected error reading a file corrupted after load")
	}
}

func TestJSONStore_UnloadedStore(t *testing.T) {
	store := NewJSONStore(filepath.Join(t.TempDir(), "x.json"))
	if _, err := store.Get("k"); !errors.Is(err, ErrNotLoaded) {
		t.Errorf("expected ErrNotLoaded, got %v", err)
	}
}
