package backup

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	_ "modernc.org/sqlite"
)

func setupTestDB(t *testing.T) string {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "datebook.db")

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	defer db.Close()

	if _, err := db.Exec(`CREATE TABLE kv (key TEXT PRIMARY KEY, value BLOB)`); err != nil {
		t.Fatalf("failed to create test table: %v", err)
	}
	if _, err := db.Exec(`INSERT INTO kv (key, value) VALUES ('events', '[]')`); err != nil {
		t.Fatalf("failed to insert test data: %v", err)
	}
	return dbPath
}

func setupTestJSON(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "datebook.json")
	if err := os.WriteFile(path, []byte(body), 0600); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}
	return path
}

func fixedClock(start time.Time) func() time.Time {
	n := 0
	return func() time.Time {
		t := start.Add(time.Duration(n) * time.Minute)
		n++
		return t
	}
}

func countRows(t *testing.T, path string) int {
	t.Helper()
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer db.Close()

	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM kv").Scan(&n); err != nil {
		t.Fatalf("query %s: %v", path, err)
	}
	return n
}

func TestCreate_SQLite(t *testing.T) {
	dbPath := setupTestDB(t)

	mgr := NewManager(dbPath)
	backupPath, err := mgr.Create()
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if filepath.Dir(backupPath) != filepath.Join(filepath.Dir(dbPath), DirName) {
		t.Errorf("backup written to %s, want under %s", backupPath, mgr.Dir())
	}
	if filepath.Ext(backupPath) != ".db" {
		t.Errorf("backup extension = %s, want .db", filepath.Ext(backupPath))
	}
	if n := countRows(t, backupPath); n != 1 {
		t.Errorf("backup has %d rows, want 1", n)
	}
}

func TestCreate_JSON(t *testing.T) {
	path := setupTestJSON(t, `{"events":[]}`)

	mgr := NewManager(path)
	backupPath, err := mgr.Create()
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	data, err := os.ReadFile(backupPath)
	if err != nil {
		t.Fatalf("read backup: %v", err)
	}
	if string(data) != `{"events":[]}` {
		t.Errorf("backup content = %q", data)
	}
}

func TestCreate_InvalidJSON(t *testing.T) {
	path := setupTestJSON(t, `{"events":`)

	if _, err := NewManager(path).Create(); err == nil {
		t.Error("expected error backing up a corrupt JSON file")
	}
}

func TestCreate_MissingStorage(t *testing.T) {
	mgr := NewManager(filepath.Join(t.TempDir(), "missing.db"))
	if _, err := mgr.Create(); !errors.Is(err, ErrNoStorage) {
		t.Errorf("expected ErrNoStorage, got %v", err)
	}
}

func TestCreate_UniqueNames(t *testing.T) {
	dbPath := setupTestDB(t)

	mgr := NewManager(dbPath)
	now := time.Date(2026, 2, 9, 12, 0, 0, 0, time.Local)
	mgr.now = func() time.Time { return now }

	first, err := mgr.Create()
	if err != nil {
		t.Fatalf("first Create failed: %v", err)
	}
	second, err := mgr.Create()
	if err != nil {
		t.Fatalf("second Create failed: %v", err)
	}
	if first == second {
		t.Errorf("both backups written to %s", first)
	}

	backups, err := mgr.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(backups) != 2 {
		t.Errorf("expected 2 backups, got %d", len(backups))
	}
}

func TestList(t *testing.T) {
	dbPath := setupTestDB(t)

	mgr := NewManager(dbPath)
	mgr.now = fixedClock(time.Date(2026, 2, 9, 12, 0, 0, 0, time.Local))

	for i := 0; i < 3; i++ {
		if _, err := mgr.Create(); err != nil {
			t.Fatalf("Create %d failed: %v", i, err)
		}
	}

	// Files that are not backups are ignored.
	os.WriteFile(filepath.Join(mgr.Dir(), "notes.txt"), []byte("x"), 0600)
	os.WriteFile(filepath.Join(mgr.Dir(), "datebook-garbage.db"), []byte("x"), 0600)

	backups, err := mgr.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(backups) != 3 {
		t.Fatalf("expected 3 backups, got %d", len(backups))
	}
	for i := 1; i < len(backups); i++ {
		if !backups[i-1].Timestamp.After(backups[i].Timestamp) {
			t.Errorf("backups not sorted newest first: %v before %v", backups[i-1].Timestamp, backups[i].Timestamp)
		}
	}
}

func TestList_NoDirectory(t *testing.T) {
	mgr := NewManager(setupTestDB(t))
	backups, err := mgr.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(backups) != 0 {
		t.Errorf("expected no backups, got %d", len(backups))
	}
}

func TestRotation(t *testing.T) {
	dbPath := setupTestDB(t)

	mgr := NewManager(dbPath)
	mgr.now = fixedClock(time.Date(2026, 2, 9, 12, 0, 0, 0, time.Local))

	var newest string
	for i := 0; i < MaxBackups+3; i++ {
		p, err := mgr.Create()
		if err != nil {
			t.Fatalf("Create %d failed: %v", i, err)
		}
		newest = p
	}

	backups, err := mgr.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(backups) != MaxBackups {
		t.Errorf("expected %d backups after rotation, got %d", MaxBackups, len(backups))
	}
	if backups[0].Path != newest {
		t.Errorf("newest backup = %s, want %s", backups[0].Path, newest)
	}
}

func TestRestore_SQLite(t *testing.T) {
	dbPath := setupTestDB(t)

	mgr := NewManager(dbPath)
	mgr.now = fixedClock(time.Date(2026, 2, 9, 12, 0, 0, 0, time.Local))

	backupPath, err := mgr.Create()
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	for i := 0; i < 3; i++ {
		if _, err := db.Exec("INSERT INTO kv (key, value) VALUES (?, 'x')", fmt.Sprintf("k%d", i)); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}
	db.Close()

	previous, err := mgr.Restore(backupPath)
	if err != nil {
		t.Fatalf("Restore failed: %v", err)
	}
	if n := countRows(t, dbPath); n != 1 {
		t.Errorf("restored database has %d rows, want 1", n)
	}
	if previous == "" {
		t.Fatal("expected a pre-restore backup")
	}
	if n := countRows(t, previous); n != 4 {
		t.Errorf("pre-restore backup has %d rows, want 4", n)
	}
}

func TestRestore_JSON(t *testing.T) {
	path := setupTestJSON(t, `{"events":[{"id":"a"}]}`)

	mgr := NewManager(path)
	mgr.now = fixedClock(time.Date(2026, 2, 9, 12, 0, 0, 0, time.Local))

	backupPath, err := mgr.Create()
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := os.WriteFile(path, []byte(`{"events":[]}`), 0600); err != nil {
		t.Fatal(err)
	}

	if _, err := mgr.Restore(backupPath); err != nil {
		t.Fatalf("Restore failed: %v", err)
	}
	data, _ := os.ReadFile(path)
	if string(data) != `{"events":[{"id":"a"}]}` {
		t.Errorf("restored content = %q", data)
	}
}

func TestRestore_InvalidBackup(t *testing.T) {
	path := setupTestJSON(t, `{"events":[]}`)
	mgr := NewManager(path)

	bad := filepath.Join(t.TempDir(), "bad.json")
	os.WriteFile(bad, []byte("not json"), 0600)

	if _, err := mgr.Restore(bad); err == nil {
		t.Error("expected error restoring an invalid backup")
	}
	if _, err := mgr.Restore(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error restoring a missing backup")
	}

	data, _ := os.ReadFile(path)
	if string(data) != `{"events":[]}` {
		t.Errorf("storage modified by failed restore: %q", data)
	}
}
