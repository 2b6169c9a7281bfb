// Package backup keeps rotating snapshots of a local storage file next to it.
// SQLite databases are copied with VACUUM INTO; JSON documents are copied
// byte for byte.
package backup

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/datebook/internal/constants"
	"github.com/julianstephens/datebook/internal/logger"
)

const (
	// MaxBackups is the number of snapshots kept after rotation.
	MaxBackups = 14
	// DirName is the directory, beside the storage file, holding snapshots.
	DirName = "backups"

	stampFormat = "20060102-150405"
)

// ErrNoStorage is returned when the storage file does not exist yet.
var ErrNoStorage = errors.New("storage file does not exist")

// Info describes one snapshot.
type Info struct {
	Path      string
	Timestamp time.Time
	Size      int64
}

// Manager creates, lists and restores snapshots of one storage file.
type Manager struct {
	path string
	dir  string
	ext  string
	now  func() time.Time
}

func NewManager(storagePath string) *Manager {
	return &Manager{
		path: storagePath,
		dir:  filepath.Join(filepath.Dir(storagePath), DirName),
		ext:  strings.ToLower(filepath.Ext(storagePath)),
		now:  time.Now,
	}
}

// Dir returns the snapshot directory.
func (m *Manager) Dir() string {
	return m.dir
}

func (m *Manager) isJSON() bool {
	return m.ext == ".json"
}

func (m *Manager) prefix() string {
	return constants.AppName + "-"
}

// Create snapshots the storage file and prunes snapshots beyond MaxBackups.
func (m *Manager) Create() (string, error) {
	dest, err := m.create()
	if err != nil {
		return "", err
	}
	if err := m.rotate(); err != nil {
		logger.Warn("Failed to rotate old backups", "dir", m.dir, "error", err)
	}
	return dest, nil
}

func (m *Manager) create() (string, error) {
	if _, err := os.Stat(m.path); errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("%w: %s", ErrNoStorage, m.path)
	}
	if err := os.MkdirAll(m.dir, 0700); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	dest, err := m.uniqueName()
	if err != nil {
		return "", err
	}

	if m.isJSON() {
		err = m.verify(m.path)
		if err == nil {
			err = copyFile(m.path, dest)
		}
	} else {
		err = m.vacuumInto(dest)
	}
	if err != nil {
		os.Remove(dest)
		return "", fmt.Errorf("failed to back up %s: %w", m.path, err)
	}

	logger.Info("Backup created", "path", dest)
	return dest, nil
}

func (m *Manager) uniqueName() (string, error) {
	stamp := m.now().Format(stampFormat)
	for i := 0; i < 100; i++ {
		name := m.prefix() + stamp + m.ext
		if i > 0 {
			name = fmt.Sprintf("%s%s-%d%s", m.prefix(), stamp, i, m.ext)
		}
		candidate := filepath.Join(m.dir, name)
		if _, err := os.Stat(candidate); errors.Is(err, os.ErrNotExist) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("failed to generate unique backup filename")
}

func (m *Manager) vacuumInto(dest string) error {
	src, err := sql.Open("sqlite", m.path+"?mode=ro")
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer src.Close()

	var count int
	if err := src.QueryRow("SELECT COUNT(*) FROM sqlite_master").Scan(&count); err != nil {
		return fmt.Errorf("database appears to be corrupted: %w", err)
	}
	if _, err := src.Exec("VACUUM INTO ?", dest); err != nil {
		src.Close()
		return copyFile(m.path, dest)
	}
	return nil
}

// List returns the snapshots, newest first. Files whose names do not parse
// are ignored.
func (m *Manager) List() ([]Info, error) {
	entries, err := os.ReadDir(m.dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	var out []Info
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, m.prefix()) || !strings.HasSuffix(name, m.ext) {
			continue
		}

		stamp := strings.TrimSuffix(strings.TrimPrefix(name, m.prefix()), m.ext)
		if len(stamp) > len(stampFormat) {
			stamp = stamp[:len(stampFormat)]
		}
		ts, err := time.ParseInLocation(stampFormat, stamp, time.Local)
		if err != nil {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}
		out = append(out, Info{
			Path:      filepath.Join(m.dir, name),
			Timestamp: ts,
			Size:      info.Size(),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Timestamp.Equal(out[j].Timestamp) {
			return out[i].Path > out[j].Path
		}
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	return out, nil
}

func (m *Manager) rotate() error {
	backups, err := m.List()
	if err != nil {
		return err
	}
	for i := MaxBackups; i < len(backups); i++ {
		if err := os.Remove(backups[i].Path); err != nil {
			return fmt.Errorf("failed to remove old backup %s: %w", backups[i].Path, err)
		}
	}
	return nil
}

// Restore replaces the storage file with the snapshot at backupPath. The
// current file is snapshotted first and that snapshot's path is returned.
func (m *Manager) Restore(backupPath string) (string, error) {
	if _, err := os.Stat(backupPath); err != nil {
		return "", fmt.Errorf("backup file does not exist: %s", backupPath)
	}
	if err := m.verify(backupPath); err != nil {
		return "", fmt.Errorf("backup file is corrupted or invalid: %w", err)
	}

	var previous string
	if _, err := os.Stat(m.path); err == nil {
		p, err := m.create()
		if err != nil {
			return "", fmt.Errorf("failed to back up current storage before restore: %w", err)
		}
		previous = p
	}

	tmp := m.path + ".restore.tmp"
	if err := copyFile(backupPath, tmp); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("failed to copy backup file: %w", err)
	}
	if err := os.Rename(tmp, m.path); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("failed to restore storage: %w", err)
	}

	logger.Info("Storage restored", "from", backupPath, "previous", previous)
	return previous, nil
}

// verify checks that path holds a readable snapshot of the right kind.
func (m *Manager) verify(path string) error {
	if m.isJSON() {
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		if len(data) > 0 && !json.Valid(data) {
			return errors.New("not a valid JSON document")
		}
		return nil
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return err
	}
	defer db.Close()

	var count int
	return db.QueryRow("SELECT COUNT(*) FROM sqlite_master").Scan(&count)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	if err := out.Sync(); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
