package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/julianstephens/datebook/internal/backup"
	"github.com/julianstephens/datebook/internal/config"
	"github.com/julianstephens/datebook/internal/constants"
	"github.com/julianstephens/datebook/internal/events"
	"github.com/julianstephens/datebook/internal/keyring"
	"github.com/julianstephens/datebook/internal/logger"
	"github.com/julianstephens/datebook/internal/models"
	"github.com/julianstephens/datebook/internal/notifier"
	"github.com/julianstephens/datebook/internal/reminder"
	"github.com/julianstephens/datebook/internal/storage"
	"github.com/julianstephens/datebook/internal/storage/postgres"
	"github.com/julianstephens/datebook/internal/storage/sqlite"
)

// Context is handed to every command's Run method.
type Context struct {
	Backend    storage.Backend
	Events     *events.Store
	Config     *config.Config
	ConfigPath string
	Location   *time.Location
	Out        io.Writer
	Now        func() time.Time

	// Sink overrides the reminder sink built from configuration.
	Sink reminder.Sink
}

// NewContext wires an event store over backend.
func NewContext(backend storage.Backend, cfg *config.Config, configPath string) (*Context, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	return &Context{
		Backend:    backend,
		Events:     events.New(backend),
		Config:     cfg,
		ConfigPath: configPath,
		Location:   loc,
		Out:        os.Stdout,
		Now:        time.Now,
	}, nil
}

// Printf writes to the command output.
func (c *Context) Printf(format string, args ...interface{}) {
	fmt.Fprintf(c.Out, format, args...)
}

// Println writes a line to the command output.
func (c *Context) Println(args ...interface{}) {
	fmt.Fprintln(c.Out, args...)
}

// WarnIfUnsaved tells the user when the last write to storage failed.
// The change only lives in this process in that case.
func (c *Context) WarnIfUnsaved() {
	if err := c.Events.PersistErr(); err != nil {
		c.Printf("⚠ Warning: changes could not be saved: %v\n", err)
	}
}

// PerformAutomaticBackup snapshots local storage files. Failures are only
// logged.
func (c *Context) PerformAutomaticBackup() {
	path := c.Backend.GetConfigPath()
	if IsPostgres(path) {
		return
	}
	if _, err := os.Stat(path); err != nil {
		return
	}
	if _, err := backup.NewManager(path).Create(); err != nil {
		logger.Warn("Automatic backup failed", "error", err)
	}
}

// ProviderConfig returns the stored email provider configuration. A missing
// entry is an empty, unconfigured value.
func (c *Context) ProviderConfig() (models.EmailProviderConfig, error) {
	var cfg models.EmailProviderConfig
	raw, err := c.Backend.Get(constants.ProviderConfigKey)
	if err != nil {
		if errors.Is(err, storage.ErrKeyNotFound) {
			return cfg, nil
		}
		return cfg, err
	}
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return models.EmailProviderConfig{}, fmt.Errorf("stored email provider config is corrupt: %w", err)
	}
	return cfg, nil
}

// SaveProviderConfig persists cfg.
func (c *Context) SaveProviderConfig(cfg models.EmailProviderConfig) error {
	data, err := json.Marshal(cfg)
	if err != nil {
		return err
	}
	return c.Backend.Set(constants.ProviderConfigKey, data)
}

// Dispatcher builds the reminder sink from the current configuration. The
// templated provider is preferred over SMTP.
func (c *Context) Dispatcher() *notifier.Dispatcher {
	providerCfg, err := c.ProviderConfig()
	if err != nil {
		logger.Warn("Failed to load email provider config", "error", err)
	}

	smtpPassword, err := keyring.GetSMTPPassword()
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		logger.Debug("SMTP password unavailable from keyring", "error", err)
	}

	return notifier.NewDispatcher(
		notifier.NewDesktop(nil),
		c.Config.DesktopEnabled(),
		notifier.NewTemplateSender(c.Config.ProviderEndpoint, providerCfg, nil),
		notifier.NewSMTPSender(c.Config.SMTP, smtpPassword),
	)
}

// ReminderSink returns the sink reminders are delivered through.
func (c *Context) ReminderSink() reminder.Sink {
	if c.Sink != nil {
		return c.Sink
	}
	return c.Dispatcher()
}

// IsPostgres reports whether dsn names a PostgreSQL database.
func IsPostgres(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") ||
		strings.HasPrefix(dsn, "postgresql://") ||
		strings.Contains(dsn, "host=")
}

// ResolveStorage returns the storage DSN to use and whether it came from the
// keyring. An explicit value wins. Otherwise a connection string saved in
// the keyring replaces the default local database.
func ResolveStorage(explicit string, cfg *config.Config) (string, bool) {
	if strings.TrimSpace(explicit) != "" {
		return explicit, false
	}
	if cfg.Storage == constants.DefaultStoragePath {
		if connStr, err := keyring.GetConnectionString(); err == nil && connStr != "" {
			return connStr, true
		}
	}
	return cfg.Storage, false
}

// OpenStorage picks a backend for dsn: PostgreSQL for a connection string,
// a JSON document for a .json path, and SQLite otherwise. Passwords inside a
// connection string are only accepted when it came from the keyring.
func OpenStorage(dsn string, fromKeyring bool) (storage.Backend, error) {
	if IsPostgres(dsn) {
		if _, err := postgres.ValidateConnString(dsn); err != nil {
			if errors.Is(err, postgres.ErrEmbeddedCredentials) && fromKeyring {
				return postgres.New(dsn), nil
			}
			if errors.Is(err, postgres.ErrEmbeddedCredentials) {
				return nil, fmt.Errorf("%w: store the full connection string with 'datebook keyring set', or use PGPASSWORD or .pgpass", err)
			}
			return nil, err
		}
		return postgres.New(dsn), nil
	}

	path, err := config.ExpandPath(dsn)
	if err != nil {
		return nil, err
	}
	if strings.HasSuffix(strings.ToLower(path), ".json") {
		return storage.NewJSONStore(path), nil
	}
	return sqlite.NewStore(path), nil
}
