package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/julianstephens/datebook/internal/constants"
)

// SMTPConfig describes the fallback SMTP transport for email reminders.
// The password is never written to the config file.
type SMTPConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	From     string `yaml:"from"`

	// Password is only ever set from DATEBOOK_SMTP_PASSWORD.
	Password string `yaml:"-"`
}

// Configured reports whether enough is set to attempt an SMTP send.
func (s SMTPConfig) Configured() bool {
	return strings.TrimSpace(s.Host) != "" && strings.TrimSpace(s.From) != ""
}

// Config is the top-level application configuration.
type Config struct {
	// Storage selects the backend: a postgres:// URL, a .json file, or a SQLite path.
	Storage string `yaml:"storage"`

	// Timezone is the IANA zone event dates and times are interpreted in.
	// Empty or "Local" means the host zone.
	Timezone string `yaml:"timezone"`

	// PollInterval is how often the daemon checks for due reminders.
	PollInterval string `yaml:"poll_interval"`

	UpcomingLimit int `yaml:"upcoming_limit"`

	// DesktopNotifications gates the tray webhook. Nil means enabled.
	DesktopNotifications *bool `yaml:"desktop_notifications,omitempty"`

	Debug bool `yaml:"debug"`

	// ProviderEndpoint is the templated email provider's send URL.
	ProviderEndpoint string `yaml:"provider_endpoint"`

	SMTP SMTPConfig `yaml:"smtp"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	enabled := true
	return &Config{
		Storage:              constants.DefaultStoragePath,
		Timezone:             "Local",
		PollInterval:         constants.DefaultPollInterval.String(),
		UpcomingLimit:        constants.DefaultUpcomingMax,
		DesktopNotifications: &enabled,
		ProviderEndpoint:     constants.DefaultProviderEndpoint,
		SMTP: SMTPConfig{
			Port: constants.DefaultSMTPPort,
		},
	}
}

// Normalize fills in zero values so partially written files still work.
func (c *Config) Normalize() {
	c.Storage = strings.TrimSpace(c.Storage)
	if c.Storage == "" {
		c.Storage = constants.DefaultStoragePath
	}
	if strings.TrimSpace(c.Timezone) == "" {
		c.Timezone = "Local"
	}
	if _, err := time.ParseDuration(c.PollInterval); err != nil {
		c.PollInterval = constants.DefaultPollInterval.String()
	}
	if c.UpcomingLimit <= 0 {
		c.UpcomingLimit = constants.DefaultUpcomingMax
	}
	if c.DesktopNotifications == nil {
		enabled := true
		c.DesktopNotifications = &enabled
	}
	if strings.TrimSpace(c.ProviderEndpoint) == "" {
		c.ProviderEndpoint = constants.DefaultProviderEndpoint
	}
	if c.SMTP.Port <= 0 {
		c.SMTP.Port = constants.DefaultSMTPPort
	}
}

// DesktopEnabled reports whether desktop notifications may be shown.
func (c *Config) DesktopEnabled() bool {
	return c.DesktopNotifications == nil || *c.DesktopNotifications
}

// SetDesktopEnabled toggles desktop notifications.
func (c *Config) SetDesktopEnabled(enabled bool) {
	c.DesktopNotifications = &enabled
}

// Interval returns the parsed poll interval.
func (c *Config) Interval() time.Duration {
	d, err := time.ParseDuration(c.PollInterval)
	if err != nil {
		return constants.DefaultPollInterval
	}
	return d
}

// Location resolves Timezone.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// Load reads the YAML config at path. On first run it writes the defaults
// with 0600 permissions and returns them. Environment overrides are applied
// last and are never saved back.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	cfg, err := read(path)
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv()
	return cfg, nil
}

func read(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
				return cfg, err
			}
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	cfg.Normalize()
	return cfg, nil
}

// Save writes cfg to path atomically with 0600 permissions.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".datebook-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

// LoadDotEnv loads KEY=VALUE pairs from the given files into the process
// environment without overriding variables that are already set. Missing
// files are ignored.
func LoadDotEnv(paths ...string) error {
	var existing []string
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			existing = append(existing, p)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	return godotenv.Load(existing...)
}

// ApplyEnv overrides fields from DATEBOOK_* environment variables.
func (c *Config) ApplyEnv() {
	if v, ok := lookup("DATEBOOK_STORAGE"); ok {
		c.Storage = v
	}
	if v, ok := lookup("DATEBOOK_TIMEZONE"); ok {
		c.Timezone = v
	}
	if v, ok := lookup("DATEBOOK_POLL_INTERVAL"); ok {
		if _, err := time.ParseDuration(v); err == nil {
			c.PollInterval = v
		}
	}
	if v, ok := lookup("DATEBOOK_DEBUG"); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Debug = b
		}
	}
	if v, ok := lookup("DATEBOOK_DESKTOP_NOTIFICATIONS"); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			c.SetDesktopEnabled(b)
		}
	}
	if v, ok := lookup("DATEBOOK_PROVIDER_ENDPOINT"); ok {
		c.ProviderEndpoint = v
	}
	if v, ok := lookup("DATEBOOK_SMTP_HOST"); ok {
		c.SMTP.Host = v
	}
	if v, ok := lookup("DATEBOOK_SMTP_PORT"); ok {
		if p, err := strconv.Atoi(v); err == nil && p > 0 {
			c.SMTP.Port = p
		}
	}
	if v, ok := lookup("DATEBOOK_SMTP_USERNAME"); ok {
		c.SMTP.Username = v
	}
	if v, ok := lookup("DATEBOOK_SMTP_FROM"); ok {
		c.SMTP.From = v
	}
	if v, ok := lookup("DATEBOOK_SMTP_PASSWORD"); ok {
		c.SMTP.Password = v
	}
}

func lookup(key string) (string, bool) {
	v, ok := os.LookupEnv(key)
	if !ok {
		return "", false
	}
	v = strings.TrimSpace(v)
	return v, v != ""
}

// ExpandPath resolves a leading ~ to the user's home directory.
func ExpandPath(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to resolve home directory: %w", err)
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
	}
	return path, nil
}
