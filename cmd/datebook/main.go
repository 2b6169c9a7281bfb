package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/datebook/internal/cli"
	"github.com/julianstephens/datebook/internal/cli/backups"
	"github.com/julianstephens/datebook/internal/cli/email"
	"github.com/julianstephens/datebook/internal/cli/events"
	"github.com/julianstephens/datebook/internal/cli/reminders"
	"github.com/julianstephens/datebook/internal/cli/system"
	"github.com/julianstephens/datebook/internal/config"
	"github.com/julianstephens/datebook/internal/constants"
	apperrors "github.com/julianstephens/datebook/internal/errors"
	"github.com/julianstephens/datebook/internal/logger"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"Path to the YAML config file." type:"path" default:"${config_file}"`
	Storage string `help:"Storage path (.db for SQLite, .json for a JSON file) or PostgreSQL connection string. Overrides the config file. PostgreSQL credentials must NOT be embedded; use the OS keyring, PGPASSWORD or .pgpass."`
	Debug   bool   `help:"Log at debug level and copy logs to stderr."`

	Init     system.InitCmd      `cmd:"" help:"Initialize datebook storage."`
	Doctor   system.DoctorCmd    `cmd:"" help:"Run health checks and diagnostics."`
	Tui      system.TuiCmd       `cmd:"" help:"Open the interactive calendar." default:"1"`
	Keyring  system.KeyringCmd   `cmd:"" help:"Manage the PostgreSQL connection string in the OS keyring."`
	Backup   backups.BackupCmd   `cmd:"" help:"Create, list and restore storage backups."`
	Add      events.AddCmd       `cmd:"" help:"Add an event."`
	Edit     events.EditCmd      `cmd:"" help:"Edit an event."`
	Delete   events.DeleteCmd    `cmd:"" help:"Delete an event."`
	List     events.ListCmd      `cmd:"" help:"List all events."`
	Day      events.DayCmd       `cmd:"" help:"Show the events on a day."`
	Upcoming events.UpcomingCmd  `cmd:"" help:"Show upcoming events with a countdown."`
	Month    events.MonthCmd     `cmd:"" help:"Show a month calendar."`
	Export   events.ExportCmd    `cmd:"" help:"Export events to an iCalendar file."`
	Import   events.ImportCmd    `cmd:"" help:"Import events from an iCalendar file."`
	Remind   reminders.RemindCmd `cmd:"" help:"Send the reminders that are due now."`
	Daemon   reminders.DaemonCmd `cmd:"" help:"Run the reminder scheduler until interrupted."`
	Email    email.EmailCmd      `cmd:"" help:"Manage the email provider."`

	SMTPPassword email.SMTPPasswordCmd `cmd:"" name:"smtp-password" help:"Manage the SMTP password in the OS keyring."`
	Inspect      system.DebugCmd       `cmd:"" name:"debug" help:"Inspect raw storage."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Personal calendar with email and desktop reminders"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version":     constants.Version,
			"config_file": constants.DefaultConfigFile,
		},
	)

	configPath, err := config.ExpandPath(CLI.Config)
	if err != nil {
		apperrors.Fatal(err)
	}
	configDir := filepath.Dir(configPath)

	if err := config.LoadDotEnv(".env", filepath.Join(configDir, ".env")); err != nil {
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load .env: %v\n", err)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		apperrors.Fatal(err)
	}
	if CLI.Debug {
		cfg.Debug = true
	}

	if err := logger.Init(logger.Config{Debug: cfg.Debug, ConfigDir: configDir}); err != nil {
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to initialize logging: %v\n", err)
	}

	dsn, fromKeyring := cli.ResolveStorage(CLI.Storage, cfg)
	backend, err := cli.OpenStorage(dsn, fromKeyring)
	if err != nil {
		apperrors.Fatal(err)
	}
	defer backend.Close()

	appCtx, err := cli.NewContext(backend, cfg, configPath)
	if err != nil {
		apperrors.Fatal(err)
	}

	if needsStorage(ctx.Command()) {
		if err := backend.Load(); err != nil {
			backend.Close()
			apperrors.Fatal(err)
		}
		appCtx.Events.Load()
	}

	logger.Debug("Running command", "command", ctx.Command(), "storage", backend.GetConfigPath())

	if err := ctx.Run(appCtx); err != nil {
		backend.Close()
		apperrors.Fatal(err)
	}
}

// needsStorage reports whether command reads events. Init creates the
// storage itself and the keyring commands never touch it.
func needsStorage(command string) bool {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return true
	}
	switch fields[0] {
	case "init", "keyring", "smtp-password":
		return false
	}
	return true
}
