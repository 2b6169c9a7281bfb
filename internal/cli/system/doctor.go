package system

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/datebook/internal/cli"
	"github.com/julianstephens/datebook/internal/constants"
	"github.com/julianstephens/datebook/internal/keyring"
	"github.com/julianstephens/datebook/internal/models"
	"github.com/julianstephens/datebook/internal/notifier"
	"github.com/julianstephens/datebook/internal/reminder"
	"github.com/julianstephens/datebook/internal/storage"
)

// Swapped in tests.
var (
	trayReachable    = func() error { return notifier.NewDesktop(nil).Reachable() }
	keyringAvailable = keyring.IsAvailable
)

type DoctorCmd struct{}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	ctx.Println("Running diagnostics...")
	ctx.Println()

	hasError := false
	fail := func(name string, err error) {
		ctx.Printf("❌ %s: FAIL\n", name)
		ctx.Printf("   Error: %v\n", err)
		hasError = true
	}
	warn := func(name string, err error) {
		ctx.Printf("⚠ %s: WARNING\n", name)
		ctx.Printf("   %v\n", err)
	}
	ok := func(name string) {
		ctx.Printf("✓ %s: OK\n", name)
	}
	skip := func(name, reason string) {
		ctx.Printf("⊘ %s: SKIPPED (%s)\n", name, reason)
	}

	// Check 1: storage reachable
	storageReachable := false
	if err := checkStorageReachable(ctx); err != nil {
		fail("Storage reachable", err)
	} else {
		ok("Storage reachable")
		storageReachable = true
	}

	// Check 2: schema version (only for migrated backends)
	if _, versioned := ctx.Backend.(storage.Versioned); !versioned {
		skip("Schema version", "backend has no schema")
	} else if !storageReachable {
		skip("Schema version", "storage not reachable")
	} else if err := checkSchemaVersion(ctx); err != nil {
		fail("Schema version", err)
	} else {
		ok("Schema version")
	}

	// Check 3: stored events decode and validate
	if storageReachable {
		if err := checkEvents(ctx); err != nil {
			fail("Event data", err)
		} else {
			ok("Event data")
		}
	} else {
		skip("Event data", "storage not reachable")
	}

	// Check 4: poll interval fits inside the narrowest reminder window
	if err := checkPollInterval(ctx); err != nil {
		fail("Poll interval", err)
	} else {
		ok("Poll interval")
	}

	// Check 5: timezone
	if _, err := ctx.Config.Location(); err != nil {
		fail("Timezone", err)
	} else {
		ok("Timezone")
	}

	// Check 6: an email transport is configured (warning only)
	if err := checkEmailTransport(ctx); err != nil {
		warn("Email transport", err)
	} else {
		ok("Email transport")
	}

	// Check 7: tray app reachable (warning only)
	if !ctx.Config.DesktopEnabled() {
		skip("Desktop notifications", "disabled in config")
	} else if err := trayReachable(); err != nil {
		warn("Desktop notifications", err)
	} else {
		ok("Desktop notifications")
	}

	// Check 8: OS keyring (warning only)
	if !keyringAvailable() {
		warn("OS keyring", keyring.ErrKeyringUnavailable)
	} else {
		ok("OS keyring")
	}

	ctx.Println()
	if hasError {
		ctx.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}

	ctx.Println("All diagnostics passed!")
	return nil
}

func checkStorageReachable(ctx *cli.Context) error {
	if err := ctx.Backend.Load(); err != nil {
		return fmt.Errorf("failed to load storage: %w", err)
	}
	if _, err := ctx.Backend.Get(constants.EventsKey); err != nil && !errors.Is(err, storage.ErrKeyNotFound) {
		return fmt.Errorf("failed to read events: %w", err)
	}
	return nil
}

func checkSchemaVersion(ctx *cli.Context) error {
	current, latest, err := ctx.Backend.(storage.Versioned).SchemaVersion()
	if err != nil {
		return err
	}
	if current != latest {
		return fmt.Errorf("schema version %d, expected %d: run '%s init' to migrate", current, latest, constants.AppName)
	}
	return nil
}

func checkEvents(ctx *cli.Context) error {
	raw, err := ctx.Backend.Get(constants.EventsKey)
	if errors.Is(err, storage.ErrKeyNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	var stored []models.Event
	if err := json.Unmarshal(raw, &stored); err != nil {
		return fmt.Errorf("stored events are not valid JSON: %w", err)
	}

	invalid := 0
	seen := make(map[string]bool)
	for _, ev := range stored {
		if seen[ev.ID] {
			return fmt.Errorf("duplicate event ID %s", ev.ID)
		}
		seen[ev.ID] = true

		check := ev.Clone()
		if err := check.Normalize(); err != nil {
			invalid++
		}
	}
	if invalid > 0 {
		return fmt.Errorf("%d of %d event(s) have an invalid title, date, time or email", invalid, len(stored))
	}
	return nil
}

func checkPollInterval(ctx *cli.Context) error {
	d, err := time.ParseDuration(ctx.Config.PollInterval)
	if err != nil {
		return fmt.Errorf("invalid poll_interval %q: %w", ctx.Config.PollInterval, err)
	}
	if d <= 0 || d >= reminder.MaxPollInterval {
		return fmt.Errorf("poll_interval %s must be between 0 and %s", d, reminder.MaxPollInterval)
	}
	return nil
}

func checkEmailTransport(ctx *cli.Context) error {
	providerCfg, err := ctx.ProviderConfig()
	if err != nil {
		return err
	}
	if providerCfg.IsConfigured() || ctx.Config.SMTP.Configured() {
		return nil
	}
	return fmt.Errorf("no email transport configured; reminders will only be shown on the desktop")
}
