package system

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/julianstephens/datebook/internal/cli"
	"github.com/julianstephens/datebook/internal/constants"
	"github.com/julianstephens/datebook/internal/storage"
)

// migratedKeys are copied from --source into the new backend.
var migratedKeys = []string{constants.EventsKey, constants.ProviderConfigKey}

type InitCmd struct {
	Force  bool   `help:"Delete an existing local database before initialization."`
	Source string `help:"Storage path or connection string to copy events from."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	if c.Force && !cli.IsPostgres(ctx.Backend.GetConfigPath()) {
		if err := c.removeExisting(ctx); err != nil {
			return err
		}
	}

	if err := ctx.Backend.Init(); err != nil {
		return err
	}
	ctx.Printf("Initialized %s storage at: %s\n", constants.AppName, ctx.Backend.GetConfigPath())

	if c.Source != "" {
		ctx.Printf("Migrating data from: %s\n", c.Source)
		if err := c.migrateData(ctx); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		ctx.Println("Migration completed successfully!")
	}

	return nil
}

func (c *InitCmd) removeExisting(ctx *cli.Context) error {
	dbPath := ctx.Backend.GetConfigPath()
	if c.Source != "" {
		absDB, errDB := filepath.Abs(dbPath)
		absSource, errSource := filepath.Abs(c.Source)
		if errDB == nil && errSource == nil && absDB == absSource {
			return fmt.Errorf("cannot use --force when source and destination are the same: %s", dbPath)
		}
	}

	if _, err := os.Stat(dbPath); err == nil {
		if err := ctx.Backend.Close(); err != nil {
			return fmt.Errorf("failed to close existing database: %w", err)
		}
		if err := os.Remove(dbPath); err != nil {
			return fmt.Errorf("failed to delete existing database: %w", err)
		}
		ctx.Printf("Deleted existing database at: %s\n", dbPath)
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to access existing database: %w", err)
	}
	return nil
}

func (c *InitCmd) migrateData(ctx *cli.Context) error {
	source, err := cli.OpenStorage(c.Source, false)
	if err != nil {
		return err
	}
	if err := source.Load(); err != nil {
		return fmt.Errorf("failed to load source storage: %w", err)
	}
	defer source.Close()

	for _, key := range migratedKeys {
		value, err := source.Get(key)
		if errors.Is(err, storage.ErrKeyNotFound) {
			ctx.Printf("  Skipping %s (not present)\n", key)
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to read %s from source: %w", key, err)
		}
		if err := ctx.Backend.Set(key, value); err != nil {
			return fmt.Errorf("failed to write %s: %w", key, err)
		}
		ctx.Printf("  Migrated %s\n", key)
	}

	ctx.Events.Load()
	ctx.Printf("    %d event(s) now stored\n", len(ctx.Events.All()))
	return nil
}
