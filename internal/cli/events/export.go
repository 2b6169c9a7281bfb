package events

import (
	"fmt"
	"os"

	"github.com/julianstephens/datebook/internal/cli"
	"github.com/julianstephens/datebook/internal/config"
	"github.com/julianstephens/datebook/internal/ics"
)

type ExportCmd struct {
	File string `arg:"" help:"Path of the .ics file to write."`
}

func (c *ExportCmd) Run(ctx *cli.Context) error {
	path, err := config.ExpandPath(c.File)
	if err != nil {
		return err
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	n, err := ics.Export(f, ctx.Events.All(), ctx.Location, ctx.Now())
	if err != nil {
		return fmt.Errorf("failed to export events: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	ctx.Printf("✓ Exported %d event(s) to %s\n", n, path)
	return nil
}
