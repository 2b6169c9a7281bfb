package events

import (
	"fmt"
	"os"

	"github.com/julianstephens/datebook/internal/cli"
	"github.com/julianstephens/datebook/internal/config"
	"github.com/julianstephens/datebook/internal/ics"
)

type ImportCmd struct {
	File  string `arg:"" help:"Path of the .ics file to read."`
	Email string `short:"e" help:"Reminder address for events that carry none."`
}

func (c *ImportCmd) Run(ctx *cli.Context) error {
	path, err := config.ExpandPath(c.File)
	if err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	res := ics.Import(f, ctx.Events, ctx.Location, c.Email)

	ctx.Printf("✓ Imported %d event(s)", res.Imported)
	if res.Duplicates > 0 {
		ctx.Printf(", skipped %d duplicate(s)", res.Duplicates)
	}
	ctx.Println()
	for _, err := range res.Errors {
		ctx.Printf("⚠ %v\n", err)
	}
	ctx.WarnIfUnsaved()

	if res.Imported == 0 && len(res.Errors) > 0 {
		return fmt.Errorf("no events imported from %s", path)
	}
	return nil
}
