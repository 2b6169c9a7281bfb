package events

import (
	"errors"
	"fmt"

	"github.com/julianstephens/datebook/internal/cli"
	apperrors "github.com/julianstephens/datebook/internal/errors"
	"github.com/julianstephens/datebook/internal/events"
)

type EditCmd struct {
	ID    string  `arg:"" help:"Event ID to edit."`
	Title *string `help:"New title."`
	Date  *string `short:"d" help:"New date (YYYY-MM-DD)."`
	Time  *string `short:"t" help:"New start time (HH:MM)."`
	Email *string `short:"e" help:"New reminder address."`
}

func (c *EditCmd) Validate() error {
	if c.Title == nil && c.Date == nil && c.Time == nil && c.Email == nil {
		return fmt.Errorf("nothing to change: pass at least one of --title, --date, --time or --email")
	}
	return nil
}

func (c *EditCmd) Run(ctx *cli.Context) error {
	ev, err := ctx.Events.Update(c.ID, events.EventPatch{
		Title: c.Title,
		Date:  c.Date,
		Time:  c.Time,
		Email: c.Email,
	})
	if errors.Is(err, apperrors.ErrNotFound) {
		ctx.Printf("No event with ID %s; nothing changed.\n", c.ID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to update event %s: %w", c.ID, err)
	}

	ctx.Printf("Updated event: %s on %s at %s\n", ev.Title, ev.Date, ev.Time)
	ctx.WarnIfUnsaved()
	return nil
}
