package events

import (
	"github.com/julianstephens/datebook/internal/cli"
)

type AddCmd struct {
	Title string `arg:"" help:"Event title."`
	Date  string `short:"d" help:"Event date (YYYY-MM-DD)." required:""`
	Time  string `short:"t" help:"Start time (HH:MM, 24-hour)." required:""`
	Email string `short:"e" help:"Address that receives the reminders." required:""`
}

func (c *AddCmd) Run(ctx *cli.Context) error {
	ev, err := ctx.Events.Create(c.Title, c.Date, c.Time, c.Email)
	if err != nil {
		return err
	}

	ctx.Printf("Added event: %s on %s at %s (ID: %s)\n", ev.Title, ev.Date, ev.Time, ev.ID)
	ctx.WarnIfUnsaved()
	return nil
}
