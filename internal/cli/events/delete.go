package events

import (
	"github.com/julianstephens/datebook/internal/cli"
)

type DeleteCmd struct {
	ID string `arg:"" help:"Event ID to delete."`
}

func (c *DeleteCmd) Run(ctx *cli.Context) error {
	ev, ok := ctx.Events.Get(c.ID)
	if !ok || !ctx.Events.Delete(c.ID) {
		ctx.Printf("No event with ID %s; nothing deleted.\n", c.ID)
		return nil
	}

	ctx.Printf("Deleted event: %s (ID: %s)\n", ev.Title, ev.ID)
	ctx.WarnIfUnsaved()
	return nil
}
