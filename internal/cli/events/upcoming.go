package events

import (
	"github.com/julianstephens/datebook/internal/agenda"
	"github.com/julianstephens/datebook/internal/cli"
)

type UpcomingCmd struct {
	Limit int `short:"n" help:"Maximum number of events to show. Defaults to the configured upcoming limit."`
}

func (c *UpcomingCmd) Run(ctx *cli.Context) error {
	limit := c.Limit
	if limit <= 0 {
		limit = ctx.Config.UpcomingLimit
	}

	now := ctx.Now()
	list := agenda.UpcomingEvents(ctx.Events.All(), now, limit, ctx.Location)
	if len(list) == 0 {
		ctx.Println("No upcoming events.")
		return nil
	}

	ctx.Printf("%-10s %-5s %-28s %s\n", "Date", "Time", "Title", "Starts in")
	for _, ev := range list {
		ctx.Printf("%-10s %-5s %-28s %s\n", ev.Date, ev.Time, truncate(ev.Title, 28), agenda.CountdownLabel(ev, now, ctx.Location))
	}
	return nil
}
