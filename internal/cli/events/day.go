package events

import (
	"fmt"
	"time"

	"github.com/julianstephens/datebook/internal/agenda"
	"github.com/julianstephens/datebook/internal/cli"
	"github.com/julianstephens/datebook/internal/constants"
)

type DayCmd struct {
	Date string `arg:"" optional:"" help:"Date to show (YYYY-MM-DD). Defaults to today."`
}

func (c *DayCmd) Run(ctx *cli.Context) error {
	day := ctx.Now().In(ctx.Location)
	if c.Date != "" {
		parsed, err := time.ParseInLocation(constants.DateFormat, c.Date, ctx.Location)
		if err != nil {
			return fmt.Errorf("invalid date %q (expected YYYY-MM-DD): %w", c.Date, err)
		}
		day = parsed
	}

	list := agenda.EventsOnDate(ctx.Events.All(), day.Year(), day.Month(), day.Day())
	ctx.Printf("%s\n\n", day.Format("Monday, January 2, 2006"))
	if len(list) == 0 {
		ctx.Println("No events on this day.")
		return nil
	}

	agenda.SortByTime(list)
	for _, ev := range list {
		ctx.Printf("  %s  %s  (%s)\n", ev.Time, ev.Title, ev.Email)
	}
	return nil
}
