package events

import (
	"fmt"
	"time"

	"github.com/julianstephens/datebook/internal/cli"
	"github.com/julianstephens/datebook/internal/monthgrid"
	"github.com/julianstephens/datebook/internal/tui"
)

type MonthCmd struct {
	Year  int `short:"y" help:"Year to show. Defaults to the current year."`
	Month int `short:"m" help:"Month to show (1-12). Defaults to the current month."`
}

func (c *MonthCmd) Validate() error {
	if c.Month < 0 || c.Month > 12 {
		return fmt.Errorf("month must be between 1 and 12")
	}
	return nil
}

func (c *MonthCmd) Run(ctx *cli.Context) error {
	now := ctx.Now().In(ctx.Location)
	year, month := now.Year(), now.Month()
	if c.Year > 0 {
		year = c.Year
	}
	if c.Month > 0 {
		month = time.Month(c.Month)
	}

	grid := monthgrid.Build(year, month, now)
	ctx.Println(tui.RenderMonth(grid, tui.CountByDate(ctx.Events.All()), -1))
	return nil
}
