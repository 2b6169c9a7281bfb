package events

import (
	"strings"

	"github.com/julianstephens/datebook/internal/agenda"
	"github.com/julianstephens/datebook/internal/cli"
	"github.com/julianstephens/datebook/internal/models"
)

type ListCmd struct{}

func (c *ListCmd) Run(ctx *cli.Context) error {
	all := ctx.Events.All()
	if len(all) == 0 {
		ctx.Println("No events scheduled.")
		return nil
	}

	agenda.SortByTime(all)
	printTable(ctx, all)
	return nil
}

func printTable(ctx *cli.Context, list []models.Event) {
	ctx.Printf("%-36s %-10s %-5s %-28s %-6s\n", "ID", "Date", "Time", "Title", "Sent")
	ctx.Println(strings.Repeat("-", 90))

	for _, ev := range list {
		ctx.Printf("%-36s %-10s %-5s %-28s %-6s\n", ev.ID, ev.Date, ev.Time, truncate(ev.Title, 28), sentFlags(ev))
	}
}

func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	return string(r[:width-3]) + "..."
}

// sentFlags shows which reminders have gone out, e.g. "24h" or "24h,1h".
func sentFlags(ev models.Event) string {
	var sent []string
	for _, label := range models.OffsetLabels {
		if ev.Sent(label) {
			sent = append(sent, string(label))
		}
	}
	if len(sent) == 0 {
		return "-"
	}
	return strings.Join(sent, ",")
}
