package reminders

import (
	"context"

	"github.com/julianstephens/datebook/internal/cli"
	"github.com/julianstephens/datebook/internal/reminder"
)

type RemindCmd struct {
	DryRun bool `help:"List the reminders that are due without sending them."`
}

func (c *RemindCmd) Run(ctx *cli.Context) error {
	sched, err := reminder.New(ctx.Events, ctx.ReminderSink(), ctx.Config.Interval(), ctx.Location)
	if err != nil {
		return err
	}

	now := ctx.Now()
	if c.DryRun {
		due := sched.Due(now)
		if len(due) == 0 {
			ctx.Println("No reminders due.")
			return nil
		}
		for _, d := range due {
			ctx.Printf("Due: %s (%s before) -> %s\n", d.Title, d.Message.ReminderTime, d.Message.To)
		}
		return nil
	}

	sent := sched.Poll(context.Background(), now)
	if len(sent) == 0 {
		ctx.Println("No reminders due.")
		return nil
	}
	for _, d := range sent {
		status := "✓"
		if d.EmailErr != nil || d.DesktopErr != nil {
			status = "⚠"
		}
		ctx.Printf("%s Sent %s reminder for %s\n", status, d.Label, d.Title)
		if d.EmailErr != nil {
			ctx.Printf("  email delivery failed: %v\n", d.EmailErr)
		}
		if d.DesktopErr != nil {
			ctx.Printf("  desktop delivery failed: %v\n", d.DesktopErr)
		}
	}
	ctx.WarnIfUnsaved()
	return nil
}
