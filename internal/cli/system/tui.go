package system

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/datebook/internal/cli"
	"github.com/julianstephens/datebook/internal/logger"
	"github.com/julianstephens/datebook/internal/reminder"
	"github.com/julianstephens/datebook/internal/tui"
)

type TuiCmd struct {
	NoReminders bool `help:"Do not deliver reminders while the calendar is open."`
}

func (c *TuiCmd) Run(ctx *cli.Context) error {
	ctx.PerformAutomaticBackup()

	opts := tui.Options{
		Store:         ctx.Events,
		Location:      ctx.Location,
		Now:           ctx.Now,
		UpcomingLimit: ctx.Config.UpcomingLimit,
	}

	if !c.NoReminders {
		sched, err := reminder.New(ctx.Events, ctx.ReminderSink(), ctx.Config.Interval(), ctx.Location)
		if err != nil {
			return err
		}
		runCtx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go func() {
			if err := sched.Run(runCtx); err != nil {
				logger.Error("Reminder scheduler stopped", "error", err)
			}
		}()
		opts.OnChange = sched.Notify
	}

	p := tea.NewProgram(tui.NewModel(opts), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("calendar view failed: %w", err)
	}
	ctx.WarnIfUnsaved()
	return nil
}
