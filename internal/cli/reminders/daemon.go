package reminders

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/julianstephens/datebook/internal/cli"
	"github.com/julianstephens/datebook/internal/logger"
	"github.com/julianstephens/datebook/internal/reminder"
)

type DaemonCmd struct{}

func (c *DaemonCmd) Run(ctx *cli.Context) error {
	sched, err := reminder.New(ctx.Events, ctx.ReminderSink(), ctx.Config.Interval(), ctx.Location)
	if err != nil {
		return err
	}

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctx.Printf("Reminder daemon running (every %s). Press Ctrl+C to stop.\n", ctx.Config.Interval())
	logger.Info("Starting reminder daemon", "storage", ctx.Backend.GetConfigPath())

	return sched.Run(runCtx)
}
