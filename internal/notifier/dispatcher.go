// Package notifier delivers reminders by email and desktop notification.
package notifier

import (
	"context"
	"errors"

	apperrors "github.com/julianstephens/datebook/internal/errors"
	"github.com/julianstephens/datebook/internal/logger"
	"github.com/julianstephens/datebook/internal/models"
)

// EmailSender is one email transport.
type EmailSender interface {
	Name() string
	Configured() bool
	Send(ctx context.Context, msg models.EmailMessage) error
}

// DesktopNotifier shows a local notification.
type DesktopNotifier interface {
	Notify(ctx context.Context, title, body string) error
}

// Dispatcher routes reminders to the first configured email transport and to
// the desktop notifier.
type Dispatcher struct {
	senders        []EmailSender
	desktop        DesktopNotifier
	desktopEnabled bool
}

// NewDispatcher tries senders in order for each email. desktop may be nil.
func NewDispatcher(desktop DesktopNotifier, desktopEnabled bool, senders ...EmailSender) *Dispatcher {
	return &Dispatcher{
		senders:        senders,
		desktop:        desktop,
		desktopEnabled: desktopEnabled,
	}
}

func (d *Dispatcher) activeSender() EmailSender {
	for _, s := range d.senders {
		if s != nil && s.Configured() {
			return s
		}
	}
	return nil
}

// EmailConfigured reports whether any email transport can send.
func (d *Dispatcher) EmailConfigured() bool {
	return d.activeSender() != nil
}

// SendEmail delivers msg through the first configured transport. With no
// transport configured it does nothing.
func (d *Dispatcher) SendEmail(ctx context.Context, msg models.EmailMessage) error {
	sender := d.activeSender()
	if sender == nil {
		logger.Debug("No email transport configured, skipping email", "event", msg.EventTitle)
		return nil
	}

	if err := sender.Send(ctx, msg); err != nil {
		derr := &apperrors.DeliveryError{Channel: "email/" + sender.Name(), Err: err}
		logger.Warn("Email reminder failed", "event", msg.EventTitle, "to", msg.To, "error", err)
		return derr
	}
	logger.Info("Email reminder sent", "event", msg.EventTitle, "to", msg.To, "via", sender.Name())
	return nil
}

// SendDesktopNotification shows a desktop notification when enabled. A tray
// app that is not running is treated like notifications being disabled.
func (d *Dispatcher) SendDesktopNotification(ctx context.Context, title, body string) error {
	if !d.desktopEnabled || d.desktop == nil {
		return nil
	}
	err := d.desktop.Notify(ctx, title, body)
	if errors.Is(err, ErrTrayNotRunning) {
		logger.Debug("Tray app not running, skipping desktop notification", "title", title)
		return nil
	}
	if err != nil {
		logger.Warn("Desktop notification failed", "title", title, "error", err)
		return &apperrors.DeliveryError{Channel: "desktop", Err: err}
	}
	return nil
}

// TestEmail sends a fixed message to to and returns any delivery error.
func (d *Dispatcher) TestEmail(ctx context.Context, to string) error {
	sender := d.activeSender()
	if sender == nil {
		return &apperrors.DeliveryError{Channel: "email", Err: ErrNotConfigured}
	}
	msg := models.EmailMessage{
		To:           to,
		EventTitle:   "Test Event",
		EventDate:    "Today",
		EventTime:    "Now",
		ReminderTime: "Test",
	}
	if err := sender.Send(ctx, msg); err != nil {
		return &apperrors.DeliveryError{Channel: "email/" + sender.Name(), Err: err}
	}
	return nil
}
