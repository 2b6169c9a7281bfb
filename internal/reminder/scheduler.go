// Package reminder decides when an event's reminders are due and hands them
// to a Sink. Each event and offset pair fires at most once.
package reminder

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/julianstephens/datebook/internal/constants"
	"github.com/julianstephens/datebook/internal/logger"
	"github.com/julianstephens/datebook/internal/models"
)

// MaxPollInterval is the exclusive upper bound on the poll interval.
const MaxPollInterval = 20 * time.Minute

const (
	messageDateFormat = "Monday, January 2, 2006"
	messageTimeFormat = "3:04 PM"
)

// Sink delivers a fired reminder.
type Sink interface {
	SendEmail(ctx context.Context, msg models.EmailMessage) error
	SendDesktopNotification(ctx context.Context, title, body string) error
}

// EventStore is the part of the event store the scheduler reads and writes.
type EventStore interface {
	All() []models.Event
	MarkSent(id string, label models.OffsetLabel) (models.Event, error)
	Refresh()
}

// Delivery records one fired reminder.
type Delivery struct {
	EventID    string
	Title      string
	Label      models.OffsetLabel
	Message    models.EmailMessage
	EmailErr   error
	DesktopErr error
}

type Scheduler struct {
	store    EventStore
	sink     Sink
	interval time.Duration
	loc      *time.Location

	mu           sync.Mutex
	notifyCh     chan struct{}
	now          func() time.Time
	startupDelay time.Duration
}

// New returns a scheduler polling every interval. Event times are read in
// loc; nil means the host zone.
func New(store EventStore, sink Sink, interval time.Duration, loc *time.Location) (*Scheduler, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("poll interval must be positive, got %s", interval)
	}
	if interval >= MaxPollInterval {
		return nil, fmt.Errorf("poll interval %s must be shorter than %s", interval, MaxPollInterval)
	}
	if loc == nil {
		loc = time.Local
	}
	return &Scheduler{
		store:        store,
		sink:         sink,
		interval:     interval,
		loc:          loc,
		notifyCh:     make(chan struct{}, 1),
		now:          time.Now,
		startupDelay: constants.PollStartupDelay,
	}, nil
}

// Notify requests an immediate poll. It never blocks; a pending request
// absorbs further ones.
func (s *Scheduler) Notify() {
	select {
	case s.notifyCh <- struct{}{}:
	default:
	}
}

// Run polls once after a short startup delay and then on every interval
// until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) error {
	c := cron.New(
		cron.WithLocation(s.loc),
		cron.WithLogger(logger.CronLogger{}),
		cron.WithChain(
			cron.Recover(logger.CronLogger{}),
			cron.SkipIfStillRunning(logger.CronLogger{}),
		),
	)
	if _, err := c.AddFunc(fmt.Sprintf("@every %s", s.interval), func() { s.tick(ctx) }); err != nil {
		return fmt.Errorf("failed to schedule reminder poll: %w", err)
	}

	logger.Info("Reminder scheduler started", "interval", s.interval)

	select {
	case <-ctx.Done():
		return nil
	case <-time.After(s.startupDelay):
	}

	s.tick(ctx)
	c.Start()

	for {
		select {
		case <-ctx.Done():
			<-c.Stop().Done()
			logger.Info("Reminder scheduler stopped")
			return nil
		case <-s.notifyCh:
			logger.Debug("Reminder poll requested")
			s.tick(ctx)
		}
	}
}

func (s *Scheduler) tick(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	s.store.Refresh()
	deliveries := s.Poll(ctx, s.now())
	if len(deliveries) > 0 {
		logger.Info("Reminder poll complete", "fired", len(deliveries))
	}
}

// Due lists the reminders that would fire at now without sending or
// marking anything.
func (s *Scheduler) Due(now time.Time) []Delivery {
	var due []Delivery
	for _, ev := range s.store.All() {
		for _, o := range s.dueOffsets(ev, now) {
			due = append(due, Delivery{
				EventID: ev.ID,
				Title:   ev.Title,
				Label:   o.Label,
				Message: s.message(ev, o),
			})
		}
	}
	return due
}

// Poll fires every due reminder. Delivery failures are recorded on the
// result and logged, and the reminder is marked sent regardless.
func (s *Scheduler) Poll(ctx context.Context, now time.Time) []Delivery {
	s.mu.Lock()
	defer s.mu.Unlock()

	var fired []Delivery
	for _, ev := range s.store.All() {
		for _, o := range s.dueOffsets(ev, now) {
			d := Delivery{
				EventID: ev.ID,
				Title:   ev.Title,
				Label:   o.Label,
				Message: s.message(ev, o),
			}

			d.EmailErr = s.sink.SendEmail(ctx, d.Message)
			d.DesktopErr = s.sink.SendDesktopNotification(ctx, "Reminder: "+ev.Title, desktopBody(d.Message))

			if _, err := s.store.MarkSent(ev.ID, o.Label); err != nil {
				logger.Warn("Failed to mark reminder sent", "event", ev.ID, "offset", o.Label, "error", err)
			}

			logger.Info("Reminder fired", "event", ev.ID, "title", ev.Title, "offset", o.Label,
				"emailErr", d.EmailErr, "desktopErr", d.DesktopErr)
			fired = append(fired, d)
		}
	}
	return fired
}

func (s *Scheduler) dueOffsets(ev models.Event, now time.Time) []Offset {
	at, err := ev.Instant(s.loc)
	if err != nil {
		logger.Debug("Skipping event with invalid date or time", "event", ev.ID, "error", err)
		return nil
	}
	hoursUntil := at.Sub(now).Hours()

	var due []Offset
	for _, o := range Offsets {
		if ev.Sent(o.Label) {
			continue
		}
		if o.InWindow(hoursUntil) {
			due = append(due, o)
		}
	}
	return due
}

func (s *Scheduler) message(ev models.Event, o Offset) models.EmailMessage {
	msg := models.EmailMessage{
		To:           ev.Email,
		EventTitle:   ev.Title,
		EventDate:    ev.Date,
		EventTime:    ev.Time,
		ReminderTime: o.Lead,
	}
	if at, err := ev.Instant(s.loc); err == nil {
		msg.EventDate = at.Format(messageDateFormat)
		msg.EventTime = at.Format(messageTimeFormat)
	}
	return msg
}

func desktopBody(msg models.EmailMessage) string {
	return fmt.Sprintf("%s in %s (%s at %s)", msg.EventTitle, msg.ReminderTime, msg.EventDate, msg.EventTime)
}
