// Package agenda answers calendar questions over a snapshot of events:
// what falls on a date, what is coming up, and how long until it starts.
package agenda

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/julianstephens/datebook/internal/models"
)

// ErrPastEvent is returned by NewCountdown when the event has already started.
var ErrPastEvent = errors.New("event is in the past")

// PastEventLabel is shown in place of a countdown for past events.
const PastEventLabel = "Past event"

// EventsOnDate returns the events scheduled on the given calendar day.
func EventsOnDate(events []models.Event, year int, month time.Month, day int) []models.Event {
	key := fmt.Sprintf("%04d-%02d-%02d", year, int(month), day)
	var out []models.Event
	for _, ev := range events {
		if ev.Date == key {
			out = append(out, ev)
		}
	}
	return out
}

// SortByTime orders events by date then time, keeping insertion order for ties.
func SortByTime(events []models.Event) {
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].Date != events[j].Date {
			return events[i].Date < events[j].Date
		}
		return events[i].Time < events[j].Time
	})
}

// UpcomingEvents returns at most limit events starting at or after now,
// soonest first. Events whose date or time cannot be parsed are skipped.
func UpcomingEvents(events []models.Event, now time.Time, limit int, loc *time.Location) []models.Event {
	if limit <= 0 {
		return nil
	}

	type timed struct {
		ev models.Event
		at time.Time
	}
	var future []timed
	for _, ev := range events {
		at, err := ev.Instant(loc)
		if err != nil {
			continue
		}
		if !at.Before(now) {
			future = append(future, timed{ev: ev, at: at})
		}
	}

	sort.SliceStable(future, func(i, j int) bool {
		return future[i].at.Before(future[j].at)
	})

	if len(future) > limit {
		future = future[:limit]
	}
	out := make([]models.Event, len(future))
	for i, f := range future {
		out[i] = f.ev
	}
	return out
}

// Countdown is the floored distance to an event.
type Countdown struct {
	Days    int
	Hours   int
	Minutes int
}

// NewCountdown returns the time remaining until instant.
func NewCountdown(instant, now time.Time) (Countdown, error) {
	d := instant.Sub(now)
	if d < 0 {
		return Countdown{}, ErrPastEvent
	}
	total := int(d / time.Minute)
	return Countdown{
		Days:    total / (24 * 60),
		Hours:   (total / 60) % 24,
		Minutes: total % 60,
	}, nil
}

func (c Countdown) String() string {
	switch {
	case c.Days > 0:
		return join(unit(c.Days, "day"), unit(c.Hours, "hour"))
	case c.Hours > 0:
		return join(unit(c.Hours, "hour"), unit(c.Minutes, "minute"))
	default:
		return unit(c.Minutes, "minute")
	}
}

func unit(n int, name string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, name)
	}
	return fmt.Sprintf("%d %ss", n, name)
}

func join(parts ...string) string {
	return strings.Join(parts, " ")
}

// CountdownLabel renders the countdown for ev, or PastEventLabel once it has
// started. Events with an unparsable date or time render as an empty string.
func CountdownLabel(ev models.Event, now time.Time, loc *time.Location) string {
	at, err := ev.Instant(loc)
	if err != nil {
		return ""
	}
	c, err := NewCountdown(at, now)
	if errors.Is(err, ErrPastEvent) {
		return PastEventLabel
	}
	return c.String()
}
