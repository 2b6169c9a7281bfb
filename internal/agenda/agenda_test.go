package agenda

import (
	"errors"
	"testing"
	"time"

	"github.com/julianstephens/datebook/internal/models"
)

func ev(id, date, tm string) models.Event {
	return models.Event{ID: id, Title: id, Date: date, Time: tm, Email: "a@b.co", NotificationsSent: models.NewNotificationsSent()}
}

func ids(events []models.Event) []string {
	out := make([]string, len(events))
	for i, e := range events {
		out[i] = e.ID
	}
	return out
}

func equalIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestEventsOnDate(t *testing.T) {
	events := []models.Event{
		ev("a", "2026-02-10", "14:00"),
		ev("b", "2026-02-11", "09:00"),
		ev("c", "2026-02-10", "09:00"),
	}

	got := EventsOnDate(events, 2026, time.February, 10)
	SortByTime(got)
	if want := []string{"c", "a"}; !equalIDs(ids(got), want) {
		t.Errorf("EventsOnDate() = %v, want %v", ids(got), want)
	}

	if got := EventsOnDate(events, 2026, time.March, 10); len(got) != 0 {
		t.Errorf("EventsOnDate() for empty day = %v", ids(got))
	}
}

func TestUpcomingEvents(t *testing.T) {
	loc := time.UTC
	now := time.Date(2026, 2, 10, 12, 0, 0, 0, loc)
	events := []models.Event{
		ev("past", "2026-02-10", "11:59"),
		ev("later", "2026-02-12", "08:00"),
		ev("now", "2026-02-10", "12:00"),
		ev("soon", "2026-02-10", "18:00"),
		ev("broken", "2026-02-31", "10:00"),
		ev("tie", "2026-02-12", "08:00"),
	}

	tests := []struct {
		name  string
		limit int
		want  []string
	}{
		{"all", 10, []string{"now", "soon", "later", "tie"}},
		{"truncated", 2, []string{"now", "soon"}},
		{"zero limit", 0, nil},
		{"negative limit", -1, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := UpcomingEvents(events, now, tt.limit, loc)
			if !equalIDs(ids(got), tt.want) {
				t.Errorf("UpcomingEvents() = %v, want %v", ids(got), tt.want)
			}
		})
	}
}

func TestCountdown(t *testing.T) {
	now := time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		in   time.Duration
		want string
	}{
		{"days and hours", 2*24*time.Hour + 5*time.Hour + 30*time.Minute, "2 days 5 hours"},
		{"days with zero hours", 3 * 24 * time.Hour, "3 days 0 hours"},
		{"singular day", 24*time.Hour + time.Hour, "1 day 1 hour"},
		{"hours and minutes", 3*time.Hour + 15*time.Minute, "3 hours 15 minutes"},
		{"minutes only", 45 * time.Minute, "45 minutes"},
		{"one minute", time.Minute + 30*time.Second, "1 minute"},
		{"zero", 20 * time.Second, "0 minutes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewCountdown(now.Add(tt.in), now)
			if err != nil {
				t.Fatalf("NewCountdown() error: %v", err)
			}
			if got := c.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCountdown_Past(t *testing.T) {
	now := time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC)
	if _, err := NewCountdown(now.Add(-time.Minute), now); !errors.Is(err, ErrPastEvent) {
		t.Errorf("expected ErrPastEvent, got %v", err)
	}
	if got := CountdownLabel(ev("x", "2026-02-09", "10:00"), now, time.UTC); got != PastEventLabel {
		t.Errorf("CountdownLabel() = %q, want %q", got, PastEventLabel)
	}
	if got := CountdownLabel(ev("x", "2026-02-10", "12:45"), now, time.UTC); got != "45 minutes" {
		t.Errorf("CountdownLabel() = %q", got)
	}
}
