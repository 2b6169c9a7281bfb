package models

import (
	"testing"
	"time"

	apperrors "github.com/julianstephens/datebook/internal/errors"
)

func TestEvent_Normalize(t *testing.T) {
	tests := []struct {
		name      string
		event     Event
		wantErr   bool
		wantField string
		wantTime  string
		wantDate  string
	}{
		{
			name:     "valid event",
			event:    Event{Title: " Dentist ", Date: "2026-02-10", Time: "09:30", Email: "a@example.com"},
			wantTime: "09:30",
		},
		{
			name:     "single digit hour is padded",
			event:    Event{Title: "Standup", Date: "2026-02-10", Time: "9:05", Email: "a@example.com"},
			wantTime: "09:05",
		},
		{
			name:     "unpadded date is padded",
			event:    Event{Title: "Standup", Date: "2026-2-3", Time: "10:00", Email: "a@example.com"},
			wantTime: "10:00",
			wantDate: "2026-02-03",
		},
		{
			name:      "day out of range",
			event:     Event{Title: "Lunch", Date: "2026-02-30", Time: "12:00", Email: "a@example.com"},
			wantErr:   true,
			wantField: "date",
		},
		{
			name:      "blank title",
			event:     Event{Title: "   ", Date: "2026-02-10", Time: "09:30", Email: "a@example.com"},
			wantErr:   true,
			wantField: "title",
		},
		{
			name:      "empty email",
			event:     Event{Title: "Lunch", Date: "2026-02-10", Time: "12:00", Email: ""},
			wantErr:   true,
			wantField: "email",
		},
		{
			name:      "bad date",
			event:     Event{Title: "Lunch", Date: "10/02/2026", Time: "12:00", Email: "a@example.com"},
			wantErr:   true,
			wantField: "date",
		},
		{
			name:      "bad time",
			event:     Event{Title: "Lunch", Date: "2026-02-10", Time: "noon", Email: "a@example.com"},
			wantErr:   true,
			wantField: "time",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev := tt.event
			err := ev.Normalize()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Normalize() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				ve, ok := err.(*apperrors.ValidationError)
				if !ok {
					t.Fatalf("expected *ValidationError, got %T", err)
				}
				if ve.Field != tt.wantField {
					t.Errorf("field = %q, want %q", ve.Field, tt.wantField)
				}
				return
			}
			if tt.wantDate != "" && ev.Date != tt.wantDate {
				t.Errorf("Date = %q, want %q", ev.Date, tt.wantDate)
			}
			if ev.Time != tt.wantTime {
				t.Errorf("Time = %q, want %q", ev.Time, tt.wantTime)
			}
			if ev.Title != "Dentist" && ev.Title != "Standup" {
				t.Errorf("title was not trimmed: %q", ev.Title)
			}
		})
	}
}

func TestEvent_Instant(t *testing.T) {
	ev := Event{Date: "2026-02-10", Time: "14:45"}
	got, err := ev.Instant(time.UTC)
	if err != nil {
		t.Fatalf("Instant() error: %v", err)
	}
	want := time.Date(2026, time.February, 10, 14, 45, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("Instant() = %v, want %v", got, want)
	}

	if _, err := (Event{Date: "2026-02-30", Time: "10:00"}).Instant(time.UTC); err == nil {
		t.Error("expected error for impossible date")
	}
}

func TestEvent_CloneIsIndependent(t *testing.T) {
	ev := Event{ID: "a", NotificationsSent: NewNotificationsSent()}
	clone := ev.Clone()
	clone.NotificationsSent[Offset24h] = true

	if ev.Sent(Offset24h) {
		t.Error("mutating the clone changed the original flags")
	}
	if !clone.Sent(Offset24h) {
		t.Error("clone flag was not set")
	}
}

func TestEmailProviderConfig(t *testing.T) {
	cfg := EmailProviderConfig{ServiceID: "svc", TemplateID: "tpl", PublicKey: "pk_live_1234"}
	if !cfg.IsConfigured() {
		t.Error("expected complete config to be configured")
	}
	if got := cfg.Redacted().PublicKey; got != "pk_l********" {
		t.Errorf("Redacted().PublicKey = %q", got)
	}

	cfg.TemplateID = " "
	if cfg.IsConfigured() {
		t.Error("expected config with blank template to be inactive")
	}
}
