package models

import (
	"strings"
	"time"

	"github.com/julianstephens/datebook/internal/constants"
	apperrors "github.com/julianstephens/datebook/internal/errors"
)

// OffsetLabel identifies a reminder lead time.
type OffsetLabel string

const (
	Offset24h OffsetLabel = "24h"
	Offset1h  OffsetLabel = "1h"
)

// OffsetLabels lists every reminder offset in evaluation order.
var OffsetLabels = []OffsetLabel{Offset24h, Offset1h}

type Event struct {
	ID                string               `json:"id"`
	Title             string               `json:"title"`
	Date              string               `json:"date"` // YYYY-MM-DD
	Time              string               `json:"time"` // HH:MM, host local time
	Email             string               `json:"email"`
	NotificationsSent map[OffsetLabel]bool `json:"notificationsSent"`
	CreatedAt         time.Time            `json:"createdAt"`
}

// NewNotificationsSent returns a flag map with every offset pending.
func NewNotificationsSent() map[OffsetLabel]bool {
	sent := make(map[OffsetLabel]bool, len(OffsetLabels))
	for _, label := range OffsetLabels {
		sent[label] = false
	}
	return sent
}

// Sent reports whether the reminder for label has already fired.
func (e Event) Sent(label OffsetLabel) bool {
	return e.NotificationsSent[label]
}

// Instant combines Date and Time into a single point in loc.
func (e Event) Instant(loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	return time.ParseInLocation(constants.DateFormat+" "+constants.TimeFormat, e.Date+" "+e.Time, loc)
}

// Clone returns a copy that shares no mutable state with e.
func (e Event) Clone() Event {
	out := e
	out.NotificationsSent = make(map[OffsetLabel]bool, len(e.NotificationsSent))
	for k, v := range e.NotificationsSent {
		out.NotificationsSent[k] = v
	}
	return out
}

// inputDateFormat accepts dates with or without zero padding.
const inputDateFormat = "2006-1-2"

// Normalize trims every field and rewrites Date and Time in their
// zero-padded wire form. It returns a ValidationError for the first field
// that is empty or malformed.
func (e *Event) Normalize() error {
	e.Title = strings.TrimSpace(e.Title)
	e.Date = strings.TrimSpace(e.Date)
	e.Time = strings.TrimSpace(e.Time)
	e.Email = strings.TrimSpace(e.Email)

	required := []struct {
		field string
		value string
	}{
		{"title", e.Title},
		{"date", e.Date},
		{"time", e.Time},
		{"email", e.Email},
	}
	for _, r := range required {
		if r.value == "" {
			return &apperrors.ValidationError{Field: r.field, Reason: "cannot be empty"}
		}
	}

	d, err := time.Parse(inputDateFormat, e.Date)
	if err != nil {
		return &apperrors.ValidationError{Field: "date", Reason: "expected YYYY-MM-DD"}
	}
	t, err := time.Parse(constants.TimeFormat, e.Time)
	if err != nil {
		return &apperrors.ValidationError{Field: "time", Reason: "expected HH:MM"}
	}
	e.Date = d.Format(constants.DateFormat)
	e.Time = t.Format(constants.TimeFormat)

	return nil
}
