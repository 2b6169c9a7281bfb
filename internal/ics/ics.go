// Package ics moves events to and from iCalendar (RFC 5545) files.
package ics

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"

	"github.com/julianstephens/datebook/internal/constants"
	"github.com/julianstephens/datebook/internal/logger"
	"github.com/julianstephens/datebook/internal/models"
)

const (
	productID = "-//julianstephens//datebook//EN"

	// propEmail carries the reminder address so a round trip keeps it.
	propEmail ical.ComponentProperty = "X-DATEBOOK-EMAIL"

	// allDayTime is the start time given to imported all-day events.
	allDayTime = "09:00"

	defaultDuration = time.Hour
)

// Export writes events as a VCALENDAR with one VEVENT each. Events with an
// unparsable date or time are skipped and logged.
func Export(w io.Writer, events []models.Event, loc *time.Location, now time.Time) (int, error) {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(productID)

	written := 0
	for _, ev := range events {
		start, err := ev.Instant(loc)
		if err != nil {
			logger.Warn("Skipping event with invalid date or time", "id", ev.ID, "error", err)
			continue
		}

		vevent := cal.AddEvent(ev.ID + "@" + constants.AppName)
		vevent.SetDtStampTime(now.UTC())
		if !ev.CreatedAt.IsZero() {
			vevent.SetCreatedTime(ev.CreatedAt.UTC())
		}
		vevent.SetStartAt(start.UTC())
		vevent.SetEndAt(start.Add(defaultDuration).UTC())
		vevent.SetSummary(ev.Title)
		vevent.SetProperty(propEmail, ev.Email)
		vevent.AddAttendee("mailto:" + ev.Email)
		written++
	}

	if err := cal.SerializeTo(w); err != nil {
		return 0, fmt.Errorf("failed to write calendar: %w", err)
	}
	return written, nil
}

// Draft is an imported event that has not yet been validated or stored.
type Draft struct {
	UID   string
	Title string
	Date  string
	Time  string
	Email string
}

// Parse reads every VEVENT from r. Times are converted to loc. Events with no
// address of their own get defaultEmail. A VEVENT that cannot be read is
// skipped and its error returned alongside the drafts.
func Parse(r io.Reader, loc *time.Location, defaultEmail string) ([]Draft, []error) {
	if loc == nil {
		loc = time.Local
	}

	cal, err := ical.ParseCalendar(r)
	if err != nil {
		return nil, []error{fmt.Errorf("failed to parse calendar: %w", err)}
	}

	vevents := cal.Events()
	if len(vevents) == 0 {
		return nil, []error{ErrNoEvents}
	}

	var drafts []Draft
	var errs []error
	for _, ve := range vevents {
		d, err := parseVEvent(ve, loc, defaultEmail)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		drafts = append(drafts, d)
	}
	return drafts, errs
}

func parseVEvent(ve *ical.VEvent, loc *time.Location, defaultEmail string) (Draft, error) {
	var d Draft
	if p := ve.GetProperty(ical.ComponentPropertyUniqueId); p != nil {
		d.UID = p.Value
	}
	if p := ve.GetProperty(ical.ComponentPropertySummary); p != nil {
		d.Title = strings.TrimSpace(p.Value)
	}

	dtstart := ve.GetProperty(ical.ComponentPropertyDtStart)
	if dtstart == nil {
		return d, fmt.Errorf("event %q: missing DTSTART", d.UID)
	}
	if isAllDay(dtstart) {
		day, err := ve.GetAllDayStartAt()
		if err != nil {
			return d, fmt.Errorf("event %q: invalid DTSTART: %w", d.UID, err)
		}
		d.Date = day.Format(constants.DateFormat)
		d.Time = allDayTime
	} else {
		start, err := ve.GetStartAt()
		if err != nil {
			return d, fmt.Errorf("event %q: invalid DTSTART: %w", d.UID, err)
		}
		start = start.In(loc)
		d.Date = start.Format(constants.DateFormat)
		d.Time = start.Format(constants.TimeFormat)
	}

	d.Email = eventEmail(ve)
	if d.Email == "" {
		d.Email = strings.TrimSpace(defaultEmail)
	}
	return d, nil
}

// isAllDay reports whether DTSTART is a bare date (VALUE=DATE or no time part).
func isAllDay(p *ical.IANAProperty) bool {
	if vs, ok := p.ICalParameters["VALUE"]; ok && len(vs) > 0 && strings.EqualFold(vs[0], "DATE") {
		return true
	}
	return !strings.Contains(p.Value, "T")
}

func eventEmail(ve *ical.VEvent) string {
	if p := ve.GetProperty(propEmail); p != nil && strings.TrimSpace(p.Value) != "" {
		return strings.TrimSpace(p.Value)
	}
	for _, a := range ve.Attendees() {
		if email := strings.TrimSpace(a.Email()); email != "" {
			return email
		}
	}
	return ""
}

// Creator is the part of the event store Import needs.
type Creator interface {
	All() []models.Event
	Create(title, date, tm, email string) (models.Event, error)
}

// Result summarizes an import.
type Result struct {
	Imported   int
	Duplicates int
	Errors     []error
}

// Import parses r and creates an event for each VEVENT that is not already
// present with the same title, date and time.
func Import(r io.Reader, store Creator, loc *time.Location, defaultEmail string) Result {
	drafts, errs := Parse(r, loc, defaultEmail)
	res := Result{Errors: errs}

	seen := make(map[string]bool)
	for _, ev := range store.All() {
		seen[dedupeKey(ev.Title, ev.Date, ev.Time)] = true
	}

	for _, d := range drafts {
		key := dedupeKey(d.Title, d.Date, d.Time)
		if seen[key] {
			res.Duplicates++
			continue
		}
		if _, err := store.Create(d.Title, d.Date, d.Time, d.Email); err != nil {
			res.Errors = append(res.Errors, fmt.Errorf("event %q: %w", d.Title, err))
			continue
		}
		seen[key] = true
		res.Imported++
	}
	return res
}

func dedupeKey(title, date, tm string) string {
	return strings.ToLower(strings.TrimSpace(title)) + "\x00" + date + "\x00" + tm
}

// ErrNoEvents is returned when a file holds no VEVENT components.
var ErrNoEvents = errors.New("calendar contains no events")
