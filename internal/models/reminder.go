package models

import "fmt"

// EmailMessage is a rendered reminder ready for delivery.
type EmailMessage struct {
	To           string
	EventTitle   string
	EventDate    string // e.g. "Tuesday, February 10, 2026"
	EventTime    string // e.g. "3:00 PM"
	ReminderTime string // lead label, e.g. "24 hours"
}

func (m EmailMessage) Subject() string {
	return fmt.Sprintf("Reminder: %s in %s", m.EventTitle, m.ReminderTime)
}

func (m EmailMessage) Body() string {
	return fmt.Sprintf("%s starts in %s.\n\nDate: %s\nTime: %s\n", m.EventTitle, m.ReminderTime, m.EventDate, m.EventTime)
}
