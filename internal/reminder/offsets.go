package reminder

import "github.com/julianstephens/datebook/internal/models"

// Offset is a reminder lead time and the window of hours-until-start in
// which it fires. Windows are inclusive on both ends.
type Offset struct {
	Label    models.OffsetLabel
	MinHours float64
	MaxHours float64
	Lead     string
}

// Offsets are evaluated independently for every event.
var Offsets = []Offset{
	{Label: models.Offset24h, MinHours: 23, MaxHours: 25, Lead: "24 hours"},
	{Label: models.Offset1h, MinHours: 0.83, MaxHours: 1.17, Lead: "1 hour"},
}

// InWindow reports whether hoursUntil falls inside o's window.
func (o Offset) InWindow(hoursUntil float64) bool {
	return hoursUntil >= o.MinHours && hoursUntil <= o.MaxHours
}

// narrowestWindow is the width of the smallest window, in hours. The poll
// interval must stay below it or a reminder can be skipped entirely.
func narrowestWindow() float64 {
	narrowest := Offsets[0].MaxHours - Offsets[0].MinHours
	for _, o := range Offsets[1:] {
		if w := o.MaxHours - o.MinHours; w < narrowest {
			narrowest = w
		}
	}
	return narrowest
}
