package lifecycle

import (
	"fmt"
	"sort"
	"time"

	"github.com/mmynk/gamemate/internal/models"
)

// Canonical wire format of Event.Date and Event.Time.
const (
	DateLayout = "02.01.2006"
	TimeLayout = "15:04"
)

// ScheduledAt combines an event's date and time into an instant in loc.
func ScheduledAt(date, clock string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	t, err := time.ParseInLocation(DateLayout+" "+TimeLayout, date+" "+clock, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse schedule %q %q: %w", date, clock, err)
	}
	return t, nil
}

// IsDue reports whether an open event's scheduled instant lies before now.
// Completed events are never due.
func IsDue(event *models.Event, now time.Time, loc *time.Location) (bool, error) {
	if event.Completed {
		return false, nil
	}
	at, err := ScheduledAt(event.Date, event.Time, loc)
	if err != nil {
		return false, err
	}
	return at.Before(now), nil
}

// Upcoming returns the events scheduled at or after now, soonest first.
// Events with unparseable schedules are left out.
func Upcoming(events []EventView, now time.Time, loc *time.Location) []EventView {
	type scheduled struct {
		view EventView
		at   time.Time
	}
	var pending []scheduled
	for _, ev := range events {
		at, err := ScheduledAt(ev.Date, ev.Time, loc)
		if err != nil || at.Before(now) {
			continue
		}
		pending = append(pending, scheduled{view: ev, at: at})
	}
	sort.SliceStable(pending, func(i, j int) bool {
		return pending[i].at.Before(pending[j].at)
	})

	out := make([]EventView, len(pending))
	for i, p := range pending {
		out[i] = p.view
	}
	return out
}
