package scheduler

import (
	"fmt"
	"time"
)

// Trigger decides when a job is next due.
type Trigger interface {
	// Next returns the first due time strictly after t.
	Next(t time.Time) time.Time
	String() string
}

type interval struct {
	every time.Duration
}

// Every fires once per d, measured from the previous run.
func Every(d time.Duration) Trigger {
	if d <= 0 {
		panic("scheduler: interval must be positive")
	}
	return interval{every: d}
}

func (i interval) Next(t time.Time) time.Time {
	return t.Add(i.every)
}

func (i interval) String() string {
	return "every " + i.every.String()
}

type daily struct {
	hour, minute int
	loc          *time.Location
}

// DailyAt fires once a day at hour:minute in loc.
func DailyAt(hour, minute int, loc *time.Location) Trigger {
	if loc == nil {
		loc = time.UTC
	}
	return daily{hour: hour, minute: minute, loc: loc}
}

// ParseDaily parses "HH:MM" into a DailyAt trigger.
func ParseDaily(clock string, loc *time.Location) (Trigger, error) {
	t, err := time.Parse("15:04", clock)
	if err != nil {
		return nil, fmt.Errorf("invalid time of day %q: %w", clock, err)
	}
	return DailyAt(t.Hour(), t.Minute(), loc), nil
}

func (d daily) Next(t time.Time) time.Time {
	local := t.In(d.loc)
	next := time.Date(local.Year(), local.Month(), local.Day(), d.hour, d.minute, 0, 0, d.loc)
	if !next.After(local) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

func (d daily) String() string {
	return fmt.Sprintf("daily at %02d:%02d %s", d.hour, d.minute, d.loc)
}
