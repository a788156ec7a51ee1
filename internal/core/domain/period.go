package domain

import "time"

// Period is a UTC time window. End is the last microsecond of the window and
// both bounds are inclusive when filtering.
type Period struct {
	Start time.Time
	End   time.Time
}

func (p Period) Contains(t time.Time) bool {
	return !t.Before(p.Start) && !t.After(p.End)
}

// MonthOf returns the calendar month containing t.
func MonthOf(t time.Time) Period {
	t = t.UTC()
	start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	return Period{Start: start, End: start.AddDate(0, 1, 0).Add(-time.Microsecond)}
}

// HalfYearOf returns January-June or July-December containing t.
func HalfYearOf(t time.Time) Period {
	t = t.UTC()
	month := time.January
	if t.Month() >= time.July {
		month = time.July
	}
	start := time.Date(t.Year(), month, 1, 0, 0, 0, 0, time.UTC)
	return Period{Start: start, End: start.AddDate(0, 6, 0).Add(-time.Microsecond)}
}

// DayOf returns the UTC day containing t.
func DayOf(t time.Time) Period {
	t = t.UTC()
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return Period{Start: start, End: start.AddDate(0, 0, 1).Add(-time.Microsecond)}
}
