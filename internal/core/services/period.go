package services

import (
	"time"

	"github.com/vncsmyrnk/votebot/internal/core/domain"
)

// PeriodCalculator derives the canonical UTC windows from a clock.
type PeriodCalculator struct {
	now func() time.Time
}

func NewPeriodCalculator(now func() time.Time) *PeriodCalculator {
	if now == nil {
		now = time.Now
	}
	return &PeriodCalculator{now: now}
}

func (c *PeriodCalculator) Now() time.Time {
	return c.now().UTC()
}

func (c *PeriodCalculator) CurrentMonth() domain.Period {
	return domain.MonthOf(c.Now())
}

func (c *PeriodCalculator) CurrentHalfYear() domain.Period {
	return domain.HalfYearOf(c.Now())
}

func (c *PeriodCalculator) Today() domain.Period {
	return domain.DayOf(c.Now())
}
