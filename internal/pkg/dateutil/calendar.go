package dateutil

import (
	"time"

	"issuance_tracker/internal/domain/entity"
)

// Calendar produces UTC calendar dates from an injectable clock.
type Calendar struct {
	now func() time.Time
}

// NewCalendar returns a Calendar reading time from now. A nil clock means time.Now.
func NewCalendar(now func() time.Time) *Calendar {
	if now == nil {
		now = time.Now
	}
	return &Calendar{now: now}
}

// Today returns the current UTC date.
func (c *Calendar) Today() entity.PointInTime {
	return entity.NewPointInTime(c.now())
}

// OffsetDays shifts p by n days; negative n goes back.
func (c *Calendar) OffsetDays(p entity.PointInTime, n int) entity.PointInTime {
	return p.AddDays(n)
}
