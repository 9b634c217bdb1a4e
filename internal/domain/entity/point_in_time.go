package entity

import (
	"fmt"
	"time"
)

// DateLayout is the textual form of a PointInTime.
const DateLayout = "2006-01-02"

// PointInTime is a UTC calendar date used to request historical on-chain state.
type PointInTime struct {
	day time.Time
}

// NewPointInTime truncates t to its UTC calendar date.
func NewPointInTime(t time.Time) PointInTime {
	y, m, d := t.UTC().Date()
	return PointInTime{day: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// ParsePointInTime parses a YYYY-MM-DD date.
func ParsePointInTime(s string) (PointInTime, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return PointInTime{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return NewPointInTime(t), nil
}

// Time returns the start of the day in UTC.
func (p PointInTime) Time() time.Time { return p.day }

// IsZero reports whether p was never set.
func (p PointInTime) IsZero() bool { return p.day.IsZero() }

// AddDays returns the date n days later (earlier for negative n).
func (p PointInTime) AddDays(n int) PointInTime {
	return PointInTime{day: p.day.AddDate(0, 0, n)}
}

func (p PointInTime) String() string { return p.day.Format(DateLayout) }

// MarshalText implements encoding.TextMarshaler.
func (p PointInTime) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}
