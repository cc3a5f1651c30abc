package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const DayLayout = "2006-01-02"

var ErrInvalidDay = errors.New("model: invalid calendar day")

// Day is a local calendar day with no time-of-day component. The zero value
// means "unset".
type Day string

func DayOf(t time.Time) Day {
	return Day(t.Format(DayLayout))
}

func ParseDay(raw string) (Day, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", nil
	}
	if _, err := time.Parse(DayLayout, trimmed); err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidDay, raw)
	}
	return Day(trimmed), nil
}

func (d Day) IsZero() bool {
	return d == ""
}

func (d Day) String() string {
	return string(d)
}

// Time returns midnight of d in loc.
func (d Day) Time(loc *time.Location) (time.Time, error) {
	if d.IsZero() {
		return time.Time{}, errors.New("model: day is unset")
	}
	return time.ParseInLocation(DayLayout, string(d), loc)
}

// AddDays walks the calendar, not a fixed 24h duration, so DST changes do
// not skip or repeat a day.
func (d Day) AddDays(n int) Day {
	t, err := d.Time(time.UTC)
	if err != nil {
		return d
	}
	return DayOf(t.AddDate(0, 0, n))
}

// NextMidnight is the first instant of the calendar day after now, in now's
// location.
func NextMidnight(now time.Time) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d+1, 0, 0, 0, 0, now.Location())
}
