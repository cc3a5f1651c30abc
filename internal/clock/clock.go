// Package clock supplies the local calendar to the day-rollover core.
package clock

import (
	"sync"
	"time"

	"github.com/sandeepkv93/dayroll/internal/model"
)

type Clock interface {
	Now() time.Time
	Today() model.Day
	HourOfDay() int
	UntilNextMidnight() time.Duration
}

// System reads the host clock in its local time zone.
type System struct {
	Location *time.Location
}

func (s System) Now() time.Time {
	if s.Location != nil {
		return time.Now().In(s.Location)
	}
	return time.Now()
}

func (s System) Today() model.Day                 { return model.DayOf(s.Now()) }
func (s System) HourOfDay() int                   { return s.Now().Hour() }
func (s System) UntilNextMidnight() time.Duration { return untilNextMidnight(s.Now()) }

// Manual is a settable clock for tests and for replaying a day by hand.
type Manual struct {
	mu  sync.Mutex
	now time.Time
}

func NewManual(now time.Time) *Manual {
	return &Manual{now: now}
}

func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

func (m *Manual) Set(now time.Time) {
	m.mu.Lock()
	m.now = now
	m.mu.Unlock()
}

func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	m.now = m.now.Add(d)
	m.mu.Unlock()
}

func (m *Manual) Today() model.Day                 { return model.DayOf(m.Now()) }
func (m *Manual) HourOfDay() int                   { return m.Now().Hour() }
func (m *Manual) UntilNextMidnight() time.Duration { return untilNextMidnight(m.Now()) }

func untilNextMidnight(now time.Time) time.Duration {
	wait := model.NextMidnight(now).Sub(now)
	if wait < 0 {
		return 0
	}
	return wait
}
