// Package clock abstracts the current instant so time-dependent rules can be
// exercised with a fixed time in tests.
package clock

import (
	"sync"
	"time"

	"unires/shared/timezone"
)

type Clock interface {
	Now() time.Time
}

type appClock struct{}

// New returns a Clock reading the current time in the application timezone.
func New() Clock {
	return appClock{}
}

func (appClock) Now() time.Time {
	return timezone.Now()
}

// Fixed is a settable Clock. The zero value reports the zero time.
type Fixed struct {
	mu  sync.RWMutex
	now time.Time
}

func NewFixed(now time.Time) *Fixed {
	return &Fixed{now: now}
}

func (f *Fixed) Now() time.Time {
	f.mu.RLock()
	defer f.mu.RUnlock()

	return f.now
}

func (f *Fixed) Set(now time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.now = now
}

func (f *Fixed) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.now = f.now.Add(d)
}

// StartOfDay returns midnight of t's calendar day in t's location.
func StartOfDay(t time.Time) time.Time {
	year, month, day := t.Date()

	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

// DayBounds returns the half-open range [startOfDay, startOfNextDay) containing t.
// The next day is computed by calendar so DST transitions keep exact midnights.
func DayBounds(t time.Time) (time.Time, time.Time) {
	start := StartOfDay(t)

	return start, start.AddDate(0, 0, 1)
}

// SameDay reports whether a and b fall on the same calendar day in a's location.
func SameDay(a, b time.Time) bool {
	start, end := DayBounds(a)
	b = b.In(a.Location())

	return !b.Before(start) && b.Before(end)
}
