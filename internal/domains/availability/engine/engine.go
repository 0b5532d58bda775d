// Package engine holds the availability computations over in-memory
// reservation snapshots: overlap checks, the next-slot search, free slots,
// gaps, utilization and occupancy. Nothing here touches storage or the clock.
package engine

import (
	"slices"
	"time"

	"unires/config"
	"unires/internal/domains/reservation/model"
	resource "unires/internal/domains/resource/model"
	"unires/shared/clock"
	"unires/shared/constant"
	"unires/shared/timezone"
)

// Policy is the daily operating window and the next-slot search horizon.
type Policy struct {
	OpenHour    int
	CloseHour   int
	HorizonDays int
	Location    *time.Location
}

func NewPolicy(cfg *config.Config) Policy {
	return Policy{
		OpenHour:    cfg.Reservation.OpenHour,
		CloseHour:   cfg.Reservation.CloseHour,
		HorizonDays: cfg.Reservation.SearchHorizonDays,
		Location:    timezone.GetLocation(),
	}
}

// WindowHours is the length of the daily operating window.
func (p Policy) WindowHours() int {
	if p.CloseHour <= p.OpenHour {
		return 0
	}

	return p.CloseHour - p.OpenHour
}

// Window returns the operating window of day's calendar day in the policy location.
func (p Policy) Window(day time.Time) (time.Time, time.Time) {
	start := p.DayStart(day)

	return atHour(start, p.OpenHour), atHour(start, p.CloseHour)
}

// DayStart is local midnight of t's calendar day in the policy location.
func (p Policy) DayStart(t time.Time) time.Time {
	return clock.StartOfDay(t.In(p.location()))
}

// ForResource narrows the policy to a room's own opening hours when it has them.
func (p Policy) ForResource(res resource.Resource) Policy {
	if res.HasOwnHours() && res.CloseHour <= constant.HoursInDay {
		p.OpenHour = res.OpenHour
		p.CloseHour = res.CloseHour
	}

	return p
}

func (p Policy) location() *time.Location {
	if p.Location == nil {
		return time.UTC
	}

	return p.Location
}

// atHour adds hours by wall clock so DST days keep their nominal window.
func atHour(midnight time.Time, hour int) time.Time {
	year, month, day := midnight.Date()

	return time.Date(year, month, day, hour, 0, 0, 0, midnight.Location())
}

// Slot is a half-open interval [Start, End).
type Slot struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

func (s Slot) Duration() time.Duration {
	return s.End.Sub(s.Start)
}

func (s Slot) Minutes() int {
	return int(s.Duration() / time.Minute)
}

// sortedUsed keeps reservations that count towards availability and orders
// them by start, then end, then ID. The input is not modified.
func sortedUsed(reservations []model.Reservation) []model.Reservation {
	used := make([]model.Reservation, 0, len(reservations))

	for _, r := range reservations {
		if r.Status.Used() && r.StartTime.Before(r.EndTime) {
			used = append(used, r)
		}
	}

	slices.SortStableFunc(used, func(a, b model.Reservation) int {
		if c := a.StartTime.Compare(b.StartTime); c != 0 {
			return c
		}

		if c := a.EndTime.Compare(b.EndTime); c != 0 {
			return c
		}

		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		default:
			return 0
		}
	})

	return used
}
