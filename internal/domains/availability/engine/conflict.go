package engine

import (
	"slices"
	"time"

	"unires/internal/domains/reservation/model"
	resource "unires/internal/domains/resource/model"
)

// Demand is what a booking asks of a resource. The zero value is exclusive
// use, as for a room. A pooled demand takes Units out of Capacity.
type Demand struct {
	Units    int
	Capacity int
}

// DemandOf is the demand a booking of units makes on target: the unit pool
// for equipment, exclusive use for anything else.
func DemandOf(target resource.Resource, units int) Demand {
	if target.Kind != resource.KindEquipment || target.Quantity <= 0 {
		return Demand{}
	}

	return Demand{Units: max(units, 1), Capacity: target.Quantity}
}

// Blocking returns the IDs of reservations that keep d from [start, end).
func (d Demand) Blocking(existing []model.Reservation, start, end time.Time, excludeID string) []string {
	if d.Capacity > 0 {
		return UnitConflicts(existing, start, end, excludeID, max(d.Units, 1), d.Capacity)
	}

	return Conflicts(existing, start, end, excludeID)
}

// Overlaps reports whether [aStart, aEnd) and [bStart, bEnd) share an instant.
// Back-to-back intervals do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}

// Conflicts returns the IDs of reservations that hold the resource somewhere in
// [start, end). excludeID skips the reservation being rescheduled or extended.
func Conflicts(existing []model.Reservation, start, end time.Time, excludeID string) []string {
	var ids []string

	for _, r := range existing {
		if r.ID == excludeID || !r.Status.Occupies() {
			continue
		}

		if Overlaps(r.StartTime, r.EndTime, start, end) {
			ids = append(ids, r.ID)
		}
	}

	return ids
}

func HasConflict(existing []model.Reservation, start, end time.Time, excludeID string) bool {
	return len(Conflicts(existing, start, end, excludeID)) > 0
}

// UnitConflicts is Conflicts for a pooled resource. The window only collides
// when, at some instant, the units already held plus requested exceed
// capacity. Every overlapping holder is reported in that case. Callers reject
// requested > capacity before asking.
func UnitConflicts(existing []model.Reservation, start, end time.Time, excludeID string, requested, capacity int) []string {
	type event struct {
		at    time.Time
		delta int
	}

	var (
		ids    []string
		events []event
	)

	for _, r := range existing {
		if r.ID == excludeID || !r.Status.Occupies() || !Overlaps(r.StartTime, r.EndTime, start, end) {
			continue
		}

		units := max(r.Quantity, 1)
		ids = append(ids, r.ID)
		events = append(events,
			event{at: later(r.StartTime, start), delta: units},
			event{at: earlier(r.EndTime, end), delta: -units},
		)
	}

	// releases sort before claims at the same instant
	slices.SortFunc(events, func(a, b event) int {
		if c := a.at.Compare(b.at); c != 0 {
			return c
		}

		return a.delta - b.delta
	})

	held := 0

	for _, e := range events {
		held += e.delta
		if held+requested > capacity {
			return ids
		}
	}

	return nil
}

func later(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}

	return b
}

func earlier(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}

	return b
}
