package engine

import (
	"time"

	"unires/internal/domains/reservation/model"
	resource "unires/internal/domains/resource/model"
)

// FreeSlots walks [windowStart, windowEnd) in start order and returns the
// stretches no used reservation covers. Zero-length slots are never emitted.
func FreeSlots(windowStart, windowEnd time.Time, reservations []model.Reservation) []Slot {
	slots := []Slot{}
	if !windowStart.Before(windowEnd) {
		return slots
	}

	cursor := windowStart

	for _, r := range sortedUsed(reservations) {
		if !r.EndTime.After(windowStart) || !r.StartTime.Before(windowEnd) {
			continue
		}

		if cursor.Before(r.StartTime) {
			slots = append(slots, Slot{Start: cursor, End: r.StartTime})
		}

		if r.EndTime.After(cursor) {
			cursor = r.EndTime
		}
	}

	if cursor.Before(windowEnd) {
		slots = append(slots, Slot{Start: cursor, End: windowEnd})
	}

	return slots
}

// Gaps is FreeSlots over an arbitrary range keeping slots of at least minGapMinutes.
func Gaps(start, end time.Time, reservations []model.Reservation, minGapMinutes int) []Slot {
	minGap := time.Duration(minGapMinutes) * time.Minute
	gaps := []Slot{}

	for _, slot := range FreeSlots(start, end, reservations) {
		if slot.Duration() >= minGap {
			gaps = append(gaps, slot)
		}
	}

	return gaps
}

// BookedSlots returns the used reservations clipped to the window, in start order.
func BookedSlots(windowStart, windowEnd time.Time, reservations []model.Reservation) []Slot {
	booked := []Slot{}

	for _, r := range sortedUsed(reservations) {
		if slot, ok := clip(r, windowStart, windowEnd); ok {
			booked = append(booked, slot)
		}
	}

	return booked
}

// Utilization is booked hours over available hours for the period, as a
// percentage. Reservations are clipped to [periodStart, periodEnd). Overlapping
// bookings can push the value above 100.
func Utilization(reservations []model.Reservation, periodStart, periodEnd time.Time, days int, dailyWindowHours float64) float64 {
	denominator := dailyWindowHours * float64(days)
	if len(reservations) == 0 || denominator <= 0 {
		return 0
	}

	var booked time.Duration

	for _, r := range sortedUsed(reservations) {
		if slot, ok := clip(r, periodStart, periodEnd); ok {
			booked += slot.Duration()
		}
	}

	return booked.Hours() / denominator * 100
}

// Day is the availability of one resource over one operating day.
type Day struct {
	ResourceID  string
	Date        time.Time
	WindowStart time.Time
	WindowEnd   time.Time
	Free        []Slot
	Booked      []Slot
	Utilization float64
}

// DayAvailability uses the resource's own opening hours when it has them.
func DayAvailability(res resource.Resource, day time.Time, reservations []model.Reservation, policy Policy) Day {
	policy = policy.ForResource(res)
	start, end := policy.Window(day)

	own := make([]model.Reservation, 0, len(reservations))

	for _, r := range reservations {
		if r.ResourceID == res.ID {
			own = append(own, r)
		}
	}

	return Day{
		ResourceID:  res.ID,
		Date:        atHour(start, 0),
		WindowStart: start,
		WindowEnd:   end,
		Free:        FreeSlots(start, end, own),
		Booked:      BookedSlots(start, end, own),
		Utilization: Utilization(own, start, end, 1, float64(policy.WindowHours())),
	}
}

func clip(r model.Reservation, start, end time.Time) (Slot, bool) {
	slot := Slot{Start: r.StartTime, End: r.EndTime}

	if slot.Start.Before(start) {
		slot.Start = start
	}

	if slot.End.After(end) {
		slot.End = end
	}

	return slot, slot.Start.Before(slot.End)
}
