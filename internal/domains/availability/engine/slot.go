package engine

import (
	"fmt"
	"time"

	"unires/internal/domains/reservation/model"
	"unires/shared/failure"
)

// NextAvailableSlot scans hour-aligned starts inside the daily window over
// HorizonDays calendar days starting with from's day, and returns the first
// start strictly after from where demand is not blocked for the whole
// [start, start+duration). Durations are whole hours.
func NextAvailableSlot(existing []model.Reservation, demand Demand, durationHours int, from time.Time, policy Policy) (Slot, error) {
	if durationHours <= 0 {
		return Slot{}, failure.BadRequestFromString("duration must be at least one hour")
	}

	if durationHours > policy.WindowHours() {
		return Slot{}, failure.NoSlotFound(fmt.Sprintf("a %d hour slot does not fit the %02d:00-%02d:00 window", durationHours, policy.OpenHour, policy.CloseHour))
	}

	duration := time.Duration(durationHours) * time.Hour
	firstDay := policy.DayStart(from)

	for offset := 0; offset < max(policy.HorizonDays, 1); offset++ {
		day := firstDay.AddDate(0, 0, offset)

		for hour := policy.OpenHour; hour+durationHours <= policy.CloseHour; hour++ {
			start := atHour(day, hour)
			if !start.After(from) {
				continue
			}

			end := start.Add(duration)
			if len(demand.Blocking(existing, start, end, "")) == 0 {
				return Slot{Start: start, End: end}, nil
			}
		}
	}

	return Slot{}, failure.NoSlotFound(fmt.Sprintf("no %d hour slot is free in the next %d days", durationHours, policy.HorizonDays))
}
