package lifecycle

import (
	"fmt"
	"time"

	notification "unires/internal/domains/notification/model"
	"unires/internal/domains/reservation/model"
)

// maxSweepSteps bounds the fixpoint loop; a reservation can take at most
// two time-driven steps in one pass (start, then overdue).
const maxSweepSteps = 4

// Sweep applies every time-driven transition due at now until none applies.
// The second return is false when the reservation was already settled, which
// makes repeated sweeps no-ops.
func Sweep(r model.Reservation, now time.Time) (Result, bool) {
	res := Result{Reservation: r}
	changed := false

	for range maxSweepSteps {
		if !sweepStep(&res, now) {
			break
		}

		changed = true
	}

	return res, changed
}

func sweepStep(res *Result, now time.Time) bool {
	r := &res.Reservation

	switch {
	case r.Status.Approved() && !r.StartTime.After(now):
		r.Status = model.StatusInUse

		return true
	case r.Status == model.StatusInUse && r.EndTime.Before(now) && r.Return.ReturnedAt == nil && !r.IsOverdue:
		r.IsOverdue = true
		r.OverdueFlaggedAt = ptr(now)

		res.notify(r.UserID, notification.TypeReservationOverdue, "Reservation overdue",
			fmt.Sprintf("Your reservation ended at %s and has not been returned.", formatTime(r.EndTime)))

		return true
	case r.Status == model.StatusReturned:
		r.Status = model.StatusCompleted

		return true
	default:
		return false
	}
}

// SweepDue reports whether Sweep would change r at now.
func SweepDue(r model.Reservation, now time.Time) bool {
	_, changed := Sweep(r, now)

	return changed
}
