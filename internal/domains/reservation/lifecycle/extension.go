package lifecycle

import (
	"fmt"
	"math"
	"strings"
	"time"

	notification "unires/internal/domains/notification/model"
	"unires/internal/domains/reservation/model"
	"unires/shared/clock"
	"unires/shared/failure"
)

// ExtensionDuration converts requested hours to a whole number of minutes.
func ExtensionDuration(hours float64) time.Duration {
	return time.Duration(math.Round(hours*60)) * time.Minute
}

// ExtensionWindow is the interval an extension of hours would newly claim.
// The caller checks it for conflicts before RequestExtension.
func ExtensionWindow(r model.Reservation, hours float64) (time.Time, time.Time) {
	return r.EndTime, r.EndTime.Add(ExtensionDuration(hours))
}

// RequestExtension opens an extension cycle. Conflicts in env are advisory:
// they are passed on to the approver and never block the request.
func RequestExtension(r model.Reservation, requester Actor, hours float64, reason string, env Env) (Result, error) {
	if requester.ID != r.UserID {
		return Result{}, failure.Forbidden("only the owner can request an extension")
	}

	if r.Status != model.StatusApproved && r.Status != model.StatusInUse {
		return Result{}, invalidState("extend", r.Status)
	}

	if r.Extension.Status == model.ExtensionPending {
		return Result{}, failure.Conflict("an extension request is already pending for this reservation")
	}

	if hours <= 0 || ExtensionDuration(hours) <= 0 {
		return Result{}, failure.BadRequestFromString("extension must be at least one minute")
	}

	if err := checkQuota(hours, env); err != nil {
		return Result{}, err
	}

	if r.Extension.OriginalEndTime == nil {
		r.Extension.OriginalEndTime = ptr(r.EndTime)
	}

	r.Extension.Status = model.ExtensionPending
	r.Extension.Reason = reason
	r.Extension.HoursRequested = hours
	r.Extension.RequestedAt = ptr(env.Now)
	r.Extension.ApprovedBy = ""
	r.Extension.ApprovedAt = nil
	r.Extension.RejectionReason = ""

	body := fmt.Sprintf("Extension of %.1f hours requested for reservation %s (ends %s): %s.",
		hours, r.ID, formatTime(r.EndTime), reason)
	if len(env.Conflicts) > 0 {
		body += " Overlaps with: " + strings.Join(env.Conflicts, ", ") + "."
	}

	res := Result{Reservation: r}
	res.notify(notification.RecipientAdmins, notification.TypeExtensionRequested, "Extension requested", body)

	return res, nil
}

// checkQuota refuses hours that would take the owner's approved total for
// the day past the cap.
func checkQuota(hours float64, env Env) error {
	if env.UsedExtensionHoursToday+hours > env.DailyExtensionCapHours+quotaEpsilon {
		return failure.QuotaExceeded(fmt.Sprintf(
			"Daily extension limit exceeded: %.1f hours used today, %.1f hours requested, %.1f hours maximum",
			env.UsedExtensionHoursToday, hours, env.DailyExtensionCapHours,
		))
	}

	return nil
}

// DecideExtension resolves a pending extension. Approval re-checks the cap
// against the hours approved so far on the decision day, then moves EndTime
// and adds to the day's counters, resetting them first when the day rolled
// over.
func DecideExtension(r model.Reservation, approver Actor, approved bool, rejectionReason string, env Env) (Result, error) {
	if r.Extension.Status != model.ExtensionPending {
		return Result{}, failure.InvalidState("no pending extension request for this reservation")
	}

	if !approved {
		r.Extension.Status = model.ExtensionRejected
		r.Extension.RejectionReason = rejectionReason
		r.Extension.ApprovedBy = approver.ID
		r.Extension.ApprovedAt = ptr(env.Now)

		res := Result{Reservation: r}
		res.notify(r.UserID, notification.TypeExtensionRejected, "Extension rejected",
			fmt.Sprintf("Your extension request was rejected: %s.", rejectionReason))

		return res, nil
	}

	if err := checkQuota(r.Extension.HoursRequested, env); err != nil {
		return Result{}, err
	}

	r.Extension.Status = model.ExtensionApproved
	r.Extension.ApprovedBy = approver.ID
	r.Extension.ApprovedAt = ptr(env.Now)
	r.EndTime = r.EndTime.Add(ExtensionDuration(r.Extension.HoursRequested))

	if r.Extension.CounterDay == nil || !clock.SameDay(env.Now, *r.Extension.CounterDay) {
		r.Extension.CounterDay = ptr(clock.StartOfDay(env.Now))
		r.Extension.CountToday = 0
		r.Extension.HoursToday = 0
	}

	r.Extension.CountToday++
	r.Extension.HoursToday += r.Extension.HoursRequested

	res := Result{Reservation: r}
	res.notify(r.UserID, notification.TypeExtensionApproved, "Extension approved",
		fmt.Sprintf("Your reservation now ends at %s.", formatTime(r.EndTime)))

	if r.EscalatedToHod {
		res.notify(notification.RecipientHods, notification.TypeExtensionApproved, "Extension approved on escalated reservation",
			fmt.Sprintf("Reservation %s was extended by %.1f hours and now ends at %s.", r.ID, r.Extension.HoursRequested, formatTime(r.EndTime)))
	}

	return res, nil
}
