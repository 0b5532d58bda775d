package lifecycle

import (
	"fmt"
	"strings"
	"time"

	notification "unires/internal/domains/notification/model"
	"unires/internal/domains/reservation/model"
	"unires/shared/failure"
)

// Create admits a new reservation. Conflicts block creation; rooms may be
// approved on the spot when the deployment allows it.
func Create(r model.Reservation, env Env) (Result, error) {
	if !r.StartTime.Before(r.EndTime) {
		return Result{}, failure.BadRequestFromString("start time must be before end time")
	}

	if r.StartTime.Before(env.Now) {
		return Result{}, failure.BadRequestFromString("start time must not be in the past")
	}

	if len(env.Conflicts) > 0 {
		return Result{}, conflictError(env.Conflicts)
	}

	r.Status = model.StatusPending
	res := Result{Reservation: r}

	if r.Kind == model.KindRoomBooking && env.AutoApproveRooms {
		res.Reservation.Status = model.StatusApproved
		res.Reservation.ApprovedAt = ptr(env.Now)
		res.notify(r.UserID, notification.TypeReservationApproved, "Booking confirmed",
			fmt.Sprintf("Your booking from %s to %s is confirmed.", formatTime(r.StartTime), formatTime(r.EndTime)))

		return res, nil
	}

	res.notify(notification.RecipientAdmins, notification.TypeReservationCreated, "New reservation awaiting approval",
		fmt.Sprintf("Reservation %s from %s to %s awaits approval.", r.ID, formatTime(r.StartTime), formatTime(r.EndTime)))

	return res, nil
}

func Approve(r model.Reservation, approver Actor, env Env) (Result, error) {
	if r.Status != model.StatusPending {
		return Result{}, invalidState("approve", r.Status)
	}

	r.Status = model.StatusApproved
	r.ApprovedBy = approver.ID
	r.ApprovedAt = ptr(env.Now)

	res := Result{Reservation: r}
	res.reserveUnits()
	res.notify(r.UserID, notification.TypeReservationApproved, "Reservation approved",
		fmt.Sprintf("Your reservation from %s to %s was approved.", formatTime(r.StartTime), formatTime(r.EndTime)))

	return res, nil
}

// Reject declines a pending reservation. A non-empty suggestion opens the
// suggestion flow answered through RespondToSuggestion.
func Reject(r model.Reservation, approver Actor, reason, suggestion string, env Env) (Result, error) {
	if r.Status != model.StatusPending {
		return Result{}, invalidState("reject", r.Status)
	}

	r.Status = model.StatusRejected
	r.ApprovedBy = approver.ID
	r.ApprovedAt = ptr(env.Now)
	r.RejectionReason = reason

	body := "Your reservation was rejected."
	if reason != "" {
		body = fmt.Sprintf("Your reservation was rejected: %s.", reason)
	}

	if suggestion != "" {
		r.AdminSuggestion = suggestion
		r.SuggestedBy = approver.ID
		r.SuggestionAcknowledged = nil
		body += " Suggestion: " + suggestion
	}

	res := Result{Reservation: r}
	res.notify(r.UserID, notification.TypeReservationRejected, "Reservation rejected", body)

	return res, nil
}

// Escalate routes a pending reservation to the head of department.
func Escalate(r model.Reservation, approver Actor, reason, suggestion string, env Env) (Result, error) {
	if r.Status != model.StatusPending {
		return Result{}, invalidState("escalate", r.Status)
	}

	r.Status = model.StatusEscalated
	r.EscalatedToHod = true
	r.EscalatedAt = ptr(env.Now)
	r.EscalationReason = reason

	if suggestion != "" {
		r.AdminSuggestion = suggestion
		r.SuggestedBy = approver.ID
		r.SuggestionAcknowledged = nil
	}

	res := Result{Reservation: r}
	res.notify(notification.RecipientHods, notification.TypeReservationEscalated, "Reservation escalated for review",
		fmt.Sprintf("Reservation %s was escalated by %s: %s.", r.ID, approver.ID, reason))
	res.notify(r.UserID, notification.TypeReservationEscalated, "Reservation escalated",
		"Your reservation was forwarded to the head of department for a decision.")

	return res, nil
}

func HodDecide(r model.Reservation, hod Actor, approved bool, reason string, env Env) (Result, error) {
	if r.Status != model.StatusEscalated {
		return Result{}, invalidState("decide on", r.Status)
	}

	r.HodReviewedBy = hod.ID
	r.HodReviewedAt = ptr(env.Now)

	res := Result{}

	if approved {
		r.Status = model.StatusHodApproved
		res.Reservation = r
		res.reserveUnits()
		res.notify(r.UserID, notification.TypeHodDecision, "Reservation approved by head of department",
			fmt.Sprintf("Your reservation from %s to %s was approved.", formatTime(r.StartTime), formatTime(r.EndTime)))

		return res, nil
	}

	r.Status = model.StatusHodRejected
	r.RejectionReason = reason
	res.Reservation = r
	res.notify(r.UserID, notification.TypeHodDecision, "Reservation rejected by head of department",
		fmt.Sprintf("Your reservation was rejected: %s.", reason))

	return res, nil
}

// Cancel withdraws a reservation that has not started. Units held by an
// approved equipment request are released.
func Cancel(r model.Reservation, actor Actor, reason string, env Env) (Result, error) {
	if actor.ID != r.UserID && !actor.IsAdmin() {
		return Result{}, failure.Forbidden("only the owner or an admin can cancel this reservation")
	}

	if !r.Status.Cancellable() {
		return Result{}, invalidState("cancel", r.Status)
	}

	heldUnits := r.Status.Approved()

	r.Status = model.StatusCancelled
	r.CancelledBy = actor.ID
	r.CancelledAt = ptr(env.Now)
	r.CancellationReason = reason

	res := Result{Reservation: r}
	if heldUnits {
		res.releaseUnits()
	}

	if actor.ID == r.UserID {
		res.notify(notification.RecipientAdmins, notification.TypeReservationCancelled, "Reservation cancelled by owner",
			fmt.Sprintf("Reservation %s was cancelled by its owner.", r.ID))
	} else {
		res.notify(r.UserID, notification.TypeReservationCancelled, "Reservation cancelled",
			fmt.Sprintf("Your reservation from %s to %s was cancelled by an administrator.", formatTime(r.StartTime), formatTime(r.EndTime)))
	}

	return res, nil
}

// Reschedule moves a reservation that has not started to a new window.
// An approved reservation goes back to PENDING for a fresh decision.
func Reschedule(r model.Reservation, owner Actor, start, end time.Time, env Env) (Result, error) {
	if owner.ID != r.UserID {
		return Result{}, failure.Forbidden("only the owner can reschedule this reservation")
	}

	if r.Status != model.StatusPending && !r.Status.Approved() {
		return Result{}, invalidState("reschedule", r.Status)
	}

	if !start.Before(end) {
		return Result{}, failure.BadRequestFromString("start time must be before end time")
	}

	if start.Before(env.Now) {
		return Result{}, failure.BadRequestFromString("start time must not be in the past")
	}

	if len(env.Conflicts) > 0 {
		return Result{}, conflictError(env.Conflicts)
	}

	heldUnits := r.Status.Approved()

	res := Result{Reservation: r}
	if heldUnits {
		res.releaseUnits()
	}

	res.Reservation.StartTime = start
	res.Reservation.EndTime = end
	res.Reservation.Status = model.StatusPending
	res.Reservation.ApprovedBy = ""
	res.Reservation.ApprovedAt = nil

	res.notify(notification.RecipientAdmins, notification.TypeReservationRescheduled, "Reservation rescheduled",
		fmt.Sprintf("Reservation %s moved to %s - %s and awaits approval.", r.ID, formatTime(start), formatTime(end)))

	return res, nil
}

func invalidState(action string, status model.Status) error {
	return failure.InvalidState(fmt.Sprintf("cannot %s a reservation in status %s", action, status))
}

func conflictError(ids []string) error {
	return failure.Conflict("time window overlaps existing reservations: "+strings.Join(ids, ", "), ids...)
}
