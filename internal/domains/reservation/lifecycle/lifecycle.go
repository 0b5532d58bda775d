// Package lifecycle holds the reservation state machine as pure functions.
//
// Every operation takes a reservation value, the caller's input and an Env
// snapshot, and returns the next reservation value plus the side effects the
// caller must carry out. Nothing here reads the clock or touches storage, so
// the caller decides how the state check and the write are made atomic.
package lifecycle

import (
	"time"

	notification "unires/internal/domains/notification/model"
	"unires/internal/domains/reservation/model"
)

// quotaEpsilon absorbs float error when summing fractional hours.
const quotaEpsilon = 1e-9

type Env struct {
	Now time.Time

	DailyExtensionCapHours float64
	AutoApproveRooms       bool

	// UsedExtensionHoursToday is the owner's approved extension total for
	// the calendar day containing Now, across all reservations.
	UsedExtensionHoursToday float64

	// Conflicts are the IDs of occupying reservations overlapping the window
	// the operation is about to claim.
	Conflicts []string
}

type EffectKind string

const (
	EffectNotify       EffectKind = "notify"
	EffectReserveUnits EffectKind = "reserve_units"
	EffectReleaseUnits EffectKind = "release_units"
)

type Effect struct {
	Kind       EffectKind
	Message    notification.Message
	ResourceID string
	Quantity   int
}

type Result struct {
	Reservation model.Reservation
	Effects     []Effect
}

// Messages returns the notifications among the effects, in order.
func (r Result) Messages() []notification.Message {
	var messages []notification.Message

	for _, effect := range r.Effects {
		if effect.Kind == EffectNotify {
			messages = append(messages, effect.Message)
		}
	}

	return messages
}

type Actor struct {
	ID   string
	Role string
}

func (r *Result) notify(recipient string, kind notification.Type, subject, body string) {
	r.Effects = append(r.Effects, Effect{
		Kind: EffectNotify,
		Message: notification.Message{
			Recipient:     recipient,
			Subject:       subject,
			Body:          body,
			Type:          kind,
			ReservationID: r.Reservation.ID,
		},
	})
}

func (r *Result) reserveUnits() {
	if !r.Reservation.HoldsUnits() {
		return
	}

	r.Effects = append(r.Effects, Effect{
		Kind:       EffectReserveUnits,
		ResourceID: r.Reservation.ResourceID,
		Quantity:   r.Reservation.Quantity,
	})
}

func (r *Result) releaseUnits() {
	if !r.Reservation.HoldsUnits() {
		return
	}

	r.Effects = append(r.Effects, Effect{
		Kind:       EffectReleaseUnits,
		ResourceID: r.Reservation.ResourceID,
		Quantity:   r.Reservation.Quantity,
	})
}

func ptr[T any](v T) *T {
	return &v
}

func formatTime(t time.Time) string {
	return t.Format("2006-01-02 15:04")
}
