package lifecycle

import (
	"fmt"

	notification "unires/internal/domains/notification/model"
	"unires/internal/domains/reservation/model"
	"unires/shared/failure"
)

const (
	labelEarlyReturn  = "early return"
	labelLateReturn   = "late return"
	labelOnTimeReturn = "on-time return"
)

// MarkReturned records the hand-back. The instant is classified against the
// current EndTime, which already includes approved extensions.
func MarkReturned(r model.Reservation, admin Actor, condition model.ReturnCondition, notes string, env Env) (Result, error) {
	if r.Return.ReturnedAt != nil {
		return Result{}, failure.AlreadyReturned("this reservation has already been returned")
	}

	switch r.Status {
	case model.StatusApproved, model.StatusHodApproved, model.StatusInUse:
	default:
		return Result{}, invalidState("return", r.Status)
	}

	if !condition.Valid() {
		return Result{}, failure.BadRequestFromString(fmt.Sprintf("unknown return condition %q", condition))
	}

	returnedAt := env.Now

	r.Return = model.Return{
		ReturnedAt:    ptr(returnedAt),
		ReturnedBy:    admin.ID,
		Condition:     condition,
		Notes:         notes,
		IsEarlyReturn: returnedAt.Before(r.EndTime),
		IsLateReturn:  returnedAt.After(r.EndTime),
	}
	r.Status = model.StatusReturned

	res := Result{Reservation: r}
	res.releaseUnits()
	res.notify(r.UserID, notification.TypeEquipmentReturned, "Return recorded",
		fmt.Sprintf("Your return was recorded as %s (condition: %s).", ReturnLabel(r.Return), condition))

	return res, nil
}

// ReturnLabel names the return classification.
func ReturnLabel(ret model.Return) string {
	switch {
	case ret.IsEarlyReturn:
		return labelEarlyReturn
	case ret.IsLateReturn:
		return labelLateReturn
	default:
		return labelOnTimeReturn
	}
}
