package lifecycle

import (
	"fmt"

	notification "unires/internal/domains/notification/model"
	"unires/internal/domains/reservation/model"
	"unires/shared/failure"
)

// RespondToSuggestion records the owner's answer to an approver's suggestion.
// Each suggestion can be answered once.
func RespondToSuggestion(r model.Reservation, owner Actor, acknowledged bool, reason string, env Env) (Result, error) {
	if owner.ID != r.UserID {
		return Result{}, failure.Forbidden("only the owner can respond to a suggestion")
	}

	if r.Status == model.StatusHodRejected {
		return Result{}, failure.InvalidState("the head of department has already rejected this reservation")
	}

	if r.AdminSuggestion == "" {
		return Result{}, failure.InvalidState("there is no suggestion to respond to")
	}

	if r.SuggestionAcknowledged != nil {
		return Result{}, failure.AlreadyResponded("this suggestion has already been answered")
	}

	r.SuggestionAcknowledged = ptr(acknowledged)
	r.SuggestionResponseReason = reason
	r.SuggestionRespondedAt = ptr(env.Now)

	verdict := "declined"
	if acknowledged {
		verdict = "accepted"
	}

	body := fmt.Sprintf("The owner of reservation %s %s your suggestion.", r.ID, verdict)
	if reason != "" {
		body = fmt.Sprintf("The owner of reservation %s %s your suggestion: %s.", r.ID, verdict, reason)
	}

	recipient := r.SuggestedBy
	if recipient == "" {
		recipient = notification.RecipientAdmins
	}

	res := Result{Reservation: r}
	res.notify(recipient, notification.TypeSuggestionResponded, "Suggestion answered", body)

	return res, nil
}
