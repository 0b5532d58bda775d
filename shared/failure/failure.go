package failure

import (
	"errors"
	"net/http"
)

// Reason classifies a failure beyond its HTTP code so callers can tell apart
// failures that share a status (e.g. conflict vs invalid state).
type Reason string

const (
	ReasonAuthorization    Reason = "authorization"
	ReasonInvalidState     Reason = "invalid_state"
	ReasonAlreadyReturned  Reason = "already_returned"
	ReasonAlreadyResponded Reason = "already_responded"
	ReasonQuotaExceeded    Reason = "quota_exceeded"
	ReasonConflict         Reason = "conflict"
	ReasonNoSlotFound      Reason = "no_slot_found"
)

// Failure is a wrapper for error messages and codes using standard HTTP response codes.
type Failure struct {
	Code    int      `json:"code"`
	Reason  Reason   `json:"reason,omitempty"`
	Message string   `json:"message"`
	Refs    []string `json:"refs,omitempty"`
}

var InvalidPageParam = &Failure{Code: http.StatusBadRequest, Message: "invalid page parameter"}
var InvalidLimitParam = &Failure{Code: http.StatusBadRequest, Message: "invalid limit parameter"}
var ForbiddenError = &Failure{Code: http.StatusForbidden, Message: "You don't have the required permissions"}
var ResourceRestrictedError = &Failure{Code: http.StatusForbidden, Message: "You don't have permission to access this resource"}

// Error returns the error code and message in a formatted string.
func (e *Failure) Error() string {
	return e.Message
}

// BadRequest returns a new Failure with code for bad requests.
func BadRequest(err error) error {
	if err != nil {
		return &Failure{
			Code:    http.StatusBadRequest,
			Message: err.Error(),
		}
	}

	return nil
}

// BadRequestFromString returns a new Failure with code for bad requests with message set from string.
func BadRequestFromString(msg string) error {
	return &Failure{
		Code:    http.StatusBadRequest,
		Message: msg,
	}
}

// Unauthorized returns a new Failure with code for unauthorized requests.
func Unauthorized(msg string) error {
	return &Failure{
		Code:    http.StatusUnauthorized,
		Message: msg,
	}
}

// InternalError returns a new Failure with code for internal error and message derived from an error interface.
func InternalError(err error) error {
	if err != nil {
		return &Failure{
			Code:    http.StatusInternalServerError,
			Message: err.Error(),
		}
	}

	return nil
}

// NotFound returns a new Failure with code for entity not found.
func NotFound(entityName string) error {
	return &Failure{
		Code:    http.StatusNotFound,
		Message: entityName,
	}
}

// Conflict returns a new Failure with code for conflict situations.
// refs lists the identifiers of the colliding entities, if any.
func Conflict(message string, refs ...string) error {
	return &Failure{
		Code:    http.StatusConflict,
		Reason:  ReasonConflict,
		Message: message,
		Refs:    refs,
	}
}

func Forbidden(msg string) error {
	return &Failure{
		Code:    http.StatusForbidden,
		Reason:  ReasonAuthorization,
		Message: msg,
	}
}

// InvalidState returns a new Failure for a transition that is not legal from the current state.
func InvalidState(msg string) error {
	return &Failure{
		Code:    http.StatusConflict,
		Reason:  ReasonInvalidState,
		Message: msg,
	}
}

// AlreadyReturned returns a new Failure for a second return of the same reservation.
func AlreadyReturned(msg string) error {
	return &Failure{
		Code:    http.StatusConflict,
		Reason:  ReasonAlreadyReturned,
		Message: msg,
	}
}

// AlreadyResponded returns a new Failure for a second answer to the same suggestion.
func AlreadyResponded(msg string) error {
	return &Failure{
		Code:    http.StatusConflict,
		Reason:  ReasonAlreadyResponded,
		Message: msg,
	}
}

// QuotaExceeded returns a new Failure for requests over a configured allowance.
func QuotaExceeded(msg string) error {
	return &Failure{
		Code:    http.StatusUnprocessableEntity,
		Reason:  ReasonQuotaExceeded,
		Message: msg,
	}
}

// NoSlotFound returns a new Failure for an exhausted availability search.
func NoSlotFound(msg string) error {
	return &Failure{
		Code:    http.StatusNotFound,
		Reason:  ReasonNoSlotFound,
		Message: msg,
	}
}

// GetCode returns the error code of an error interface.
func GetCode(err error) int {
	var fail *Failure
	if errors.As(err, &fail) {
		return fail.Code
	}

	return http.StatusInternalServerError
}

// GetReason returns the reason of an error interface, empty when it carries none.
func GetReason(err error) Reason {
	var fail *Failure
	if errors.As(err, &fail) {
		return fail.Reason
	}

	return ""
}

// GetRefs returns the referenced identifiers of an error interface.
func GetRefs(err error) []string {
	var fail *Failure
	if errors.As(err, &fail) {
		return fail.Refs
	}

	return nil
}
