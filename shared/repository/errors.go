package repository

import (
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/lib/pq"

	"unires/shared/failure"
)

// IsConstraintViolation reports whether err is a postgres error with one of codes.
func IsConstraintViolation(err error, codes ...string) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}

	for _, code := range codes {
		if string(pqErr.Code) == code {
			return true
		}
	}

	return false
}

// TranslateError maps constraint violations onto failures and leaves other
// errors untouched. conflictMessage is used for exclusion and unique violations.
func TranslateError(err error, conflictMessage string) error {
	switch {
	case err == nil:
		return nil
	case IsConstraintViolation(err, pgerrcode.ExclusionViolation, pgerrcode.UniqueViolation):
		return failure.Conflict(conflictMessage)
	case IsConstraintViolation(err, pgerrcode.ForeignKeyViolation):
		return failure.BadRequestFromString("referenced record does not exist")
	case IsConstraintViolation(err, pgerrcode.CheckViolation):
		return failure.BadRequestFromString("value violates a database check")
	default:
		return err
	}
}
