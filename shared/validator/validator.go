package validator

import (
	"encoding/json"
	"fmt"
	"io"

	val "github.com/go-playground/validator/v10"

	"unires/shared/failure"
)

var validate *val.Validate

type enum interface {
	Valid() bool
}

func init() {
	validate = val.New(val.WithRequiredStructEnabled())

	// enum accepts closed string sets that know their own members.
	err := validate.RegisterValidation("enum", func(fl val.FieldLevel) bool {
		value, ok := fl.Field().Interface().(enum)
		if !ok {
			return false
		}

		return value.Valid()
	})
	if err != nil {
		panic(err)
	}

	err = validate.RegisterValidation("empty", func(fl val.FieldLevel) bool {
		return fl.Field().IsZero()
	})
	if err != nil {
		panic(err)
	}
}

// Validate decodes JSON from r into data and validates the result.
// https://github.com/go-playground/validator
func Validate[T any](r io.Reader, data *T) error {
	decoder := json.NewDecoder(r)
	decoder.DisallowUnknownFields()

	err := decoder.Decode(data)
	if err != nil {
		return failure.BadRequest(fmt.Errorf("failed to decode request body: %w", err)) //nolint:wrapcheck
	}

	return ValidateStruct(data)
}

func ValidateStruct[T any](data *T) error {
	err := validate.Struct(data)
	if err != nil {
		return failure.BadRequestFromString(message(err)) //nolint:wrapcheck
	}

	return nil
}

func ValidateVar(field any, tag string) error {
	err := validate.Var(field, tag)
	if err != nil {
		return failure.BadRequestFromString(message(err)) //nolint:wrapcheck
	}

	return nil
}
