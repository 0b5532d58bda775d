package validator

import (
	"errors"
	"strings"

	val "github.com/go-playground/validator/v10"
)

var messages = map[string]string{
	"required": "{field} is required",
	"gt":       "{field} must be greater than {param}",
	"gte":      "{field} must be greater than or equal to {param}",
	"min":      "{field} must be greater than or equal to {param}",
	"lte":      "{field} must be less than or equal to {param}",
	"max":      "{field} must be less than or equal to {param}",
	"oneof":    "{field} must be one of {param}",
	"gtfield":  "{field} must be after {param}",
	"uuid":     "{field} must be a valid UUID",
	"email":    "{field} must be a valid email address",
	"enum":     "{field} has an unsupported value",
	"empty":    "{field} must not be set",
}

// message turns validation errors into one line per failing field, joined
// with "; ". Tags without a template fall back to a generic line.
func message(err error) string {
	var valErrors val.ValidationErrors
	if !errors.As(err, &valErrors) {
		return err.Error()
	}

	lines := make([]string, 0, len(valErrors))

	for _, fieldErr := range valErrors {
		field := fieldErr.Field()
		if field == "" {
			field = "value"
		}

		template, ok := messages[fieldErr.Tag()]
		if !ok {
			template = "{field} is invalid"
		}

		lines = append(lines, strings.NewReplacer("{field}", field, "{param}", fieldErr.Param()).Replace(template))
	}

	return strings.Join(lines, "; ")
}
