package content

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// messages holds the error text reported for each required field.
var messages = map[string]string{
	"Title":   "Title is required",
	"Content": "Content is required",
}

// validateCreate checks a normalized command. The first failing field,
// in declaration order, is reported.
func validateCreate(cmd CreateCommand) error {
	err := validate.Struct(cmd)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return &ValidationError{Message: err.Error()}
	}

	field := fieldErrs[0].StructField()
	msg, ok := messages[field]
	if !ok {
		msg = field + " is invalid"
	}

	return &ValidationError{
		Field:   strings.ToLower(field),
		Message: msg,
	}
}
