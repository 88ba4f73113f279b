package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/resume-analyzer/internal/document"
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// HTTPStatus returns the appropriate HTTP status code for an error. Bad uploads are
// client errors.
func HTTPStatus(err error) int {
	var (
		ve          *ErrValidation
		fieldErrs   validator.ValidationErrors
		unsupported *document.UnsupportedTypeError
		malformed   *document.ReadError
	)
	switch {
	case errors.As(err, &ve), errors.As(err, &fieldErrs), errors.As(err, &unsupported), errors.As(err, &malformed):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// validationDetails lists the failed rules of a validator error, one entry per field.
func validationDetails(err error) []string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return []string{err.Error()}
	}
	details := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		details = append(details, fmt.Sprintf("%s failed on the '%s' rule", fe.Field(), fe.Tag()))
	}
	return details
}
