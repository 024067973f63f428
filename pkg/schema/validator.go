// Package schema validates inbound request payloads
package schema

import (
	"net/http"
	"strings"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/go-playground/validator/v10"
)

// ValidationError represents a single validation error
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Validator validates request structs using their validate tags
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a new request validator
func NewValidator() *Validator {
	return &Validator{
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Validate checks the struct's validate tags and returns a 400 HTTP error
// describing every failed field
func (v *Validator) Validate(payload any) error {
	err := v.validate.Struct(payload)
	if err == nil {
		return nil
	}

	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid request payload")
	}

	messages := make([]string, 0, len(validationErrs))
	for _, fe := range validationErrs {
		messages = append(messages, fieldMessage(fe))
	}

	return httperror.NewHTTPError(http.StatusBadRequest, strings.Join(messages, "; "))
}

// Errors returns the failed fields as structured errors, for callers that
// want to build their own response body
func (v *Validator) Errors(payload any) []ValidationError {
	err := v.validate.Struct(payload)
	if err == nil {
		return nil
	}

	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []ValidationError{{Field: "", Message: "invalid request payload"}}
	}

	errs := make([]ValidationError, 0, len(validationErrs))
	for _, fe := range validationErrs {
		errs = append(errs, ValidationError{
			Field:   fe.Field(),
			Message: fieldMessage(fe),
		})
	}
	return errs
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "gte":
		return fe.Field() + " must be at least " + fe.Param()
	case "lte":
		return fe.Field() + " must be at most " + fe.Param()
	case "oneof":
		return fe.Field() + " must be one of: " + fe.Param()
	default:
		return fe.Field() + " is invalid"
	}
}
