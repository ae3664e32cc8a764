// Package validation holds the validator tags and error translation shared by
// the per-domain validators.
package validation

import (
	"errors"
	"fmt"
	"strings"

	"medassist/pkg/calendar"

	"github.com/go-playground/validator/v10"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

// New returns a validator with the domain tags registered:
//
//	weekday      canonical English weekday name
//	time_of_day  "HH:MM", 00:00-23:59
//	time_after   "HH:MM" strictly later than the named sibling field
func New() (*validator.Validate, error) {
	v := validator.New()

	if err := v.RegisterValidation("weekday", validateWeekday); err != nil {
		return nil, fmt.Errorf("failed to register 'weekday' validator: %w", err)
	}
	if err := v.RegisterValidation("time_of_day", validateTimeOfDay); err != nil {
		return nil, fmt.Errorf("failed to register 'time_of_day' validator: %w", err)
	}
	if err := v.RegisterValidation("time_after", validateTimeAfter); err != nil {
		return nil, fmt.Errorf("failed to register 'time_after' validator: %w", err)
	}

	return v, nil
}

func validateWeekday(fl validator.FieldLevel) bool {
	_, err := calendar.ParseWeekday(fl.Field().String())
	return err == nil
}

func validateTimeOfDay(fl validator.FieldLevel) bool {
	_, err := calendar.ParseTimeOfDay(strings.TrimSpace(fl.Field().String()))
	return err == nil
}

func validateTimeAfter(fl validator.FieldLevel) bool {
	other, _, _, ok := fl.GetStructFieldOKAdvanced2(fl.Parent(), fl.Param())
	if !ok {
		return false
	}
	end, err := calendar.ParseTimeOfDay(fl.Field().String())
	if err != nil {
		return false
	}
	start, err := calendar.ParseTimeOfDay(other.String())
	if err != nil {
		return false
	}
	return end > start
}

// Translate converts validator errors into field/message pairs. Other errors
// are returned unchanged.
func Translate(err error) error {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return err
	}

	var validationErrors ValidationErrors
	for _, err := range errs {
		message := err.Error()

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
		case "min":
			message = fmt.Sprintf("%s must be at least %s", err.Field(), err.Param())
		case "max":
			message = fmt.Sprintf("%s must be at most %s", err.Field(), err.Param())
		case "mongodb":
			message = fmt.Sprintf("%s must be a valid MongoDB ObjectID", err.Field())
		case "oneof":
			message = fmt.Sprintf("%s must be one of: %s", err.Field(), err.Param())
		case "weekday":
			message = fmt.Sprintf("%s must be a weekday name such as Monday", err.Field())
		case "time_of_day":
			message = fmt.Sprintf("%s must be in HH:MM format (00:00-23:59)", err.Field())
		case "time_after":
			message = fmt.Sprintf("%s must be after %s", err.Field(), err.Param())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}
