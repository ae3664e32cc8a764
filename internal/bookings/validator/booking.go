package validator

import (
	"medassist/pkg/logger"
	"medassist/pkg/model"
	"medassist/pkg/validation"
	"time"

	"github.com/go-playground/validator/v10"
)

type BookingValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewBookingValidator(log *logger.Logger) *BookingValidator {
	v, err := validation.New()
	if err != nil {
		log.Fatal("Failed to initialize booking validator", "error", err)
	}

	log.Info("Booking validator initialized successfully")

	return &BookingValidator{
		validate: v,
		logger:   log,
	}
}

func (v *BookingValidator) Validate(booking *model.Booking) error {
	return validation.Translate(v.validate.Struct(booking))
}

// ValidateRequest checks a guarded booking request. Slots must sit on a minute
// boundary so they can match the generated slot instants exactly.
func (v *BookingValidator) ValidateRequest(req *model.BookingRequest) error {
	if err := v.validate.Struct(req); err != nil {
		return validation.Translate(err)
	}

	if !req.BookingTime.Truncate(time.Minute).Equal(req.BookingTime) {
		return validation.ValidationErrors{
			validation.ValidationError{
				Field:   "BookingTime",
				Message: "booking_time must be on a whole minute",
			},
		}
	}

	return nil
}
