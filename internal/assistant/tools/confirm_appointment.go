package tools

import (
	"context"
	"fmt"
	"time"

	"medassist/internal/assistant/core"
	"medassist/pkg/logger"
	"medassist/pkg/model"
	"medassist/pkg/sanitizer"
	"medassist/pkg/validation"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
)

const (
	ConfirmAppointmentName = "confirm_appointment"

	confirmedTemplate = "The appointment has been confirmed for %s on %s at %s. Thank you!"
	FailureMessage    = "Sorry, something went wrong. Could you please confirm the department, day, and time again?"

	argsKey         = "args"
	confirmationKey = "confirmation"
)

// AppointmentBooker is the part of the booking service the tool needs.
type AppointmentBooker interface {
	ConfirmAndBook(ctx context.Context, department, weekday, timeOfDay string, now time.Time) (*model.Confirmation, error)
}

type ConfirmAppointmentArgs struct {
	Department string `json:"department" validate:"required,max=200"`
	Day        string `json:"day" validate:"required"`
	Time       string `json:"time" validate:"required,time_of_day"`
}

// ConfirmAppointment books the appointment the caller agreed to and reads
// the confirmation back.
type ConfirmAppointment struct {
	booker   AppointmentBooker
	validate *validator.Validate
	now      func() time.Time
	log      *logger.Logger
}

func NewConfirmAppointment(booker AppointmentBooker, now func() time.Time, log *logger.Logger) (*ConfirmAppointment, error) {
	v, err := validation.New()
	if err != nil {
		return nil, err
	}
	return &ConfirmAppointment{
		booker:   booker,
		validate: v,
		now:      now,
		log:      log,
	}, nil
}

func (t *ConfirmAppointment) Definition() core.ToolDefinition {
	return core.ToolDefinition{
		Type: "function",
		Function: core.FunctionDefinition{
			Name:        ConfirmAppointmentName,
			Description: "Confirm appointment with department, day, and time.",
			Parameters:  core.StringParameters("department", "day", "time"),
		},
	}
}

func (t *ConfirmAppointment) Steps() []*core.Step {
	return []*core.Step{
		core.NewStep("parse_arguments", t.parseArguments),
		core.NewStep("validate_arguments", t.validateArguments),
		core.NewStep("book", t.book),
		core.NewStep("respond", t.respond),
	}
}

func (t *ConfirmAppointment) Fallback(ctx *core.ToolContext, err error) {
	ctx.Reply(core.RoleSystem, FailureMessage)
}

func (t *ConfirmAppointment) parseArguments(ctx *core.ToolContext) error {
	if len(ctx.Call.Arguments) == 0 {
		return core.MissingParamErr("arguments")
	}

	var args ConfirmAppointmentArgs
	if err := json.Unmarshal(ctx.Call.Arguments, &args); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	args.Department = sanitizer.NormalizeName(args.Department)
	args.Day = sanitizer.TrimAndNormalize(args.Day)
	args.Time = sanitizer.TrimAndNormalize(args.Time)

	ctx.Process[argsKey] = args
	return nil
}

func (t *ConfirmAppointment) validateArguments(ctx *core.ToolContext) error {
	args := ctx.Process[argsKey].(ConfirmAppointmentArgs)
	if err := t.validate.Struct(args); err != nil {
		return validation.Translate(err)
	}
	return nil
}

func (t *ConfirmAppointment) book(ctx *core.ToolContext) error {
	args := ctx.Process[argsKey].(ConfirmAppointmentArgs)
	confirmation, err := t.booker.ConfirmAndBook(ctx.Ctx, args.Department, args.Day, args.Time, t.now())
	if err != nil {
		return err
	}

	t.log.Info("Appointment saved", "booking_id", confirmation.BookingID, "department", confirmation.Department)
	ctx.Process[confirmationKey] = confirmation
	return nil
}

func (t *ConfirmAppointment) respond(ctx *core.ToolContext) error {
	c := ctx.Process[confirmationKey].(*model.Confirmation)
	ctx.Reply(core.RoleSystem, ConfirmationMessage(c))
	return nil
}

// ConfirmationMessage reads back the stored slot, so the time is the parsed
// HH:MM form ("9:00" is confirmed as "09:00"), not the caller's wording.
func ConfirmationMessage(c *model.Confirmation) string {
	return fmt.Sprintf(confirmedTemplate, c.Department, c.Date, c.Time)
}
