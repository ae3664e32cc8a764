package tools

import (
	"context"
	"errors"
	"testing"
	"time"

	"medassist/internal/assistant/core"
	apperrors "medassist/pkg/errors"
	"medassist/pkg/logger"
	"medassist/pkg/model"
)

var testNow = time.Date(2024, 6, 5, 8, 0, 0, 0, time.UTC)

type stubBooker struct {
	calls      int
	department string
	weekday    string
	timeOfDay  string
	now        time.Time
	err        error
}

func (s *stubBooker) ConfirmAndBook(ctx context.Context, department, weekday, timeOfDay string, now time.Time) (*model.Confirmation, error) {
	s.calls++
	s.department, s.weekday, s.timeOfDay, s.now = department, weekday, timeOfDay, now
	if s.err != nil {
		return nil, s.err
	}
	return &model.Confirmation{
		BookingID:  "665f1c2a9b1e8a3d4c5b6b01",
		Department: department,
		Date:       "2024-06-10",
		Time:       timeOfDay,
	}, nil
}

func newEngine(t *testing.T, booker AppointmentBooker) *core.Engine {
	t.Helper()
	tool, err := NewConfirmAppointment(booker, func() time.Time { return testNow }, logger.Nop())
	if err != nil {
		t.Fatalf("NewConfirmAppointment() error = %v", err)
	}
	return core.NewEngine(core.NewLimiter(4), logger.Nop(), tool)
}

func call(args string) core.ToolCall {
	return core.ToolCall{ID: "call-1", Name: ConfirmAppointmentName, Arguments: []byte(args)}
}

func TestConfirmAppointment_Success(t *testing.T) {
	booker := &stubBooker{}
	engine := newEngine(t, booker)

	msgs, err := engine.Run(context.Background(), call(`{"department":" Cardiology ","day":"Monday","time":"09:30"}`))
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	want := "The appointment has been confirmed for Cardiology on 2024-06-10 at 09:30. Thank you!"
	if len(msgs) != 1 || msgs[0].Content != want || msgs[0].Role != core.RoleSystem {
		t.Fatalf("messages = %+v", msgs)
	}
	if booker.department != "Cardiology" || booker.weekday != "Monday" || booker.timeOfDay != "09:30" {
		t.Errorf("booker got %q %q %q", booker.department, booker.weekday, booker.timeOfDay)
	}
	if !booker.now.Equal(testNow) {
		t.Errorf("now = %v", booker.now)
	}
}

func TestConfirmAppointment_Failures(t *testing.T) {
	tests := []struct {
		name      string
		args      string
		bookerErr error
		wantCalls int
	}{
		{"malformed json", `{"department":`, nil, 0},
		{"missing arguments", ``, nil, 0},
		{"missing day", `{"department":"Cardiology","time":"09:00"}`, nil, 0},
		{"bad time", `{"department":"Cardiology","day":"Monday","time":"half past nine"}`, nil, 0},
		{"invalid weekday", `{"department":"Cardiology","day":"Funday","time":"09:00"}`, apperrors.InvalidInput("Invalid weekday"), 1},
		{"unknown department", `{"department":"Dermatology","day":"Monday","time":"09:00"}`, apperrors.NotFound("Department"), 1},
		{"store failure", `{"department":"Cardiology","day":"Monday","time":"09:00"}`, errors.New("connection reset"), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			booker := &stubBooker{err: tt.bookerErr}
			engine := newEngine(t, booker)

			msgs, err := engine.Run(context.Background(), call(tt.args))
			if err == nil {
				t.Fatal("expected error")
			}
			if len(msgs) != 1 || msgs[0].Content != FailureMessage || msgs[0].Role != core.RoleSystem {
				t.Errorf("messages = %+v", msgs)
			}
			if booker.calls != tt.wantCalls {
				t.Errorf("booker calls = %d, want %d", booker.calls, tt.wantCalls)
			}
		})
	}
}

func TestConfirmAppointment_Definition(t *testing.T) {
	tool, err := NewConfirmAppointment(&stubBooker{}, time.Now, logger.Nop())
	if err != nil {
		t.Fatalf("NewConfirmAppointment() error = %v", err)
	}

	def := tool.Definition()
	if def.Type != "function" || def.Function.Name != "confirm_appointment" {
		t.Errorf("definition = %+v", def)
	}
	required, ok := def.Function.Parameters["required"].([]string)
	if !ok || len(required) != 3 {
		t.Fatalf("required = %#v", def.Function.Parameters["required"])
	}
	for i, name := range []string{"department", "day", "time"} {
		if required[i] != name {
			t.Errorf("required[%d] = %q, want %q", i, required[i], name)
		}
	}
}
