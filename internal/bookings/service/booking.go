package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	bookingserrors "medassist/internal/bookings/errors"
	"medassist/internal/bookings/events"
	"medassist/internal/bookings/repository"
	"medassist/internal/bookings/validator"
	departmentserrors "medassist/internal/departments/errors"
	departmentsrepository "medassist/internal/departments/repository"
	"medassist/pkg/calendar"
	"medassist/pkg/config"
	mongostore "medassist/pkg/db/mongo"
	apperrors "medassist/pkg/errors"
	"medassist/pkg/model"
)

const slotTakenMessage = "This time slot is no longer available. Please choose another one."

type BookingService interface {
	// ConfirmAndBook books department on the next occurrence of weekday at
	// timeOfDay. It does not check availability first.
	ConfirmAndBook(ctx context.Context, department, weekday, timeOfDay string, now time.Time) (*model.Confirmation, error)
	IsAvailable(ctx context.Context, departmentID string, at time.Time) (bool, error)
	Book(ctx context.Context, departmentID, userID string, at time.Time) (*model.Booking, error)
	// CheckAndBook books the slot only when no booked booking holds it.
	CheckAndBook(ctx context.Context, departmentID, userID string, at time.Time) (*model.Booking, error)
}

type bookingService struct {
	repo        repository.BookingRepository
	lockRepo    repository.BookingLockRepository
	departments departmentsrepository.DepartmentRepository
	validator   *validator.BookingValidator
	publisher   events.Publisher
	cfg         *config.Config
}

func NewBookingService(
	repo repository.BookingRepository,
	lockRepo repository.BookingLockRepository,
	departments departmentsrepository.DepartmentRepository,
	validator *validator.BookingValidator,
	publisher events.Publisher,
	cfg *config.Config,
) BookingService {
	return &bookingService{
		repo:        repo,
		lockRepo:    lockRepo,
		departments: departments,
		validator:   validator,
		publisher:   publisher,
		cfg:         cfg,
	}
}

func (s *bookingService) ConfirmAndBook(ctx context.Context, department, weekday, timeOfDay string, now time.Time) (*model.Confirmation, error) {
	day, err := s.parseWeekday(weekday)
	if err != nil {
		return nil, apperrors.InvalidInput(fmt.Sprintf("Invalid weekday: %q", weekday)).WithCause(err)
	}
	date := calendar.NextDate(day, now)

	dept, err := s.departments.FindByName(ctx, department)
	if err != nil {
		if errors.Is(err, departmentserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithName("Department", department).WithCause(err)
		}
		return nil, mongostore.AppError("Failed to retrieve department", err)
	}

	tod, err := calendar.ParseTimeOfDay(timeOfDay)
	if err != nil {
		return nil, apperrors.InvalidInput(fmt.Sprintf("Invalid time: %q", timeOfDay)).WithCause(err)
	}

	booking := &model.Booking{
		DepartmentID: dept.ID,
		BookingTime:  tod.On(date),
		Status:       model.BookingStatusBooked,
		CreatedAt:    now.UTC().Truncate(time.Millisecond),
	}
	if err := s.create(ctx, booking, dept.Name); err != nil {
		return nil, err
	}

	confirmation := &model.Confirmation{
		BookingID:  booking.ID,
		Department: dept.Name,
		Date:       date.Format(calendar.DateLayout),
		Time:       tod.String(),
	}
	s.cfg.Log.Info("Appointment confirmed",
		"booking_id", confirmation.BookingID,
		"department", confirmation.Department,
		"date", confirmation.Date,
		"time", confirmation.Time,
	)
	return confirmation, nil
}

// IsAvailable reports whether no booking with status "booked" exists for the
// department at exactly at.
func (s *bookingService) IsAvailable(ctx context.Context, departmentID string, at time.Time) (bool, error) {
	count, err := s.repo.CountAt(ctx, departmentID, at, model.BookingStatusBooked)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrInvalidDepartmentID) {
			return false, apperrors.InvalidInput("Invalid department ID format").WithCause(err)
		}
		s.cfg.Log.Error("Failed to check slot availability",
			"department_id", departmentID,
			"booking_time", at,
			"error", err,
		)
		return false, mongostore.AppError("Failed to check availability", err)
	}
	return count == 0, nil
}

func (s *bookingService) Book(ctx context.Context, departmentID, userID string, at time.Time) (*model.Booking, error) {
	booking := &model.Booking{
		DepartmentID: departmentID,
		UserID:       userID,
		BookingTime:  at,
		Status:       model.BookingStatusBooked,
	}
	if err := s.create(ctx, booking, ""); err != nil {
		return nil, err
	}
	return booking, nil
}

func (s *bookingService) CheckAndBook(ctx context.Context, departmentID, userID string, at time.Time) (*model.Booking, error) {
	req := &model.BookingRequest{DepartmentID: departmentID, UserID: userID, BookingTime: at}
	if err := s.validator.ValidateRequest(req); err != nil {
		s.cfg.Log.Warn("Booking request validation failed", "error", err)
		return nil, apperrors.Validation("Booking validation failed", map[string]any{"error": err.Error()})
	}

	dept, err := s.departments.FindByID(ctx, departmentID)
	if err != nil {
		if errors.Is(err, departmentserrors.ErrNotFound) {
			return nil, apperrors.NotFound("Department").WithCause(err)
		}
		return nil, mongostore.AppError("Failed to retrieve department", err)
	}

	lock, err := s.acquireSlotLock(ctx, departmentID, at)
	if err != nil {
		return nil, err
	}
	defer func() {
		if releaseErr := s.releaseSlotLock(ctx, lock); releaseErr != nil {
			s.cfg.Log.Warn("Failed to release booking lock", "lock_id", lock.ID, "error", releaseErr)
		}
	}()

	available, err := s.IsAvailable(ctx, departmentID, at)
	if err != nil {
		return nil, err
	}
	if !available {
		s.cfg.Log.Info("Slot already booked", "department_id", departmentID, "booking_time", at)
		return nil, apperrors.Conflict(slotTakenMessage).WithCause(bookingserrors.ErrSlotConflict)
	}

	booking := &model.Booking{
		DepartmentID: departmentID,
		UserID:       userID,
		BookingTime:  at,
		Status:       model.BookingStatusBooked,
	}
	if err := s.create(ctx, booking, dept.Name); err != nil {
		return nil, err
	}
	return booking, nil
}

// --- Helpers ---

func (s *bookingService) parseWeekday(name string) (time.Weekday, error) {
	if s.cfg.FoldWeekdays() {
		day, _, err := calendar.ParseWeekdayFold(name)
		return day, err
	}
	return calendar.ParseWeekday(name)
}

// create validates, stores and announces a booking.
func (s *bookingService) create(ctx context.Context, booking *model.Booking, department string) error {
	if err := s.validator.Validate(booking); err != nil {
		s.cfg.Log.Warn("Booking validation failed", "error", err)
		return apperrors.Validation("Booking validation failed", map[string]any{"error": err.Error()})
	}

	if err := s.repo.Create(ctx, booking); err != nil {
		if errors.Is(err, bookingserrors.ErrSlotConflict) {
			return apperrors.Conflict(slotTakenMessage).WithCause(err)
		}
		if errors.Is(err, bookingserrors.ErrInvalidDepartmentID) {
			return apperrors.InvalidInput("Invalid department ID format").WithCause(err)
		}
		s.cfg.Log.Error("Failed to create booking",
			"department_id", booking.DepartmentID,
			"booking_time", booking.BookingTime,
			"error", err,
		)
		return mongostore.AppError("Failed to create booking", err)
	}

	s.cfg.Log.Info("Booking created successfully",
		"id", booking.ID,
		"department_id", booking.DepartmentID,
		"booking_time", booking.BookingTime,
	)

	if err := s.publisher.BookingCreated(ctx, booking, department); err != nil {
		s.cfg.Log.Warn("Failed to publish booking event", "id", booking.ID, "error", err)
	}
	return nil
}

// acquireSlotLock creates an advisory lock to prevent concurrent booking creation
// Returns the held lock if successful, or conflict error if lock already exists
func (s *bookingService) acquireSlotLock(ctx context.Context, departmentID string, at time.Time) (*model.BookingLock, error) {
	lock := &model.BookingLock{
		ID:        fmt.Sprintf("booking_lock_%s_%d", departmentID, at.Unix()),
		Owner:     uuid.NewString(),
		ExpiresAt: time.Now().Add(s.cfg.BookingLockTTL),
	}

	if _, err := s.lockRepo.Create(ctx, lock); err != nil {
		if errors.Is(err, bookingserrors.ErrSlotLocked) {
			return nil, apperrors.Conflict("This time slot is currently being booked by another request. Please try again.").
				WithCause(fmt.Errorf("%w: %w", bookingserrors.ErrSlotConflict, err))
		}
		return nil, mongostore.AppError("Failed to acquire booking lock", err)
	}

	return lock, nil
}

// releaseSlotLock removes the advisory lock if this request still owns it
func (s *bookingService) releaseSlotLock(ctx context.Context, lock *model.BookingLock) error {
	return s.lockRepo.Delete(context.WithoutCancel(ctx), lock.ID, lock.Owner)
}
