package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"medassist/internal/availability/digest"
	bookingsrepository "medassist/internal/bookings/repository"
	departmentserrors "medassist/internal/departments/errors"
	departmentsrepository "medassist/internal/departments/repository"
	"medassist/pkg/calendar"
	"medassist/pkg/config"
	mongostore "medassist/pkg/db/mongo"
	apperrors "medassist/pkg/errors"
	"medassist/pkg/model"
)

// SlotInterval is the fixed appointment length.
const SlotInterval = 30 * time.Minute

// AvailabilityService derives open slots from operating hours and active bookings.
// It keeps no state between calls; every result is read fresh from the store.
type AvailabilityService interface {
	Departments(ctx context.Context) ([]string, error)
	AvailableDays(ctx context.Context) ([]string, error)
	DaySlots(ctx context.Context, department, weekday string, now time.Time) ([]string, error)
	Digest(ctx context.Context, now time.Time) (model.AvailabilityDigest, error)
	OpenSchedule(ctx context.Context, now time.Time) (string, error)
	BookedSlotsByDepartment(ctx context.Context) (model.BookedSlots, error)
}

type availabilityService struct {
	departments departmentsrepository.DepartmentRepository
	bookings    bookingsrepository.BookingRepository
	cfg         *config.Config
}

func NewAvailabilityService(
	departments departmentsrepository.DepartmentRepository,
	bookings bookingsrepository.BookingRepository,
	cfg *config.Config,
) AvailabilityService {
	return &availabilityService{
		departments: departments,
		bookings:    bookings,
		cfg:         cfg,
	}
}

func (s *availabilityService) Departments(ctx context.Context) ([]string, error) {
	departments, err := s.departments.FindWithOperatingHours(ctx)
	if err != nil {
		s.cfg.Log.Error("Failed to list departments", "error", err)
		return nil, mongostore.AppError("Failed to retrieve departments", err)
	}

	names := make([]string, 0, len(departments))
	for _, d := range departments {
		names = append(names, d.Name)
	}
	return names, nil
}

// AvailableDays returns the weekdays on which at least one department opens,
// Monday first.
func (s *availabilityService) AvailableDays(ctx context.Context) ([]string, error) {
	departments, err := s.departments.FindWithOperatingHours(ctx)
	if err != nil {
		s.cfg.Log.Error("Failed to list available days", "error", err)
		return nil, mongostore.AppError("Failed to retrieve available days", err)
	}

	open := make(map[time.Weekday]bool)
	for _, d := range departments {
		for _, oh := range d.OperatingHours {
			day, _, err := calendar.ParseWeekdayFold(oh.DayOfWeek)
			if err != nil {
				s.cfg.Log.Error("Department has an unknown weekday", "department", d.Name, "day_of_week", oh.DayOfWeek)
				return nil, apperrors.Internal("Invalid operating hours", err)
			}
			open[day] = true
		}
	}

	days := make([]string, 0, len(open))
	for _, name := range calendar.Weekdays() {
		day, _ := calendar.ParseWeekday(name)
		if open[day] {
			days = append(days, name)
		}
	}
	return days, nil
}

// DaySlots returns the free slot start times ("HH:MM") of one department on the
// next occurrence of weekday, counting today. Window weekdays match
// case-insensitively. A department with no window on that day yields an empty list.
func (s *availabilityService) DaySlots(ctx context.Context, department, weekday string, now time.Time) ([]string, error) {
	day, canonical, err := calendar.ParseWeekdayFold(weekday)
	if err != nil {
		return nil, apperrors.InvalidInput(fmt.Sprintf("Invalid weekday: %q", weekday)).WithCause(err)
	}

	dept, err := s.departments.FindByName(ctx, department)
	if err != nil {
		if errors.Is(err, departmentserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithName("Department", department).WithCause(err)
		}
		s.cfg.Log.Error("Failed to find department", "department", department, "error", err)
		return nil, mongostore.AppError("Failed to retrieve department", err)
	}

	date := calendar.NextDate(day, now)
	booked, err := s.bookedInstants(ctx, dept.ID, date, date.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	slots := make([]string, 0)
	for _, oh := range dept.OperatingHours {
		if !strings.EqualFold(oh.DayOfWeek, canonical) {
			continue
		}
		windowSlots, err := s.windowSlots(dept.Name, oh, date, booked)
		if err != nil {
			return nil, err
		}
		for _, slot := range windowSlots {
			if !seen[slot] {
				seen[slot] = true
				slots = append(slots, slot)
			}
		}
	}

	sort.Strings(slots)
	return slots, nil
}

// Digest lists open slots for every department that has operating hours. Days
// are keyed by the stored day_of_week and keep their first-seen order; windows
// sharing a day are merged in window order.
func (s *availabilityService) Digest(ctx context.Context, now time.Time) (model.AvailabilityDigest, error) {
	departments, err := s.departments.FindWithOperatingHours(ctx)
	if err != nil {
		s.cfg.Log.Error("Failed to list departments for digest", "error", err)
		return nil, mongostore.AppError("Failed to retrieve departments", err)
	}

	today := calendar.NextDate(now.Weekday(), now)
	result := make(model.AvailabilityDigest, 0, len(departments))

	for _, dept := range departments {
		booked, err := s.bookedInstants(ctx, dept.ID, today, today.AddDate(0, 0, 7))
		if err != nil {
			return nil, err
		}

		entry := model.DepartmentAvailability{Department: dept.Name, Days: []model.DayAvailability{}}
		dayIndex := make(map[string]int)
		daySeen := make(map[string]map[string]bool)

		for _, oh := range dept.OperatingHours {
			date, err := calendar.ResolveNextDate(oh.DayOfWeek, now)
			if err != nil {
				s.cfg.Log.Error("Department has an unknown weekday", "department", dept.Name, "day_of_week", oh.DayOfWeek)
				return nil, apperrors.Internal("Invalid operating hours", err)
			}

			windowSlots, err := s.windowSlots(dept.Name, oh, date, booked)
			if err != nil {
				return nil, err
			}

			idx, ok := dayIndex[oh.DayOfWeek]
			if !ok {
				idx = len(entry.Days)
				dayIndex[oh.DayOfWeek] = idx
				daySeen[oh.DayOfWeek] = make(map[string]bool)
				entry.Days = append(entry.Days, model.DayAvailability{Day: oh.DayOfWeek, Slots: []string{}})
			}
			for _, slot := range windowSlots {
				if daySeen[oh.DayOfWeek][slot] {
					continue
				}
				daySeen[oh.DayOfWeek][slot] = true
				entry.Days[idx].Slots = append(entry.Days[idx].Slots, slot)
			}
		}

		result = append(result, entry)
	}

	return result, nil
}

func (s *availabilityService) OpenSchedule(ctx context.Context, now time.Time) (string, error) {
	d, err := s.Digest(ctx, now)
	if err != nil {
		return "", err
	}
	return digest.Format(d), nil
}

// BookedSlotsByDepartment lists booked and confirmed booking times for every
// department, oldest first. Departments without bookings get an empty list.
func (s *availabilityService) BookedSlotsByDepartment(ctx context.Context) (model.BookedSlots, error) {
	departments, err := s.departments.FindAll(ctx)
	if err != nil {
		s.cfg.Log.Error("Failed to list departments for booked slots", "error", err)
		return nil, mongostore.AppError("Failed to retrieve departments", err)
	}

	bookings, err := s.bookings.FindActive(ctx)
	if err != nil {
		s.cfg.Log.Error("Failed to list active bookings", "error", err)
		return nil, mongostore.AppError("Failed to retrieve bookings", err)
	}

	byDepartment := make(map[string][]string)
	for _, b := range bookings {
		byDepartment[b.DepartmentID] = append(byDepartment[b.DepartmentID], s.inLocation(b.BookingTime).Format(calendar.DateTimeLayout))
	}

	result := make(model.BookedSlots, 0, len(departments))
	for _, dept := range departments {
		slots := byDepartment[dept.ID]
		if slots == nil {
			slots = []string{}
		}
		result = append(result, model.DepartmentBookings{Department: dept.Name, Slots: slots})
	}
	return result, nil
}

// --- Helpers ---

// bookedInstants returns the active booking instants of a department in [from, to)
// keyed by Unix milliseconds, the precision the store keeps.
func (s *availabilityService) bookedInstants(ctx context.Context, departmentID string, from, to time.Time) (map[int64]bool, error) {
	bookings, err := s.bookings.FindActiveInRange(ctx, departmentID, from, to)
	if err != nil {
		s.cfg.Log.Error("Failed to load bookings",
			"department_id", departmentID,
			"from", from,
			"to", to,
			"error", err,
		)
		return nil, mongostore.AppError("Failed to retrieve bookings", err)
	}

	booked := make(map[int64]bool, len(bookings))
	for _, b := range bookings {
		booked[b.BookingTime.UnixMilli()] = true
	}
	return booked, nil
}

// windowSlots enumerates [start, end) in SlotInterval steps on date, skipping booked instants.
func (s *availabilityService) windowSlots(department string, oh model.OperatingHours, date time.Time, booked map[int64]bool) ([]string, error) {
	start, err := calendar.ParseTimeOfDay(oh.StartTime)
	if err != nil {
		s.cfg.Log.Error("Department has invalid operating hours", "department", department, "start_time", oh.StartTime)
		return nil, apperrors.Internal("Invalid operating hours", err)
	}
	end, err := calendar.ParseTimeOfDay(oh.EndTime)
	if err != nil {
		s.cfg.Log.Error("Department has invalid operating hours", "department", department, "end_time", oh.EndTime)
		return nil, apperrors.Internal("Invalid operating hours", err)
	}

	slots := make([]string, 0)
	for cur := start; cur < end; cur = cur.Step(SlotInterval) {
		if booked[cur.On(date).UnixMilli()] {
			continue
		}
		slots = append(slots, cur.String())
	}
	return slots, nil
}

func (s *availabilityService) inLocation(t time.Time) time.Time {
	if s.cfg.Location == nil {
		return t
	}
	return t.In(s.cfg.Location)
}
