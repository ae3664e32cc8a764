// Package calendar resolves spoken weekday names to concrete dates and handles
// the "HH:MM" time-of-day values used by department operating hours.
package calendar

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrInvalidWeekday = errors.New("invalid weekday")

var weekdays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

var byName = map[string]time.Weekday{
	"Monday":    time.Monday,
	"Tuesday":   time.Tuesday,
	"Wednesday": time.Wednesday,
	"Thursday":  time.Thursday,
	"Friday":    time.Friday,
	"Saturday":  time.Saturday,
	"Sunday":    time.Sunday,
}

// Weekdays returns the canonical English weekday names, Monday first.
func Weekdays() []string {
	out := make([]string, len(weekdays))
	copy(out, weekdays)
	return out
}

// Index maps a weekday onto Monday=0 .. Sunday=6.
func Index(d time.Weekday) int {
	return (int(d) + 6) % 7
}

// ParseWeekday accepts only the exact canonical names ("Monday" .. "Sunday").
func ParseWeekday(name string) (time.Weekday, error) {
	d, ok := byName[name]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrInvalidWeekday, name)
	}
	return d, nil
}

// ParseWeekdayFold matches case-insensitively and also returns the canonical name.
func ParseWeekdayFold(name string) (time.Weekday, string, error) {
	trimmed := strings.TrimSpace(name)
	for _, canonical := range weekdays {
		if strings.EqualFold(trimmed, canonical) {
			return byName[canonical], canonical, nil
		}
	}
	return 0, "", fmt.Errorf("%w: %q", ErrInvalidWeekday, name)
}

// NextDate returns midnight of the next date falling on day, counting today:
// when now is already on day the result is today's date.
func NextDate(day time.Weekday, now time.Time) time.Time {
	daysAhead := (Index(day) - Index(now.Weekday()) + 7) % 7
	y, m, d := now.Date()
	return time.Date(y, m, d+daysAhead, 0, 0, 0, 0, now.Location())
}

// ResolveNextDate is NextDate for a canonical weekday name.
func ResolveNextDate(name string, now time.Time) (time.Time, error) {
	day, err := ParseWeekday(name)
	if err != nil {
		return time.Time{}, err
	}
	return NextDate(day, now), nil
}
