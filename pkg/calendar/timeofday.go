package calendar

import (
	"fmt"
	"time"
)

const (
	TimeLayout     = "15:04"
	DateLayout     = "2006-01-02"
	DateTimeLayout = "2006-01-02 15:04:05"
)

// TimeOfDay is a wall-clock time in minutes since midnight.
type TimeOfDay int

func ParseTimeOfDay(s string) (TimeOfDay, error) {
	t, err := time.Parse(TimeLayout, s)
	if err != nil {
		return 0, fmt.Errorf("invalid time of day %q: %w", s, err)
	}
	return TimeOfDay(t.Hour()*60 + t.Minute()), nil
}

// Step advances by d. Values past 24:00 are not wrapped, so callers looping
// "while current < end" always terminate.
func (t TimeOfDay) Step(d time.Duration) TimeOfDay {
	return t + TimeOfDay(d/time.Minute)
}

// On places the time of day on the calendar date of date, in date's location.
func (t TimeOfDay) On(date time.Time) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, int(t)/60, int(t)%60, 0, 0, date.Location())
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", int(t)/60, int(t)%60)
}
