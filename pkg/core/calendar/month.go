package calendar

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jakechorley/staff-roster/pkg/core/model"
)

// ErrInvalidMonth is returned for month keys that cannot be parsed
var ErrInvalidMonth = errors.New("invalid month key")

// ParseMonth parses a "2006-01" month key into the first day of the month (UTC)
func ParseMonth(key string) (time.Time, error) {
	first, err := time.Parse(model.MonthLayout, strings.TrimSpace(key))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w %q: %v", ErrInvalidMonth, key, err)
	}
	return first, nil
}

// MonthDates returns every date of the month in ascending order
func MonthDates(first time.Time) []time.Time {
	first = time.Date(first.Year(), first.Month(), 1, 0, 0, 0, 0, time.UTC)
	dates := make([]time.Time, 0, 31)
	for d := first; d.Month() == first.Month(); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d)
	}
	return dates
}

// DateKey formats a date as a "2006-01-02" key
func DateKey(t time.Time) string {
	return t.Format(model.DateLayout)
}

// ParseDate parses a "2006-01-02" key (UTC)
func ParseDate(key string) (time.Time, error) {
	t, err := time.Parse(model.DateLayout, key)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", key, err)
	}
	return t, nil
}

// WeekKey returns the ISO week of the date as "2025-W24"
func WeekKey(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

// WeekThursday returns the Thursday of the ISO week containing t
func WeekThursday(t time.Time) time.Time {
	// Monday=0 .. Sunday=6
	offset := (int(t.Weekday()) + 6) % 7
	return t.AddDate(0, 0, 3-offset)
}

// IsWeekend reports whether the date is a Saturday or Sunday
func IsWeekend(t time.Time) bool {
	return t.Weekday() == time.Saturday || t.Weekday() == time.Sunday
}

// ParseClock parses "HH:MM" into minutes after midnight
func ParseClock(s string) (int, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid time %q: expected HH:MM", s)
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil || hours < 0 || hours > 24 {
		return 0, fmt.Errorf("invalid hour in %q", s)
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil || minutes < 0 || minutes > 59 {
		return 0, fmt.Errorf("invalid minute in %q", s)
	}
	if hours == 24 && minutes != 0 {
		return 0, fmt.Errorf("invalid time %q", s)
	}
	return hours*60 + minutes, nil
}

// ShiftWindow returns the start and end instants of a shift on the given date.
// An end at or before the start rolls over to the next day.
func ShiftWindow(date time.Time, shift model.ShiftType) (time.Time, time.Time, error) {
	startMin, err := ParseClock(shift.Start)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	endMin, err := ParseClock(shift.End)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	start := day.Add(time.Duration(startMin) * time.Minute)
	end := day.Add(time.Duration(endMin) * time.Minute)
	if !end.After(start) {
		end = end.Add(24 * time.Hour)
	}
	return start, end, nil
}
