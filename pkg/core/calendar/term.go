package calendar

import (
	"fmt"
	"time"
)

// TermPeriod classifies a date in the academic year
type TermPeriod string

const (
	TermLecture TermPeriod = "lecture"
	TermBreak   TermPeriod = "break"
)

// Semester is a configured academic term. Dates inside [Start, End] but outside
// the lecture window are break dates.
type Semester struct {
	Name         string
	Start        string
	End          string
	LectureStart string
	LectureEnd   string
}

// TermCalendar answers lecture-vs-break questions from precomputed semester data
// and falls back to a fixed heuristic for dates no semester covers.
type TermCalendar struct {
	periods map[string]TermPeriod
}

// NewTermCalendar expands the semesters into a per-date lookup
func NewTermCalendar(semesters []Semester) (*TermCalendar, error) {
	tc := &TermCalendar{periods: make(map[string]TermPeriod)}
	for _, s := range semesters {
		start, err := ParseDate(s.Start)
		if err != nil {
			return nil, fmt.Errorf("semester %q: %w", s.Name, err)
		}
		end, err := ParseDate(s.End)
		if err != nil {
			return nil, fmt.Errorf("semester %q: %w", s.Name, err)
		}
		lectureStart, err := ParseDate(s.LectureStart)
		if err != nil {
			return nil, fmt.Errorf("semester %q: %w", s.Name, err)
		}
		lectureEnd, err := ParseDate(s.LectureEnd)
		if err != nil {
			return nil, fmt.Errorf("semester %q: %w", s.Name, err)
		}
		if end.Before(start) || lectureEnd.Before(lectureStart) {
			return nil, fmt.Errorf("semester %q: end before start", s.Name)
		}

		for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
			period := TermBreak
			if !d.Before(lectureStart) && !d.After(lectureEnd) {
				period = TermLecture
			}
			tc.periods[DateKey(d)] = period
		}
	}
	return tc, nil
}

// PeriodFor returns the term period of the date
func (tc *TermCalendar) PeriodFor(date time.Time) TermPeriod {
	if tc != nil {
		if period, ok := tc.periods[DateKey(date)]; ok {
			return period
		}
	}
	return HeuristicPeriod(date)
}

// HeuristicPeriod is the fallback classification: summer lectures run 15 April to
// 15 July, winter lectures 15 October to 15 February; everything else is break.
func HeuristicPeriod(date time.Time) TermPeriod {
	month, day := date.Month(), date.Day()
	switch {
	case month == time.April && day >= 15,
		month == time.May, month == time.June,
		month == time.July && day <= 15:
		return TermLecture
	case month == time.October && day >= 15,
		month == time.November, month == time.December, month == time.January,
		month == time.February && day <= 15:
		return TermLecture
	}
	return TermBreak
}
