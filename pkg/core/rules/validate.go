package rules

import (
	"sort"
	"strings"
	"time"

	"github.com/jakechorley/staff-roster/pkg/core/calendar"
	"github.com/jakechorley/staff-roster/pkg/core/model"
	"github.com/jakechorley/staff-roster/pkg/core/roster"
)

// entry is one resolved assignment of the month
type entry struct {
	Staff   model.StaffMember
	Shift   model.ShiftType
	Day     time.Time
	Date    string
	Week    string
	DayType model.DayType
	Start   time.Time
	End     time.Time
	Evening bool
}

// state is the resolved input shared by every rule of one validation pass
type state struct {
	ref   *roster.Reference
	month *roster.MonthView

	// byStaff holds each staff member's entries in chronological order
	byStaff map[string][]entry
}

func (s *state) entriesFor(staffID string) []entry {
	return s.byStaff[staffID]
}

func (s *state) hours(entries []entry) float64 {
	total := 0.0
	for _, e := range entries {
		total += e.Shift.Hours
	}
	return total
}

func (s *state) weekEntries(staffID string) map[string][]entry {
	out := make(map[string][]entry)
	for _, e := range s.byStaff[staffID] {
		out[e.Week] = append(out[e.Week], e)
	}
	return out
}

// check is the implementation of one rule id
type check func(s *state) []Issue

var checks = map[RuleID]check{
	RuleWorkload:           checkWorkload,
	RuleRest:               checkRest,
	RuleWeekend:            checkWeekend,
	RuleStudent:            checkStudent,
	RulePermanentConsent:   checkPermanentConsent,
	RuleAlternativeWeekend: checkAlternativeWeekend,
	RuleMinijob:            checkMinijob,
	RuleStudentHours:       checkStudentHours,
	RuleAbsence:            checkAbsence,
	RuleTypicalDays:        checkTypicalDays,
}

// Validate recomputes every rule for the assignments of a month.
// Assignments outside the month, unknown staff ids and unknown shift keys are skipped;
// a nil map is treated as empty. The only error is an unparsable month key.
func Validate(ref *roster.Reference, monthKey string, assignments model.Assignments) ([]Issue, error) {
	return ValidateRules(ref, monthKey, assignments, All())
}

// ValidateRules runs only the given rule ids
func ValidateRules(ref *roster.Reference, monthKey string, assignments model.Assignments, ids []RuleID) ([]Issue, error) {
	month, err := ref.Month(monthKey)
	if err != nil {
		return nil, err
	}

	s := &state{
		ref:     ref,
		month:   month,
		byStaff: make(map[string][]entry),
	}

	for date, day := range assignments {
		if !month.Contains(date) {
			continue
		}
		d, err := calendar.ParseDate(date)
		if err != nil {
			continue
		}
		for shiftKey, staffID := range day {
			member, ok := ref.StaffByID(staffID)
			if !ok {
				continue
			}
			shift, ok := ref.Catalog.Get(shiftKey)
			if !ok {
				continue
			}
			start, end, err := calendar.ShiftWindow(d, shift)
			if err != nil {
				continue
			}
			s.byStaff[staffID] = append(s.byStaff[staffID], entry{
				Staff:   member,
				Shift:   shift,
				Day:     d,
				Date:    date,
				Week:    month.WeekOf(date),
				DayType: month.DayType(date),
				Start:   start,
				End:     end,
				Evening: calendar.IsEvening(shift, ref.Policy.EveningCutoff),
			})
		}
	}

	for _, entries := range s.byStaff {
		sort.Slice(entries, func(i, j int) bool {
			if !entries[i].Start.Equal(entries[j].Start) {
				return entries[i].Start.Before(entries[j].Start)
			}
			return entries[i].Shift.Key < entries[j].Shift.Key
		})
	}

	var issues []Issue
	for _, id := range ids {
		if c, ok := checks[id]; ok {
			issues = append(issues, c(s)...)
		}
	}
	sortIssues(issues)

	return issues, nil
}

// SlotIssues returns the issues attached to one slot held by staffID
func SlotIssues(issues []Issue, week, date, shiftKey, staffID string) []Issue {
	var out []Issue
	for _, issue := range issues {
		if issue.StaffID != staffID {
			continue
		}
		if issue.Date != "" && issue.Date != date {
			continue
		}
		if issue.ShiftKey != "" && issue.ShiftKey != shiftKey {
			continue
		}
		if issue.Week != "" && issue.Week != week {
			continue
		}
		out = append(out, issue)
	}
	return out
}

// Consolidate writes the blockers and warnings of every assigned slot into the schedule days.
// Existing blockers and warnings are replaced.
func Consolidate(schedule *model.MonthSchedule, issues []Issue) {
	for i := range schedule.Days {
		day := &schedule.Days[i]
		day.Blockers = nil
		day.Warnings = nil

		d, err := calendar.ParseDate(day.Date)
		if err != nil {
			continue
		}
		week := calendar.WeekKey(d)

		for shiftKey, staffID := range day.Assignments {
			var blockers, warnings []string
			for _, issue := range SlotIssues(issues, week, day.Date, shiftKey, staffID) {
				if issue.IsBlocking() {
					blockers = appendUnique(blockers, issue.Message)
				} else {
					warnings = appendUnique(warnings, issue.Message)
				}
			}
			if len(blockers) > 0 {
				if day.Blockers == nil {
					day.Blockers = make(map[string]string)
				}
				day.Blockers[shiftKey] = strings.Join(blockers, "; ")
			}
			if len(warnings) > 0 {
				if day.Warnings == nil {
					day.Warnings = make(map[string]string)
				}
				day.Warnings[shiftKey] = strings.Join(warnings, "; ")
			}
		}
	}
}

func appendUnique(messages []string, message string) []string {
	for _, m := range messages {
		if m == message {
			return messages
		}
	}
	return append(messages, message)
}
