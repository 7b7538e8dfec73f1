package rules

import (
	"fmt"

	"github.com/jakechorley/staff-roster/pkg/core/model"
)

// checkStudent flags students past the weekly weekday daytime cap and students whose month
// is skewed towards daytime shifts relative to evening and weekend shifts
func checkStudent(s *state) []Issue {
	policy := s.ref.Policy
	var issues []Issue

	for _, member := range s.ref.Staff() {
		if member.Role != model.RoleStudent {
			continue
		}

		if !member.DaytimeCapException {
			for week, entries := range s.weekEntries(member.ID) {
				daytime := countDaytime(entries)
				if daytime > policy.StudentWeekdayDaytimeCap {
					issues = append(issues, Issue{
						Rule:     RuleStudent,
						Severity: SeverityWarning,
						StaffID:  member.ID,
						Week:     week,
						Message: fmt.Sprintf("%s: %d weekday daytime shifts in %s, cap is %d",
							member.Name, daytime, week, policy.StudentWeekdayDaytimeCap),
					})
				}
			}
		}

		entries := s.entriesFor(member.ID)
		if len(entries) < policy.StudentRatioMinShifts {
			continue
		}
		daytime := countDaytime(entries)
		other := len(entries) - daytime
		skewed := daytime > 0 && other == 0
		if other > 0 {
			skewed = float64(daytime)/float64(other) > policy.StudentDaytimeRatio
		}
		if skewed {
			issues = append(issues, Issue{
				Rule:     RuleStudent,
				Severity: SeverityWarning,
				StaffID:  member.ID,
				Message: fmt.Sprintf("%s: %d daytime shifts against %d evening or weekend shifts this month",
					member.Name, daytime, other),
			})
		}
	}

	return issues
}

func countDaytime(entries []entry) int {
	count := 0
	for _, e := range entries {
		if e.DayType == model.DayTypeWeekday && !e.Evening {
			count++
		}
	}
	return count
}

// checkStudentHours compares weekly student hours with the cap of the week's term period
func checkStudentHours(s *state) []Issue {
	policy := s.ref.Policy
	var issues []Issue

	for _, member := range s.ref.Staff() {
		if member.Role != model.RoleStudent {
			continue
		}
		for week, entries := range s.weekEntries(member.ID) {
			limit, period := s.month.StudentWeeklyCap(policy, s.ref.Terms, week)
			hours := s.hours(entries)
			if hours > limit {
				issues = append(issues, Issue{
					Rule:     RuleStudentHours,
					Severity: SeverityWarning,
					StaffID:  member.ID,
					Week:     week,
					Message: fmt.Sprintf("%s: %.2fh in %s exceeds the %s cap of %.0fh",
						member.Name, hours, week, period, limit),
				})
			}
		}
	}

	return issues
}
