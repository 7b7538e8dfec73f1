package rules

import (
	"fmt"

	"github.com/jakechorley/staff-roster/pkg/core/model"
)

// checkWeekend keeps non-permanent weekend shift counts within the configured range.
// Staff who prefer weekends or only offered weekend availability are exempt, as are staff
// with no shifts this month.
func checkWeekend(s *state) []Issue {
	policy := s.ref.Policy
	var issues []Issue

	for _, member := range s.ref.Staff() {
		if member.Role == model.RolePermanent || member.WeekendPreference {
			continue
		}
		entries := s.entriesFor(member.ID)
		if len(entries) == 0 || s.ref.HasWeekendOnlyAvailability(member.ID) {
			continue
		}

		count := 0
		for _, e := range entries {
			if e.DayType.IsWeekendLike() {
				count++
			}
		}

		var msg string
		switch {
		case count < policy.MinWeekendShifts:
			msg = fmt.Sprintf("%s: %d weekend shifts, minimum is %d", member.Name, count, policy.MinWeekendShifts)
		case count > policy.MaxWeekendShifts:
			msg = fmt.Sprintf("%s: %d weekend shifts, maximum is %d", member.Name, count, policy.MaxWeekendShifts)
		default:
			continue
		}
		issues = append(issues, Issue{
			Rule:     RuleWeekend,
			Severity: SeverityWarning,
			StaffID:  member.ID,
			Message:  msg,
		})
	}

	return issues
}
