package rules

import "fmt"

// checkTypicalDays counts distinct worked days per ISO week against the prorated typical
// workdays: a warning past the soft extra, an error past the hard extra
func checkTypicalDays(s *state) []Issue {
	policy := s.ref.Policy
	var issues []Issue

	for _, member := range s.ref.Staff() {
		if member.TypicalWorkdays <= 0 {
			continue
		}
		for week, entries := range s.weekEntries(member.ID) {
			days := make(map[string]bool)
			for _, e := range entries {
				days[e.Date] = true
			}
			typical := s.month.TypicalDays(member, week)
			extra := len(days) - typical

			severity := SeverityWarning
			switch {
			case extra > policy.TypicalDaysHardExtra:
				severity = SeverityError
			case extra > policy.TypicalDaysSoftExtra:
			default:
				continue
			}
			issues = append(issues, Issue{
				Rule:     RuleTypicalDays,
				Severity: severity,
				StaffID:  member.ID,
				Week:     week,
				Message: fmt.Sprintf("%s: %d days worked in %s, typical is %d",
					member.Name, len(days), week, typical),
			})
		}
	}

	return issues
}
