package rules

import "fmt"

// checkAbsence flags assignments inside an approved absence
func checkAbsence(s *state) []Issue {
	var issues []Issue

	for _, member := range s.ref.Staff() {
		for _, e := range s.entriesFor(member.ID) {
			absence, ok := s.ref.Absence(member.ID, e.Date)
			if !ok {
				continue
			}
			issues = append(issues, Issue{
				Rule:     RuleAbsence,
				Severity: SeverityError,
				StaffID:  member.ID,
				Date:     e.Date,
				ShiftKey: e.Shift.Key,
				Message: fmt.Sprintf("%s: %s on %s falls inside %s from %s to %s",
					member.Name, e.Shift.Name, e.Date, absence.Kind, absence.Start, absence.End),
			})
		}
	}

	return issues
}
