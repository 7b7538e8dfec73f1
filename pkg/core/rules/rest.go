package rules

import (
	"fmt"
	"time"
)

// checkRest compares the earliest start of each worked day with the latest end of the
// most recent earlier worked day. Shifts on the same day are never compared.
func checkRest(s *state) []Issue {
	minRest := s.ref.Policy.MinRestHours
	var issues []Issue

	for _, member := range s.ref.Staff() {
		var prevDate string
		var prevEnd time.Time

		for _, e := range s.entriesFor(member.ID) {
			if e.Date == prevDate {
				if e.End.After(prevEnd) {
					prevEnd = e.End
				}
				continue
			}

			// e is the earliest shift of a new worked day
			if prevDate != "" {
				gap := e.Start.Sub(prevEnd).Hours()
				if gap < minRest {
					issues = append(issues, Issue{
						Rule:     RuleRest,
						Severity: SeverityError,
						StaffID:  member.ID,
						Date:     e.Date,
						ShiftKey: e.Shift.Key,
						Message: fmt.Sprintf("%s: only %.2fh rest before %s on %s, minimum is %.0fh",
							member.Name, gap, e.Shift.Name, e.Date, minRest),
					})
				}
			}
			prevDate = e.Date
			prevEnd = e.End
		}
	}

	return issues
}
