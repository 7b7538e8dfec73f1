package rules

import (
	"fmt"

	"github.com/jakechorley/staff-roster/pkg/core/model"
)

// checkPermanentConsent flags permanent staff without a weekend preference working a
// weekend day without an approved consent record
func checkPermanentConsent(s *state) []Issue {
	return consentIssues(s, RulePermanentConsent, false, "weekend shift %s on %s without consent")
}

// checkAlternativeWeekend flags weekend-preferring permanent staff working one of their
// alternative weekend days without consent
func checkAlternativeWeekend(s *state) []Issue {
	return consentIssues(s, RuleAlternativeWeekend, true, "alternative weekend day shift %s on %s without consent")
}

func consentIssues(s *state, rule RuleID, weekendPreference bool, format string) []Issue {
	var issues []Issue

	for _, member := range s.ref.Staff() {
		if member.Role != model.RolePermanent || member.WeekendPreference != weekendPreference {
			continue
		}
		for _, e := range s.entriesFor(member.ID) {
			if !s.ref.RequiresConsent(member, e.Day) || s.ref.HasConsent(member.ID, e.Date) {
				continue
			}
			issues = append(issues, Issue{
				Rule:     rule,
				Severity: SeverityWarning,
				StaffID:  member.ID,
				Date:     e.Date,
				ShiftKey: e.Shift.Key,
				Message:  member.Name + ": " + fmt.Sprintf(format, e.Shift.Name, e.Date),
			})
		}
	}

	return issues
}
