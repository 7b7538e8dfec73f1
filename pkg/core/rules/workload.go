package rules

import (
	"fmt"

	"github.com/jakechorley/staff-roster/pkg/core/model"
)

// checkWorkload compares weekly and monthly hours with the prorated contract targets.
// Weeks without weekday slots in the month have no target and are skipped.
func checkWorkload(s *state) []Issue {
	policy := s.ref.Policy
	var issues []Issue

	for _, member := range s.ref.Staff() {
		if member.ContractHours <= 0 {
			continue
		}

		byWeek := s.weekEntries(member.ID)
		for _, week := range s.month.Weeks() {
			target := s.month.WeeklyTarget(member, week)
			if target <= 0 {
				continue
			}
			hours := s.hours(byWeek[week])
			if msg := outsideTarget(member, hours, target, policy.WeeklyHoursTolerance, "weekly", week); msg != "" {
				issues = append(issues, Issue{
					Rule:     RuleWorkload,
					Severity: SeverityWarning,
					StaffID:  member.ID,
					Week:     week,
					Message:  msg,
				})
			}
		}

		target := s.month.MonthlyTarget(member, policy, s.ref.WageFor(member))
		if target <= 0 {
			continue
		}
		hours := s.hours(s.entriesFor(member.ID))
		if msg := outsideTarget(member, hours, target, policy.MonthlyHoursTolerance, "monthly", s.month.Key); msg != "" {
			issues = append(issues, Issue{
				Rule:     RuleWorkload,
				Severity: SeverityWarning,
				StaffID:  member.ID,
				Message:  msg,
			})
		}
	}

	return issues
}

func outsideTarget(member model.StaffMember, hours, target, tolerance float64, period, label string) string {
	switch {
	case hours < target*(1-tolerance):
		return fmt.Sprintf("%s: %.2fh in %s is below the %s target of %.2fh", member.Name, hours, label, period, target)
	case hours > target*(1+tolerance):
		return fmt.Sprintf("%s: %.2fh in %s is above the %s target of %.2fh", member.Name, hours, label, period, target)
	}
	return ""
}
