package rules

import (
	"fmt"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"

	"github.com/jakechorley/staff-roster/pkg/core/model"
)

// FormatAmount formats an amount in the given ISO currency
func FormatAmount(amount decimal.Decimal, currency string) string {
	return money.NewFromFloat(amount.Round(2).InexactFloat64(), currency).Display()
}

// checkMinijob flags minijob staff whose projected monthly earnings exceed the cap
func checkMinijob(s *state) []Issue {
	policy := s.ref.Policy
	limit := decimal.NewFromFloat(policy.MinijobEarningsCap)
	var issues []Issue

	for _, member := range s.ref.Staff() {
		if member.Role != model.RoleMinijob {
			continue
		}
		entries := s.entriesFor(member.ID)
		if len(entries) == 0 {
			continue
		}

		hours := decimal.Zero
		for _, e := range entries {
			hours = hours.Add(decimal.NewFromFloat(e.Shift.Hours))
		}
		wage := decimal.NewFromFloat(s.ref.WageFor(member))
		earnings := hours.Mul(wage)
		if !earnings.GreaterThan(limit) {
			continue
		}

		issues = append(issues, Issue{
			Rule:     RuleMinijob,
			Severity: SeverityWarning,
			StaffID:  member.ID,
			Message: fmt.Sprintf("%s: projected earnings %s (%sh at %s) exceed the %s cap",
				member.Name,
				FormatAmount(earnings, policy.Currency),
				hours.StringFixed(2),
				FormatAmount(wage, policy.Currency),
				FormatAmount(limit, policy.Currency)),
		})
	}

	return issues
}
