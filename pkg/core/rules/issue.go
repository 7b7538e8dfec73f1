package rules

import "sort"

// RuleID identifies one of the closed set of rule categories
type RuleID string

const (
	RuleWorkload           RuleID = "workload"
	RuleRest               RuleID = "rest"
	RuleWeekend            RuleID = "weekend"
	RuleStudent            RuleID = "student"
	RulePermanentConsent   RuleID = "permanentConsent"
	RuleAlternativeWeekend RuleID = "alternativeWeekend"
	RuleMinijob            RuleID = "minijob"
	RuleStudentHours       RuleID = "studentHours"
	RuleAbsence            RuleID = "absence"
	RuleTypicalDays        RuleID = "typicalDays"
)

// All returns every rule id in evaluation order
func All() []RuleID {
	return []RuleID{
		RuleWorkload,
		RuleRest,
		RuleWeekend,
		RuleStudent,
		RulePermanentConsent,
		RuleAlternativeWeekend,
		RuleMinijob,
		RuleStudentHours,
		RuleAbsence,
		RuleTypicalDays,
	}
}

func (r RuleID) order() int {
	for i, id := range All() {
		if id == r {
			return i
		}
	}
	return len(All())
}

type Severity string

const (
	// SeverityError blocks the slot from being committed
	SeverityError Severity = "error"
	// SeverityWarning is advisory and may be committed with acknowledgment
	SeverityWarning Severity = "warning"
)

// Issue is a single finding of one rule.
// Empty Date, ShiftKey and Week act as wildcards when issues are attached to slots.
type Issue struct {
	Rule     RuleID
	Severity Severity
	StaffID  string
	Date     string
	ShiftKey string
	Week     string
	Message  string
}

// IsBlocking reports whether the issue prevents a commit
func (i Issue) IsBlocking() bool {
	return i.Severity == SeverityError
}

// FailedRules lists the rule ids that produced at least one issue, in evaluation order
func FailedRules(issues []Issue) []RuleID {
	failed := make(map[RuleID]bool)
	for _, issue := range issues {
		failed[issue.Rule] = true
	}
	var out []RuleID
	for _, id := range All() {
		if failed[id] {
			out = append(out, id)
		}
	}
	return out
}

// CountByRule counts issues per rule id
func CountByRule(issues []Issue) map[RuleID]int {
	counts := make(map[RuleID]int)
	for _, issue := range issues {
		counts[issue.Rule]++
	}
	return counts
}

// Filter returns the issues of one rule
func Filter(issues []Issue, rule RuleID) []Issue {
	var out []Issue
	for _, issue := range issues {
		if issue.Rule == rule {
			out = append(out, issue)
		}
	}
	return out
}

func sortIssues(issues []Issue) {
	sort.SliceStable(issues, func(i, j int) bool {
		a, b := issues[i], issues[j]
		if a.Rule != b.Rule {
			return a.Rule.order() < b.Rule.order()
		}
		if a.Date != b.Date {
			return a.Date < b.Date
		}
		if a.Week != b.Week {
			return a.Week < b.Week
		}
		if a.ShiftKey != b.ShiftKey {
			return a.ShiftKey < b.ShiftKey
		}
		if a.StaffID != b.StaffID {
			return a.StaffID < b.StaffID
		}
		return a.Message < b.Message
	})
}
