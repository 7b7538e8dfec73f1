package commands

import (
	"fmt"
	"sort"

	"github.com/jakechorley/staff-roster/pkg/core/model"
	"github.com/jakechorley/staff-roster/pkg/core/rules"
)

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorGreen  = "\033[32m"
	colorRed    = "\033[31m"
	colorYellow = "\033[33m"
	colorDim    = "\033[2m"
)

// scheduleStats counts assigned slots and the slots carrying blockers or warnings
type scheduleStats struct {
	Filled  int
	Blocked int
	Warned  int
}

func statsFor(schedule *model.MonthSchedule) scheduleStats {
	var stats scheduleStats
	for _, day := range schedule.Days {
		for _, staffID := range day.Assignments {
			if staffID != "" {
				stats.Filled++
			}
		}
		stats.Blocked += len(day.Blockers)
		stats.Warned += len(day.Warnings)
	}
	return stats
}

// ruleSummary is one line of the per-rule report
type ruleSummary struct {
	Rule     rules.RuleID
	Errors   int
	Warnings int
}

// summarizeRules counts issues per rule in rule order, skipping rules without issues
func summarizeRules(issues []rules.Issue) []ruleSummary {
	var out []ruleSummary
	for _, id := range rules.All() {
		summary := ruleSummary{Rule: id}
		for _, issue := range rules.Filter(issues, id) {
			if issue.IsBlocking() {
				summary.Errors++
			} else {
				summary.Warnings++
			}
		}
		if summary.Errors+summary.Warnings > 0 {
			out = append(out, summary)
		}
	}
	return out
}

func printRuleSummary(issues []rules.Issue) {
	summaries := summarizeRules(issues)
	if len(summaries) == 0 {
		fmt.Printf("%s✓ No rule violations%s\n\n", colorGreen, colorReset)
		return
	}

	fmt.Printf("Issues by rule:\n")
	for _, s := range summaries {
		color := colorYellow
		if s.Errors > 0 {
			color = colorRed
		}
		fmt.Printf("  %s%-20s%s %3d errors %3d warnings\n", color, s.Rule, colorReset, s.Errors, s.Warnings)
	}
	fmt.Println()
}

// printAnnotations lists the consolidated blockers and warnings day by day
func printAnnotations(schedule *model.MonthSchedule) {
	for _, day := range schedule.Days {
		for _, shiftKey := range sortedKeys(day.Blockers) {
			fmt.Printf("  %s✗ %s %-14s%s %s\n", colorRed, day.Date, shiftKey, colorReset, day.Blockers[shiftKey])
		}
		for _, shiftKey := range sortedKeys(day.Warnings) {
			fmt.Printf("  %s! %s %-14s%s %s\n", colorYellow, day.Date, shiftKey, colorReset, day.Warnings[shiftKey])
		}
	}
}

func printIssues(title string, issues []rules.Issue) {
	if len(issues) == 0 {
		return
	}
	fmt.Printf("%s:\n", title)
	for _, issue := range issues {
		color := colorYellow
		if issue.IsBlocking() {
			color = colorRed
		}
		fmt.Printf("  %s[%s]%s %s\n", color, issue.Rule, colorReset, issue.Message)
	}
	fmt.Println()
}

func printRequest(request model.OvertimeRequest) {
	color := colorDim
	switch request.Status {
	case model.OvertimeRequested:
		color = colorYellow
	case model.OvertimeConsented, model.OvertimeCompleted:
		color = colorGreen
	case model.OvertimeDeclined:
		color = colorRed
	}
	fmt.Printf("  %s  %s %-14s %-16s %s%-10s%s",
		request.ID, request.Date, request.ShiftKey, request.StaffID, color, request.Status, colorReset)
	if request.LastError != "" {
		fmt.Printf(" %s", request.LastError)
	}
	fmt.Println()
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
