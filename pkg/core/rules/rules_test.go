package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jakechorley/staff-roster/pkg/core/calendar"
	"github.com/jakechorley/staff-roster/pkg/core/model"
	"github.com/jakechorley/staff-roster/pkg/core/roster"
)

func newTestReference(t *testing.T, in roster.ReferenceInput) *roster.Reference {
	t.Helper()
	catalog, err := calendar.NewCatalog(calendar.DefaultShifts())
	require.NoError(t, err)
	in.Catalog = catalog
	in.Policy = model.DefaultPolicy()
	if in.Staff == nil {
		in.Staff = testStaff()
	}
	ref, err := roster.NewReference(in)
	require.NoError(t, err)
	return ref
}

func testStaff() []model.StaffMember {
	return []model.StaffMember{
		{ID: "perm_anna", Name: "Anna", Role: model.RolePermanent, ContractHours: 40, TypicalWorkdays: 5},
		{ID: "perm_ben", Name: "Ben", Role: model.RolePermanent, ContractHours: 40, TypicalWorkdays: 5, WeekendPreference: true, AlternativeWeekendDays: []int{1, 2}},
		{ID: "stud_cara", Name: "Cara", Role: model.RoleStudent, ContractHours: 15, TypicalWorkdays: 3},
		{ID: "mini_eva", Name: "Eva", Role: model.RoleMinijob, TypicalWorkdays: 5},
	}
}

func assign(pairs ...string) model.Assignments {
	out := model.Assignments{}
	for i := 0; i+2 < len(pairs); i += 3 {
		out.Set(pairs[i], pairs[i+1], pairs[i+2])
	}
	return out
}

func validate(t *testing.T, ref *roster.Reference, assignments model.Assignments) []Issue {
	t.Helper()
	issues, err := Validate(ref, "2025-06", assignments)
	require.NoError(t, err)
	return issues
}

func scheduleFor(month string, assignments model.Assignments) *model.MonthSchedule {
	first, _ := calendar.ParseMonth(month)
	schedule := &model.MonthSchedule{Month: month}
	for _, d := range calendar.MonthDates(first) {
		key := calendar.DateKey(d)
		day := model.CalendarDay{Date: key, Assignments: model.DayAssignments{}}
		for shiftKey, staffID := range assignments[key] {
			day.Assignments[shiftKey] = staffID
		}
		schedule.Days = append(schedule.Days, day)
	}
	return schedule
}

func TestValidate_MinijobEarningsCap(t *testing.T) {
	ref := newTestReference(t, roster.ReferenceInput{})

	// 8 x 5.25h = 42h at 13.50 = 567.00
	assignments := assign(
		"2025-06-02", "midday", "mini_eva",
		"2025-06-03", "midday", "mini_eva",
		"2025-06-04", "midday", "mini_eva",
		"2025-06-05", "midday", "mini_eva",
		"2025-06-06", "midday", "mini_eva",
		"2025-06-09", "midday", "mini_eva",
		"2025-06-10", "midday", "mini_eva",
		"2025-06-11", "midday", "mini_eva",
	)

	minijob := Filter(validate(t, ref, assignments), RuleMinijob)
	require.Len(t, minijob, 1)
	assert.Equal(t, SeverityWarning, minijob[0].Severity)
	assert.Equal(t, "mini_eva", minijob[0].StaffID)
	assert.Contains(t, minijob[0].Message, "567.00")
	assert.Contains(t, minijob[0].Message, "42.00h")
}

func TestValidate_MinijobBelowCap(t *testing.T) {
	ref := newTestReference(t, roster.ReferenceInput{})

	assignments := assign(
		"2025-06-02", "midday", "mini_eva",
		"2025-06-03", "midday", "mini_eva",
	)

	assert.Empty(t, Filter(validate(t, ref, assignments), RuleMinijob))
}

func TestValidate_PermanentConsent(t *testing.T) {
	assignments := assign("2025-06-07", "weekend_early", "perm_anna")

	ref := newTestReference(t, roster.ReferenceInput{})
	consent := Filter(validate(t, ref, assignments), RulePermanentConsent)
	require.Len(t, consent, 1)
	assert.Equal(t, SeverityWarning, consent[0].Severity)
	assert.Equal(t, "2025-06-07", consent[0].Date)
	assert.Equal(t, "weekend_early", consent[0].ShiftKey)

	withConsent := newTestReference(t, roster.ReferenceInput{
		Consents: []model.ConsentRecord{{StaffID: "perm_anna", Year: 2025, Date: "2025-06-07", Approved: true}},
	})
	assert.Empty(t, Filter(validate(t, withConsent, assignments), RulePermanentConsent))
}

func TestValidate_AlternativeWeekend(t *testing.T) {
	ref := newTestReference(t, roster.ReferenceInput{})

	// Monday is one of Ben's alternative weekend days, Saturday is not gated for him
	issues := validate(t, ref, assign(
		"2025-06-07", "weekend_early", "perm_ben",
		"2025-06-09", "early", "perm_ben",
	))

	alternative := Filter(issues, RuleAlternativeWeekend)
	require.Len(t, alternative, 1)
	assert.Equal(t, "2025-06-09", alternative[0].Date)
	assert.Empty(t, Filter(issues, RulePermanentConsent))
}

func TestValidate_Absence(t *testing.T) {
	ref := newTestReference(t, roster.ReferenceInput{
		Absences: []model.AbsencePeriod{
			{StaffID: "stud_cara", Start: "2025-06-10", End: "2025-06-14", Kind: model.AbsenceVacation},
		},
	})

	assignments := assign("2025-06-12", "early", "stud_cara")
	issues := validate(t, ref, assignments)

	absence := Filter(issues, RuleAbsence)
	require.Len(t, absence, 1)
	assert.Equal(t, SeverityError, absence[0].Severity)
	assert.Equal(t, "2025-06-12", absence[0].Date)
	assert.Equal(t, "early", absence[0].ShiftKey)

	schedule := scheduleFor("2025-06", assignments)
	Consolidate(schedule, issues)
	day := schedule.Day("2025-06-12")
	require.NotNil(t, day)
	assert.Contains(t, day.Blockers["early"], "vacation")
}

func TestValidate_RestSameDayNeverChecked(t *testing.T) {
	ref := newTestReference(t, roster.ReferenceInput{})

	issues := validate(t, ref, assign(
		"2025-06-10", "early", "stud_cara",
		"2025-06-10", "closing", "stud_cara",
	))

	assert.Empty(t, Filter(issues, RuleRest))
}

func TestValidate_RestAcrossDays(t *testing.T) {
	ref := newTestReference(t, roster.ReferenceInput{})

	// Closing ends 22:00, early starts 06:00: 8h of rest
	assignments := assign(
		"2025-06-10", "closing", "stud_cara",
		"2025-06-11", "early", "stud_cara",
	)
	issues := validate(t, ref, assignments)

	rest := Filter(issues, RuleRest)
	require.Len(t, rest, 1)
	assert.Equal(t, SeverityError, rest[0].Severity)
	assert.Equal(t, "2025-06-11", rest[0].Date)
	assert.Equal(t, "early", rest[0].ShiftKey)

	schedule := scheduleFor("2025-06", assignments)
	Consolidate(schedule, issues)
	assert.NotEmpty(t, schedule.Day("2025-06-11").Blockers["early"])
	assert.Empty(t, schedule.Day("2025-06-10").Blockers["closing"])
}

func TestValidate_RestUsesMostRecentWorkedDay(t *testing.T) {
	ref := newTestReference(t, roster.ReferenceInput{})

	// A day off between closing and early gives plenty of rest
	issues := validate(t, ref, assign(
		"2025-06-10", "closing", "stud_cara",
		"2025-06-12", "early", "stud_cara",
	))

	assert.Empty(t, Filter(issues, RuleRest))
}

func TestValidate_TypicalDays(t *testing.T) {
	ref := newTestReference(t, roster.ReferenceInput{
		Staff: []model.StaffMember{
			{ID: "a", Name: "A", Role: model.RolePermanent, TypicalWorkdays: 1},
		},
	})

	issues := validate(t, ref, assign(
		"2025-06-09", "midday", "a",
		"2025-06-10", "midday", "a",
	))
	typical := Filter(issues, RuleTypicalDays)
	require.Len(t, typical, 1)
	assert.Equal(t, SeverityWarning, typical[0].Severity)
	assert.Equal(t, "2025-W24", typical[0].Week)

	issues = validate(t, ref, assign(
		"2025-06-09", "midday", "a",
		"2025-06-10", "midday", "a",
		"2025-06-11", "midday", "a",
	))
	typical = Filter(issues, RuleTypicalDays)
	require.Len(t, typical, 1)
	assert.Equal(t, SeverityError, typical[0].Severity)
}

func TestValidate_TypicalDaysCountsDistinctDays(t *testing.T) {
	ref := newTestReference(t, roster.ReferenceInput{
		Staff: []model.StaffMember{
			{ID: "a", Name: "A", Role: model.RolePermanent, TypicalWorkdays: 1},
		},
	})

	issues := validate(t, ref, assign(
		"2025-06-09", "early", "a",
		"2025-06-09", "closing", "a",
	))
	assert.Empty(t, Filter(issues, RuleTypicalDays))
}

func TestValidate_StudentHoursByTermPeriod(t *testing.T) {
	ref := newTestReference(t, roster.ReferenceInput{})

	// 4 x 5.25h = 21h, above the 20h lecture cap
	issues := validate(t, ref, assign(
		"2025-06-09", "closing", "stud_cara",
		"2025-06-10", "closing", "stud_cara",
		"2025-06-11", "closing", "stud_cara",
		"2025-06-12", "closing", "stud_cara",
	))
	hours := Filter(issues, RuleStudentHours)
	require.Len(t, hours, 1)
	assert.Equal(t, "2025-W24", hours[0].Week)
	assert.Contains(t, hours[0].Message, "lecture")

	// August is break time with a 40h cap
	august, err := Validate(ref, "2025-08", assign(
		"2025-08-11", "closing", "stud_cara",
		"2025-08-12", "closing", "stud_cara",
		"2025-08-13", "closing", "stud_cara",
		"2025-08-14", "closing", "stud_cara",
	))
	require.NoError(t, err)
	assert.Empty(t, Filter(august, RuleStudentHours))
}

func TestValidate_StudentDaytimeCap(t *testing.T) {
	assignments := assign(
		"2025-06-09", "midday", "stud_cara",
		"2025-06-10", "midday", "stud_cara",
		"2025-06-11", "midday", "stud_cara",
	)

	ref := newTestReference(t, roster.ReferenceInput{})
	student := Filter(validate(t, ref, assignments), RuleStudent)
	require.Len(t, student, 1)
	assert.Equal(t, "2025-W24", student[0].Week)

	exception := newTestReference(t, roster.ReferenceInput{
		Staff: []model.StaffMember{
			{ID: "stud_cara", Name: "Cara", Role: model.RoleStudent, DaytimeCapException: true},
		},
	})
	assert.Empty(t, Filter(validate(t, exception, assignments), RuleStudent))
}

func TestValidate_StudentDaytimeRatio(t *testing.T) {
	ref := newTestReference(t, roster.ReferenceInput{})

	// Two daytime shifts per week stay under the weekly cap, but nothing balances them
	issues := validate(t, ref, assign(
		"2025-06-09", "midday", "stud_cara",
		"2025-06-11", "midday", "stud_cara",
		"2025-06-16", "midday", "stud_cara",
		"2025-06-18", "midday", "stud_cara",
	))

	student := Filter(issues, RuleStudent)
	require.Len(t, student, 1)
	assert.Empty(t, student[0].Week)
	assert.Empty(t, student[0].Date)
}

func TestValidate_WeekendRange(t *testing.T) {
	ref := newTestReference(t, roster.ReferenceInput{})

	issues := validate(t, ref, assign(
		"2025-06-01", "weekend_early", "stud_cara",
		"2025-06-07", "weekend_early", "stud_cara",
		"2025-06-08", "weekend_early", "stud_cara",
		"2025-06-14", "weekend_early", "stud_cara",
		"2025-06-15", "weekend_early", "stud_cara",
		"2025-06-21", "weekend_early", "stud_cara",
	))
	weekend := Filter(issues, RuleWeekend)
	require.Len(t, weekend, 1)
	assert.Contains(t, weekend[0].Message, "maximum")

	issues = validate(t, ref, assign("2025-06-10", "closing", "stud_cara"))
	weekend = Filter(issues, RuleWeekend)
	require.Len(t, weekend, 1)
	assert.Contains(t, weekend[0].Message, "minimum")
}

func TestValidate_WeekendExemptions(t *testing.T) {
	ref := newTestReference(t, roster.ReferenceInput{
		Availability: []model.AvailabilityRecord{
			{StaffID: "stud_cara", Date: "2025-06-07", Status: model.AvailabilityYes},
		},
	})

	// Weekend-only availability exempts the student
	issues := validate(t, ref, assign("2025-06-10", "closing", "stud_cara"))
	assert.Empty(t, Filter(issues, RuleWeekend))
}

func TestValidate_WorkloadMonthly(t *testing.T) {
	ref := newTestReference(t, roster.ReferenceInput{})

	issues := validate(t, ref, assign("2025-06-10", "early", "perm_anna"))

	var monthly []Issue
	for _, issue := range Filter(issues, RuleWorkload) {
		if issue.StaffID == "perm_anna" && issue.Week == "" {
			monthly = append(monthly, issue)
		}
	}
	require.Len(t, monthly, 1)
	assert.Contains(t, monthly[0].Message, "below the monthly target")
}

func TestValidate_NormalizesInput(t *testing.T) {
	ref := newTestReference(t, roster.ReferenceInput{
		Staff: []model.StaffMember{{ID: "a", Name: "A", Role: model.RoleStudent}},
	})

	issues, err := Validate(ref, "2025-06", nil)
	require.NoError(t, err)
	assert.Empty(t, issues)

	issues, err = Validate(ref, "2025-06", assign(
		"2025-06-10", "early", "ghost",
		"2025-06-10", "unknown_shift", "a",
		"2025-07-01", "early", "a",
	))
	require.NoError(t, err)
	assert.Empty(t, issues)
}

func TestValidate_InvalidMonth(t *testing.T) {
	ref := newTestReference(t, roster.ReferenceInput{})
	_, err := Validate(ref, "not-a-month", nil)
	assert.ErrorIs(t, err, calendar.ErrInvalidMonth)
}

func TestValidate_Deterministic(t *testing.T) {
	ref := newTestReference(t, roster.ReferenceInput{
		Absences: []model.AbsencePeriod{
			{StaffID: "stud_cara", Start: "2025-06-10", End: "2025-06-14", Kind: model.AbsenceIllness},
		},
	})
	assignments := assign(
		"2025-06-07", "weekend_early", "perm_anna",
		"2025-06-09", "closing", "stud_cara",
		"2025-06-10", "early", "stud_cara",
		"2025-06-10", "closing", "perm_anna",
		"2025-06-11", "early", "perm_anna",
		"2025-06-16", "early", "perm_ben",
	)

	first := validate(t, ref, assignments)
	second := validate(t, ref, assignments)
	assert.Equal(t, first, second)

	a := scheduleFor("2025-06", assignments)
	b := scheduleFor("2025-06", assignments)
	Consolidate(a, first)
	Consolidate(b, second)
	for i := range a.Days {
		assert.Equal(t, a.Days[i].Blockers, b.Days[i].Blockers)
		assert.Equal(t, a.Days[i].Warnings, b.Days[i].Warnings)
	}
}

func TestConsolidate_WeekScopedIssues(t *testing.T) {
	schedule := scheduleFor("2025-06", assign(
		"2025-06-10", "early", "a",
		"2025-06-17", "early", "a",
	))
	issues := []Issue{
		{Rule: RuleTypicalDays, Severity: SeverityError, StaffID: "a", Week: "2025-W24", Message: "too many days"},
		{Rule: RuleWorkload, Severity: SeverityWarning, StaffID: "a", Message: "monthly"},
		{Rule: RuleWorkload, Severity: SeverityWarning, StaffID: "a", Message: "monthly"},
		{Rule: RuleAbsence, Severity: SeverityError, StaffID: "b", Date: "2025-06-10", ShiftKey: "early", Message: "other staff"},
	}

	Consolidate(schedule, issues)

	june10 := schedule.Day("2025-06-10")
	assert.Equal(t, "too many days", june10.Blockers["early"])
	assert.Equal(t, "monthly", june10.Warnings["early"])

	june17 := schedule.Day("2025-06-17")
	assert.Empty(t, june17.Blockers)
	assert.Equal(t, "monthly", june17.Warnings["early"])
}

func TestFailedRulesAndCounts(t *testing.T) {
	issues := []Issue{
		{Rule: RuleRest, Severity: SeverityError, StaffID: "a"},
		{Rule: RuleWorkload, Severity: SeverityWarning, StaffID: "a"},
		{Rule: RuleRest, Severity: SeverityError, StaffID: "b"},
	}

	assert.Equal(t, []RuleID{RuleWorkload, RuleRest}, FailedRules(issues))
	counts := CountByRule(issues)
	assert.Equal(t, 2, counts[RuleRest])
	assert.Equal(t, 1, counts[RuleWorkload])
	assert.Len(t, All(), 10)
}
