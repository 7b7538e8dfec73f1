package roster

import (
	"math"
	"time"

	"github.com/jakechorley/staff-roster/pkg/core/calendar"
	"github.com/jakechorley/staff-roster/pkg/core/model"
)

// baselineWeekdays is the working week targets are expressed against
const baselineWeekdays = 5

// MonthView is the resolved calendar of one month: day types, ISO weeks and the
// weekday slot counts used to prorate targets
type MonthView struct {
	Key   string
	First time.Time
	Dates []time.Time

	dayTypes     map[string]model.DayType
	holidayNames map[string]string
	weekOf       map[string]string
	weeks        []string
	weekdaySlots map[string]int
	weekDays     map[string]int
	thursdays    map[string]time.Time
	totalSlots   int
}

// Month resolves a month key against the reference calendar
func (r *Reference) Month(monthKey string) (*MonthView, error) {
	first, err := calendar.ParseMonth(monthKey)
	if err != nil {
		return nil, err
	}

	v := &MonthView{
		Key:          monthKey,
		First:        first,
		Dates:        calendar.MonthDates(first),
		dayTypes:     make(map[string]model.DayType),
		holidayNames: make(map[string]string),
		weekOf:       make(map[string]string),
		weekdaySlots: make(map[string]int),
		weekDays:     make(map[string]int),
		thursdays:    make(map[string]time.Time),
	}

	for _, d := range v.Dates {
		key := calendar.DateKey(d)
		dayType, holiday := r.Days.Resolve(d)
		v.dayTypes[key] = dayType
		if holiday != "" {
			v.holidayNames[key] = holiday
		}

		week := calendar.WeekKey(d)
		if _, seen := v.weekDays[week]; !seen {
			v.weeks = append(v.weeks, week)
			v.thursdays[week] = calendar.WeekThursday(d)
		}
		v.weekOf[key] = week
		v.weekDays[week]++

		if dayType == model.DayTypeWeekday {
			v.weekdaySlots[week]++
			v.totalSlots++
		}
	}

	return v, nil
}

// DayType returns the resolved day type of a date key in the month
func (v *MonthView) DayType(date string) model.DayType {
	return v.dayTypes[date]
}

// HolidayName returns the holiday name of a date key, if any
func (v *MonthView) HolidayName(date string) string {
	return v.holidayNames[date]
}

// Contains reports whether the date key belongs to the month
func (v *MonthView) Contains(date string) bool {
	_, ok := v.dayTypes[date]
	return ok
}

// WeekOf returns the ISO week key of a date in the month
func (v *MonthView) WeekOf(date string) string {
	return v.weekOf[date]
}

// Weeks returns the ISO weeks touching the month in order
func (v *MonthView) Weeks() []string {
	return v.weeks
}

// WeeklyTarget prorates the contract hours by the week's weekday slots inside the month
func (v *MonthView) WeeklyTarget(member model.StaffMember, week string) float64 {
	return member.ContractHours * float64(v.weekdaySlots[week]) / baselineWeekdays
}

// MonthlyTarget prorates the contract hours over the month's weekday slots.
// Minijob targets never exceed what the earnings cap allows.
func (v *MonthView) MonthlyTarget(member model.StaffMember, policy model.Policy, wage float64) float64 {
	target := member.ContractHours * float64(v.totalSlots) / baselineWeekdays
	if member.Role == model.RoleMinijob && wage > 0 {
		target = math.Min(target, policy.MinijobEarningsCap/wage)
	}
	return target
}

// TypicalDays prorates the typical workdays for weeks cut by the month boundary
func (v *MonthView) TypicalDays(member model.StaffMember, week string) int {
	days := v.weekDays[week]
	if days >= 7 {
		return member.TypicalWorkdays
	}
	return int(math.Ceil(float64(member.TypicalWorkdays) * float64(days) / 7))
}

// StudentWeeklyCap returns the weekly hour cap for the week's term period
func (v *MonthView) StudentWeeklyCap(policy model.Policy, terms TermCalculator, week string) (float64, calendar.TermPeriod) {
	period := terms.PeriodFor(v.thursdays[week])
	if period == calendar.TermLecture {
		return policy.StudentLectureWeeklyHours, period
	}
	return policy.StudentBreakWeeklyHours, period
}

// OfferedShifts returns the shift types of a date in fill order
func (r *Reference) OfferedShifts(v *MonthView, date string) []model.ShiftType {
	return r.Catalog.Ordered(v.DayType(date), r.Policy.ShiftPriority)
}
