package roster

import (
	"sort"
	"time"

	"github.com/jakechorley/staff-roster/pkg/core/calendar"
	"github.com/jakechorley/staff-roster/pkg/core/model"
)

// FairnessCounters are the running tallies of one generation run.
// They only bias scoring and are rebuilt from empty on every run.
type FairnessCounters struct {
	// WeekendShifts counts weekend and holiday shifts per staff
	WeekendShifts map[string]int

	// StudentDaytime counts weekday daytime shifts per student per ISO week
	StudentDaytime map[string]map[string]int

	// LastShiftEnd is the end of the latest committed shift per staff
	LastShiftEnd map[string]time.Time

	// WorkedDays counts distinct worked days per staff per ISO week
	WorkedDays map[string]map[string]int

	// WeekHours and MonthHours sum committed hours per staff
	WeekHours  map[string]map[string]float64
	MonthHours map[string]float64
}

// NewFairnessCounters returns empty counters
func NewFairnessCounters() *FairnessCounters {
	return &FairnessCounters{
		WeekendShifts:  make(map[string]int),
		StudentDaytime: make(map[string]map[string]int),
		LastShiftEnd:   make(map[string]time.Time),
		WorkedDays:     make(map[string]map[string]int),
		WeekHours:      make(map[string]map[string]float64),
		MonthHours:     make(map[string]float64),
	}
}

// Commit records one committed assignment
func (c *FairnessCounters) Commit(commit Commit) {
	id := commit.Staff.ID

	if commit.DayType.IsWeekendLike() {
		c.WeekendShifts[id]++
	}

	if commit.Staff.Role == model.RoleStudent && commit.DayType == model.DayTypeWeekday && !commit.Evening {
		if c.StudentDaytime[id] == nil {
			c.StudentDaytime[id] = make(map[string]int)
		}
		c.StudentDaytime[id][commit.Week]++
	}

	if !commit.SkipRest {
		if last, ok := c.LastShiftEnd[id]; !ok || commit.End.After(last) {
			c.LastShiftEnd[id] = commit.End
		}
	}

	if !commit.SameDayRepeat {
		if c.WorkedDays[id] == nil {
			c.WorkedDays[id] = make(map[string]int)
		}
		c.WorkedDays[id][commit.Week]++
	}

	if c.WeekHours[id] == nil {
		c.WeekHours[id] = make(map[string]float64)
	}
	c.WeekHours[id][commit.Week] += commit.Shift.Hours
	c.MonthHours[id] += commit.Shift.Hours
}

// Commit describes an assignment being added to the counters
type Commit struct {
	Staff   model.StaffMember
	Shift   model.ShiftType
	DayType model.DayType
	Week    string
	End     time.Time
	Evening bool

	// SameDayRepeat is set when the staff member already works another shift that day
	SameDayRepeat bool

	// SkipRest leaves LastShiftEnd untouched
	SkipRest bool
}

// CountersFrom replays existing assignments into fresh counters so a single slot can be
// scored against the rest of the month. The slot itself is skipped, and only shifts on
// earlier dates feed LastShiftEnd.
func CountersFrom(ref *Reference, month *MonthView, assignments model.Assignments, skip Slot) *FairnessCounters {
	counters := NewFairnessCounters()

	for _, day := range month.Dates {
		date := calendar.DateKey(day)
		worked := make(map[string]bool)

		keys := make([]string, 0, len(assignments[date]))
		for shiftKey := range assignments[date] {
			keys = append(keys, shiftKey)
		}
		sort.Strings(keys)

		for _, shiftKey := range keys {
			if date == skip.Date && shiftKey == skip.ShiftKey {
				continue
			}
			member, ok := ref.StaffByID(assignments[date][shiftKey])
			if !ok {
				continue
			}
			shift, ok := ref.Catalog.Get(shiftKey)
			if !ok {
				continue
			}
			_, end, err := calendar.ShiftWindow(day, shift)
			if err != nil {
				continue
			}

			counters.Commit(Commit{
				Staff:         member,
				Shift:         shift,
				DayType:       month.DayType(date),
				Week:          month.WeekOf(date),
				End:           end,
				Evening:       calendar.IsEvening(shift, ref.Policy.EveningCutoff),
				SameDayRepeat: worked[member.ID],
				SkipRest:      skip.Date != "" && date >= skip.Date,
			})
			worked[member.ID] = true
		}
	}

	return counters
}
