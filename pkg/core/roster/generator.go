package roster

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/jakechorley/staff-roster/pkg/core/calendar"
	"github.com/jakechorley/staff-roster/pkg/core/model"
)

// Slot identifies one shift on one date
type Slot struct {
	Date     string
	ShiftKey string
}

// GenerationOutcome represents the result of a schedule generation
type GenerationOutcome struct {
	// Schedule is the generated month with every offered slot, filled or not
	Schedule *model.MonthSchedule

	// Unfilled lists the slots no eligible candidate could take
	Unfilled []Slot

	// Counters are the fairness tallies at the end of the run
	Counters *FairnessCounters
}

// Success reports whether every offered slot was filled
func (o *GenerationOutcome) Success() bool {
	return len(o.Unfilled) == 0
}

// Generate builds a schedule for the month greedily: days in ascending order, each day's
// shifts in priority order, each slot given to the top eligible candidate.
// The reference data is never mutated.
func Generate(ref *Reference, monthKey string, logger *zap.Logger) (*GenerationOutcome, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	month, err := ref.Month(monthKey)
	if err != nil {
		return nil, err
	}

	logger.Debug("Generating schedule",
		zap.String("month", monthKey),
		zap.Int("days", len(month.Dates)),
		zap.Int("staff", len(ref.Staff())))

	counters := NewFairnessCounters()
	schedule := &model.MonthSchedule{Month: monthKey}
	var unfilled []Slot

	for _, day := range month.Dates {
		date := calendar.DateKey(day)
		calendarDay := model.CalendarDay{
			Date:        date,
			DayType:     month.DayType(date),
			HolidayName: month.HolidayName(date),
			Assignments: model.DayAssignments{},
		}

		for _, shift := range ref.OfferedShifts(month, date) {
			candidates := ScoreCandidates(ref, month, SlotRequest{
				Date:     day,
				ShiftKey: shift.Key,
				SameDay:  calendarDay.Assignments,
			}, counters)

			chosen, ok := topEligible(candidates)
			if !ok {
				logger.Debug("No eligible candidate",
					zap.String("date", date),
					zap.String("shift", shift.Key),
					zap.Int("ranked", len(candidates)))
				unfilled = append(unfilled, Slot{Date: date, ShiftKey: shift.Key})
				continue
			}

			member, _ := ref.StaffByID(chosen.StaffID)
			_, end, err := calendar.ShiftWindow(day, shift)
			if err != nil {
				return nil, fmt.Errorf("shift %q: %w", shift.Key, err)
			}

			counters.Commit(Commit{
				Staff:   member,
				Shift:   shift,
				DayType: calendarDay.DayType,
				Week:    month.WeekOf(date),
				End:     end,
				Evening: calendar.IsEvening(shift, ref.Policy.EveningCutoff),
			})
			calendarDay.Assignments[shift.Key] = member.ID

			logger.Debug("Assigned shift",
				zap.String("date", date),
				zap.String("shift", shift.Key),
				zap.String("staff", member.ID),
				zap.Float64("score", chosen.Score))
		}

		schedule.Days = append(schedule.Days, calendarDay)
	}

	logger.Debug("Schedule generated",
		zap.String("month", monthKey),
		zap.Int("unfilled", len(unfilled)))

	return &GenerationOutcome{
		Schedule: schedule,
		Unfilled: unfilled,
		Counters: counters,
	}, nil
}

func topEligible(candidates []Candidate) (Candidate, bool) {
	for _, c := range candidates {
		if c.Eligible() {
			return c, true
		}
	}
	return Candidate{}, false
}
