package roster

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jakechorley/staff-roster/pkg/core/calendar"
	"github.com/jakechorley/staff-roster/pkg/core/model"
)

// DisqualifiedScore is given to candidates that would break a hard limit.
// They stay in the ranking so preview tooling can show why they were passed over.
const DisqualifiedScore = -1_000_000.0

// Candidate is one ranked staff member for a slot
type Candidate struct {
	StaffID string
	Score   float64

	// Reasons lists the hard limits a disqualified candidate would break
	Reasons []string
}

// Eligible reports whether the candidate can be committed
func (c Candidate) Eligible() bool {
	return c.Score > DisqualifiedScore
}

// SlotRequest identifies the slot being scored
type SlotRequest struct {
	Date     time.Time
	ShiftKey string

	// SameDay are the assignments already made on the date
	SameDay model.DayAssignments
}

// ScoreCandidates ranks every eligible staff member for one slot, highest score first,
// ties broken by staff id.
//
// Staff are left out entirely when they already work that day, are absent, set the
// day-off sentinel, or (permanent staff only) said "no" to the slot.
func ScoreCandidates(ref *Reference, month *MonthView, slot SlotRequest, counters *FairnessCounters) []Candidate {
	shift, ok := ref.Catalog.Get(slot.ShiftKey)
	if !ok {
		return nil
	}
	if counters == nil {
		counters = NewFairnessCounters()
	}

	date := calendar.DateKey(slot.Date)
	dayType := month.DayType(date)
	week := month.WeekOf(date)

	working := make(map[string]bool, len(slot.SameDay))
	for _, staffID := range slot.SameDay {
		working[staffID] = true
	}

	candidates := make([]Candidate, 0, len(ref.Staff()))
	for _, member := range ref.Staff() {
		if working[member.ID] {
			continue
		}
		if _, absent := ref.Absence(member.ID, date); absent {
			continue
		}
		status := ref.Availability(member.ID, date, shift.Key)
		if status == model.AvailabilityNo {
			continue
		}
		if ref.IsDayOff(member.ID, date) {
			continue
		}

		candidates = append(candidates, scoreCandidate(ref, month, member, slot.Date, shift, dayType, week, status, counters))
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Score != candidates[j].Score {
			return candidates[i].Score > candidates[j].Score
		}
		return candidates[i].StaffID < candidates[j].StaffID
	})

	return candidates
}

func scoreCandidate(
	ref *Reference,
	month *MonthView,
	member model.StaffMember,
	day time.Time,
	shift model.ShiftType,
	dayType model.DayType,
	week string,
	status model.AvailabilityStatus,
	counters *FairnessCounters,
) Candidate {
	policy := ref.Policy
	date := calendar.DateKey(day)
	evening := calendar.IsEvening(shift, policy.EveningCutoff)
	weekendLike := dayType.IsWeekendLike()
	isPermanent := member.Role == model.RolePermanent
	isStudent := member.Role == model.RoleStudent

	score := 0.0

	switch status {
	case model.AvailabilityPrefer:
		score += policy.PreferBonus
	case model.AvailabilityYes:
		score += policy.YesBonus
	}

	if weekendLike && (isStudent || (isPermanent && member.WeekendPreference)) {
		score += policy.WeekendBonus
	}

	if isStudent && evening {
		score += policy.StudentEveningBonus
	}

	if isPermanent && member.PermanentPreferredShift == shift.Key {
		score += policy.PreferredShiftBonus
	}

	// Penalized on exactly the days that need consent
	if ref.RequiresConsent(member, day) {
		waived := ref.HasVoluntaryOptIn(member.ID, date, shift) || ref.HasConsent(member.ID, date)
		switch {
		case waived:
		case member.WeekendPreference:
			score -= policy.AlternativeDayPenalty
		default:
			score -= policy.PermanentWeekendPenalty
		}
	}

	// Weekend fairness escalates once the floor is reached
	if weekendLike {
		taken := counters.WeekendShifts[member.ID]
		if taken >= policy.MinWeekendShifts {
			score -= policy.WeekendFairnessPenalty * float64(taken-policy.MinWeekendShifts+1)
		}
	}

	if isStudent && dayType == model.DayTypeWeekday && !evening {
		taken := counters.StudentDaytime[member.ID][week]
		if taken >= policy.StudentWeekdayDaytimeCap {
			penalty := policy.StudentDaytimePenalty * float64(taken-policy.StudentWeekdayDaytimeCap+1)
			if member.DaytimeCapException {
				penalty *= policy.StudentDaytimeExceptionFactor
			}
			score -= penalty
		}
	}

	var reasons []string

	if member.TypicalWorkdays > 0 {
		extra := counters.WorkedDays[member.ID][week] + 1 - month.TypicalDays(member, week)
		switch {
		case extra > policy.TypicalDaysHardExtra:
			reasons = append(reasons, fmt.Sprintf("would work %d days past typical workdays in %s", extra, week))
		case extra > policy.TypicalDaysSoftExtra:
			score -= policy.TypicalDaysSoftPenalty * float64(extra)
		case extra > 0:
			score -= policy.TypicalDaysPenalty * float64(extra)
		}
	}

	monthHours := counters.MonthHours[member.ID]
	wage := ref.WageFor(member)
	if target := month.MonthlyTarget(member, policy, wage); target > 0 {
		score += policy.WorkloadBalanceWeight * (1 - monthHours/target)
	}
	if member.PracticalMinHours > 0 && monthHours < member.PracticalMinHours {
		score += policy.PracticalHoursBonus
	}
	if member.PracticalMaxHours > 0 && monthHours+shift.Hours > member.PracticalMaxHours {
		score -= policy.PracticalHoursPenalty
	}

	start, _, err := calendar.ShiftWindow(day, shift)
	if err == nil {
		// A shift still running at start gives a negative gap
		if last, ok := counters.LastShiftEnd[member.ID]; ok {
			gap := start.Sub(last).Hours()
			if gap < policy.MinRestHours {
				reasons = append(reasons, fmt.Sprintf("only %.1fh rest since last shift", gap))
			}
		}
	}

	if member.Role == model.RoleMinijob {
		projected := decimal.NewFromFloat(monthHours + shift.Hours).Mul(decimal.NewFromFloat(wage))
		if projected.GreaterThan(decimal.NewFromFloat(policy.MinijobEarningsCap)) {
			reasons = append(reasons, fmt.Sprintf("projected earnings %s exceed cap", projected.StringFixed(2)))
		}
	}

	if isStudent {
		limit, period := month.StudentWeeklyCap(policy, ref.Terms, week)
		if projected := counters.WeekHours[member.ID][week] + shift.Hours; projected > limit {
			reasons = append(reasons, fmt.Sprintf("%.2fh in %s exceeds %s cap of %.0fh", projected, week, period, limit))
		}
	}

	if len(reasons) > 0 {
		return Candidate{StaffID: member.ID, Score: DisqualifiedScore, Reasons: reasons}
	}
	return Candidate{StaffID: member.ID, Score: score}
}
