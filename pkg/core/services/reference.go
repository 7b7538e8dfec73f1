package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/jakechorley/staff-roster/internal/config"
	"github.com/jakechorley/staff-roster/pkg/core/calendar"
	"github.com/jakechorley/staff-roster/pkg/core/model"
	"github.com/jakechorley/staff-roster/pkg/core/roster"
	"github.com/jakechorley/staff-roster/pkg/db"
)

// loadReference fetches the reference data for a month and builds the read-only snapshot
func loadReference(ctx context.Context, store db.ReferenceStore, cfg *config.Config, logger *zap.Logger, month string) (*roster.Reference, error) {
	logger.Debug("Loading reference data", zap.String("month", month))

	catalog, err := cfg.Catalog()
	if err != nil {
		return nil, fmt.Errorf("failed to build shift catalog: %w", err)
	}
	days, err := cfg.DayResolver()
	if err != nil {
		return nil, fmt.Errorf("failed to build day resolver: %w", err)
	}
	terms, err := cfg.TermCalendar()
	if err != nil {
		return nil, fmt.Errorf("failed to build term calendar: %w", err)
	}

	staff, err := store.GetStaff(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch staff: %w", err)
	}
	availability, err := store.GetAvailability(ctx, month)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch availability: %w", err)
	}
	absences, err := store.GetAbsences(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch absences: %w", err)
	}
	consents, err := store.GetConsents(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch consents: %w", err)
	}

	logger.Debug("Reference data fetched",
		zap.Int("staff", len(staff)),
		zap.Int("availability", len(availability)),
		zap.Int("absences", len(absences)),
		zap.Int("consents", len(consents)))

	ref, err := roster.NewReference(roster.ReferenceInput{
		Policy:       cfg.Policy,
		Catalog:      catalog,
		Days:         days,
		Terms:        terms,
		Staff:        staff,
		Availability: availability,
		Absences:     absences,
		Consents:     consents,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build reference: %w", err)
	}
	return ref, nil
}

// loadSchedule returns the stored month, or an empty one when none has been saved yet
func loadSchedule(ctx context.Context, store db.ScheduleStore, view *roster.MonthView) (*model.MonthSchedule, error) {
	schedule, err := store.GetSchedule(ctx, view.Key)
	if errors.Is(err, db.ErrScheduleNotFound) {
		return emptySchedule(view), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch schedule: %w", err)
	}
	return schedule, nil
}

// emptySchedule lays out every day of the month with no assignments
func emptySchedule(view *roster.MonthView) *model.MonthSchedule {
	schedule := &model.MonthSchedule{Month: view.Key}
	for _, d := range view.Dates {
		date := calendar.DateKey(d)
		schedule.Days = append(schedule.Days, model.CalendarDay{
			Date:        date,
			DayType:     view.DayType(date),
			HolidayName: view.HolidayName(date),
			Assignments: model.DayAssignments{},
		})
	}
	return schedule
}

// applyAssignments replaces the assignments of every day in the schedule
func applyAssignments(schedule *model.MonthSchedule, assignments model.Assignments) {
	for i := range schedule.Days {
		day := &schedule.Days[i]
		day.Assignments = model.DayAssignments{}
		for shiftKey, staffID := range assignments[day.Date] {
			if staffID != "" {
				day.Assignments[shiftKey] = staffID
			}
		}
	}
}
