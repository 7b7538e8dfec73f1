package services

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/jakechorley/staff-roster/internal/config"
	"github.com/jakechorley/staff-roster/pkg/core/calendar"
	"github.com/jakechorley/staff-roster/pkg/core/model"
	"github.com/jakechorley/staff-roster/pkg/core/overtime"
	"github.com/jakechorley/staff-roster/pkg/core/rules"
	"github.com/jakechorley/staff-roster/pkg/db"
)

// AssignRequest is a single slot edit. An empty StaffID clears the slot.
type AssignRequest struct {
	Month    string
	Date     string
	ShiftKey string
	StaffID  string
	// Force commits despite blockers or an open overtime request
	Force bool
}

// AssignResult represents the result of a slot edit
type AssignResult struct {
	Committed bool
	Schedule  *model.MonthSchedule

	// Blockers and Warnings are the issues attached to the edited slot
	Blockers []rules.Issue
	Warnings []rules.Issue

	// Issues is the full validation of the month after the edit
	Issues []rules.Issue

	// Overtime is the open request the assignment needs, if any
	Overtime *model.OvertimeRequest
}

// AssignShift assigns or clears one slot of a month.
// The edit is validated first; a blocked slot or an open overtime request keeps it from
// being saved unless Force is set.
func AssignShift(ctx context.Context, database db.Database, cfg *config.Config, logger *zap.Logger, req AssignRequest) (*AssignResult, error) {
	logger.Debug("Assigning shift",
		zap.String("month", req.Month),
		zap.String("date", req.Date),
		zap.String("shift", req.ShiftKey),
		zap.String("staff", req.StaffID),
		zap.Bool("force", req.Force))

	day, err := calendar.ParseDate(req.Date)
	if err != nil {
		return nil, err
	}
	if !strings.HasPrefix(req.Date, req.Month+"-") {
		return nil, fmt.Errorf("date %s is not in month %s", req.Date, req.Month)
	}

	ref, err := loadReference(ctx, database, cfg, logger, req.Month)
	if err != nil {
		return nil, err
	}
	view, err := ref.Month(req.Month)
	if err != nil {
		return nil, err
	}

	offered := false
	for _, shift := range ref.OfferedShifts(view, req.Date) {
		if shift.Key == req.ShiftKey {
			offered = true
			break
		}
	}
	if !offered {
		return nil, fmt.Errorf("shift %q is not offered on %s (%s)", req.ShiftKey, req.Date, view.DayType(req.Date))
	}
	if req.StaffID != "" {
		if _, ok := ref.StaffByID(req.StaffID); !ok {
			return nil, fmt.Errorf("unknown staff id %q", req.StaffID)
		}
	}

	schedule, err := loadSchedule(ctx, database, view)
	if err != nil {
		return nil, err
	}
	updated := schedule.Assignments()
	updated.Set(req.Date, req.ShiftKey, req.StaffID)

	issues, err := rules.Validate(ref, req.Month, updated)
	if err != nil {
		return nil, fmt.Errorf("failed to validate schedule: %w", err)
	}

	result := &AssignResult{Schedule: schedule, Issues: issues}
	if req.StaffID != "" {
		for _, issue := range rules.SlotIssues(issues, calendar.WeekKey(day), req.Date, req.ShiftKey, req.StaffID) {
			if issue.IsBlocking() {
				result.Blockers = append(result.Blockers, issue)
			} else {
				result.Warnings = append(result.Warnings, issue)
			}
		}

		// Blocked slots get no consent request unless forced
		if len(result.Blockers) == 0 || req.Force {
			workflow := overtime.NewWorkflow(database, logger)
			result.Overtime, err = workflow.RequestIfNeeded(ctx, ref, overtime.Slot{
				Month:    req.Month,
				Date:     req.Date,
				ShiftKey: req.ShiftKey,
				StaffID:  req.StaffID,
			}, updated)
			if err != nil {
				return nil, fmt.Errorf("failed to check overtime: %w", err)
			}
		}
	}

	if !req.Force {
		if result.Overtime != nil {
			logger.Info("Assignment awaits overtime consent",
				zap.String("request_id", result.Overtime.ID),
				zap.String("status", string(result.Overtime.Status)))
			return result, nil
		}
		if len(result.Blockers) > 0 {
			logger.Warn("Assignment refused",
				zap.String("date", req.Date),
				zap.String("shift", req.ShiftKey),
				zap.Int("blockers", len(result.Blockers)))
			return result, nil
		}
	}

	applyAssignments(schedule, updated)
	rules.Consolidate(schedule, issues)
	if err := database.SaveSchedule(ctx, schedule); err != nil {
		return nil, fmt.Errorf("failed to save schedule: %w", err)
	}
	result.Committed = true

	logger.Info("Shift assigned",
		zap.String("date", req.Date),
		zap.String("shift", req.ShiftKey),
		zap.String("staff", req.StaffID),
		zap.Int("blockers", len(result.Blockers)),
		zap.Int("warnings", len(result.Warnings)))

	return result, nil
}
