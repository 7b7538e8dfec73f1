package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jakechorley/staff-roster/internal/config"
	"github.com/jakechorley/staff-roster/pkg/core/model"
	"github.com/jakechorley/staff-roster/pkg/core/overtime"
	"github.com/jakechorley/staff-roster/pkg/core/rules"
	"github.com/jakechorley/staff-roster/pkg/db"
)

// ListRequests returns the overtime requests of a month, or all of them when month is empty
func ListRequests(ctx context.Context, store db.OvertimeStore, logger *zap.Logger, month string) ([]model.OvertimeRequest, error) {
	logger.Debug("Listing overtime requests", zap.String("month", month))
	return overtime.NewWorkflow(store, logger).List(ctx, month)
}

// ConsentRequest records the staff member's consent for a request
func ConsentRequest(ctx context.Context, store db.OvertimeStore, logger *zap.Logger, id string) (*model.OvertimeRequest, error) {
	logger.Debug("Consenting to overtime request", zap.String("id", id))
	return overtime.NewWorkflow(store, logger).Consent(ctx, id)
}

// DeclineRequest records the staff member's refusal of a request
func DeclineRequest(ctx context.Context, store db.OvertimeStore, logger *zap.Logger, id string) (*model.OvertimeRequest, error) {
	logger.Debug("Declining overtime request", zap.String("id", id))
	return overtime.NewWorkflow(store, logger).Decline(ctx, id)
}

// FinalizeResult represents the result of finalizing an overtime request
type FinalizeResult struct {
	Request   *model.OvertimeRequest
	Committed bool
	Schedule  *model.MonthSchedule
	Issues    []rules.Issue
}

// FinalizeRequest applies a consented request to its month.
// The reference is reloaded so the new consent record is taken into account.
// A blocked request stays consented with its LastError and the schedule is left unchanged.
func FinalizeRequest(ctx context.Context, database db.Database, cfg *config.Config, logger *zap.Logger, id string) (*FinalizeResult, error) {
	logger.Debug("Finalizing overtime request", zap.String("id", id))

	request, err := database.GetRequest(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch overtime request: %w", err)
	}

	ref, err := loadReference(ctx, database, cfg, logger, request.Month)
	if err != nil {
		return nil, err
	}
	view, err := ref.Month(request.Month)
	if err != nil {
		return nil, err
	}
	schedule, err := loadSchedule(ctx, database, view)
	if err != nil {
		return nil, err
	}

	finalized, updated, err := overtime.NewWorkflow(database, logger).Finalize(ctx, ref, id, schedule.Assignments())
	if err != nil {
		return nil, err
	}
	result := &FinalizeResult{Request: finalized, Schedule: schedule}
	if updated == nil {
		return result, nil
	}

	issues, err := rules.Validate(ref, request.Month, updated)
	if err != nil {
		return nil, fmt.Errorf("failed to validate schedule: %w", err)
	}
	applyAssignments(schedule, updated)
	rules.Consolidate(schedule, issues)
	if err := database.SaveSchedule(ctx, schedule); err != nil {
		return nil, fmt.Errorf("failed to save schedule: %w", err)
	}

	result.Committed = true
	result.Issues = issues

	logger.Info("Overtime assignment saved",
		zap.String("id", id),
		zap.String("date", finalized.Date),
		zap.String("shift", finalized.ShiftKey),
		zap.String("staff", finalized.StaffID))

	return result, nil
}
