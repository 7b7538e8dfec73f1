package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jakechorley/staff-roster/internal/config"
	"github.com/jakechorley/staff-roster/pkg/core/model"
	"github.com/jakechorley/staff-roster/pkg/core/rules"
	"github.com/jakechorley/staff-roster/pkg/db"
)

// ValidateResult represents the result of re-validating a stored month
type ValidateResult struct {
	Schedule *model.MonthSchedule
	Issues   []rules.Issue
}

// ValidateMonth re-validates a stored month against the current reference data and
// saves the refreshed blockers and warnings
func ValidateMonth(ctx context.Context, database db.RosterStore, cfg *config.Config, logger *zap.Logger, month string) (*ValidateResult, error) {
	logger.Debug("Validating month", zap.String("month", month))

	schedule, err := database.GetSchedule(ctx, month)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch schedule: %w", err)
	}

	ref, err := loadReference(ctx, database, cfg, logger, month)
	if err != nil {
		return nil, err
	}

	issues, err := rules.Validate(ref, month, schedule.Assignments())
	if err != nil {
		return nil, fmt.Errorf("failed to validate schedule: %w", err)
	}
	rules.Consolidate(schedule, issues)

	if err := database.SaveSchedule(ctx, schedule); err != nil {
		return nil, fmt.Errorf("failed to save schedule: %w", err)
	}

	for _, id := range rules.FailedRules(issues) {
		logger.Warn("Rule failed",
			zap.String("month", month),
			zap.String("rule", string(id)),
			zap.Int("issues", len(rules.Filter(issues, id))))
	}
	logger.Info("Month validated", zap.String("month", month), zap.Int("issues", len(issues)))

	return &ValidateResult{Schedule: schedule, Issues: issues}, nil
}
