package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/jakechorley/staff-roster/internal/config"
	"github.com/jakechorley/staff-roster/pkg/core/model"
	"github.com/jakechorley/staff-roster/pkg/core/roster"
	"github.com/jakechorley/staff-roster/pkg/core/rules"
	"github.com/jakechorley/staff-roster/pkg/db"
)

// GenerateResult represents the result of generating a month
type GenerateResult struct {
	Schedule *model.MonthSchedule
	Unfilled []roster.Slot
	Issues   []rules.Issue
}

// GenerateMonth generates, validates and saves the schedule for a month.
// An existing schedule is only replaced when overwrite is set.
func GenerateMonth(ctx context.Context, database db.RosterStore, cfg *config.Config, logger *zap.Logger, month string, overwrite bool) (*GenerateResult, error) {
	logger.Debug("Generating month", zap.String("month", month), zap.Bool("overwrite", overwrite))

	if !overwrite {
		existing, err := database.GetSchedule(ctx, month)
		if err != nil && !errors.Is(err, db.ErrScheduleNotFound) {
			return nil, fmt.Errorf("failed to fetch schedule: %w", err)
		}
		if existing != nil {
			return nil, fmt.Errorf("schedule for %s already exists, use overwrite to replace it", month)
		}
	}

	ref, err := loadReference(ctx, database, cfg, logger, month)
	if err != nil {
		return nil, err
	}

	outcome, err := roster.Generate(ref, month, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to generate schedule: %w", err)
	}

	logger.Debug("Validating generated schedule", zap.Int("unfilled", len(outcome.Unfilled)))
	issues, err := rules.Validate(ref, month, outcome.Schedule.Assignments())
	if err != nil {
		return nil, fmt.Errorf("failed to validate schedule: %w", err)
	}
	rules.Consolidate(outcome.Schedule, issues)

	if err := database.SaveSchedule(ctx, outcome.Schedule); err != nil {
		return nil, fmt.Errorf("failed to save schedule: %w", err)
	}

	if len(outcome.Unfilled) > 0 {
		logger.Warn("Schedule has unfilled slots",
			zap.String("month", month),
			zap.Int("unfilled", len(outcome.Unfilled)))
	}
	logger.Info("Schedule generated",
		zap.String("month", month),
		zap.Int("issues", len(issues)),
		zap.Strings("failed_rules", ruleNames(rules.FailedRules(issues))))

	return &GenerateResult{
		Schedule: outcome.Schedule,
		Unfilled: outcome.Unfilled,
		Issues:   issues,
	}, nil
}

func ruleNames(ids []rules.RuleID) []string {
	names := make([]string, len(ids))
	for i, id := range ids {
		names[i] = string(id)
	}
	return names
}
