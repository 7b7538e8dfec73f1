package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jakechorley/staff-roster/pkg/core/model"
	"github.com/jakechorley/staff-roster/pkg/db"
)

// GetSchedule retrieves the schedule of a month
func (d *DB) GetSchedule(ctx context.Context, month string) (*model.MonthSchedule, error) {
	schedule := &model.MonthSchedule{Month: month}
	err := d.pool.QueryRow(ctx, `
		SELECT days FROM month_schedule WHERE month = $1
	`, month).Scan(&schedule.Days)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w for %s", db.ErrScheduleNotFound, month)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query schedule: %w", err)
	}
	return schedule, nil
}

// SaveSchedule inserts or replaces the schedule of its month.
// Days are stored as one JSONB document.
func (d *DB) SaveSchedule(ctx context.Context, schedule *model.MonthSchedule) error {
	days := schedule.Days
	if days == nil {
		days = []model.CalendarDay{}
	}
	_, err := d.pool.Exec(ctx, `
		INSERT INTO month_schedule (month, days, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (month) DO UPDATE SET days = EXCLUDED.days, updated_at = NOW()
	`, schedule.Month, days)
	if err != nil {
		return fmt.Errorf("failed to save schedule: %w", err)
	}
	return nil
}
