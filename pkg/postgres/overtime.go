package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jakechorley/staff-roster/pkg/core/model"
	"github.com/jakechorley/staff-roster/pkg/core/overtime"
)

const requestColumns = `id::text, month, date, staff_id, shift_key, status, last_error, created_at, updated_at`

func scanRequest(row pgx.Row) (model.OvertimeRequest, error) {
	var r model.OvertimeRequest
	var date time.Time
	var status string
	if err := row.Scan(&r.ID, &r.Month, &date, &r.StaffID, &r.ShiftKey, &status, &r.LastError, &r.CreatedAt, &r.UpdatedAt); err != nil {
		return model.OvertimeRequest{}, err
	}
	r.Date = date.Format(model.DateLayout)
	r.Status = model.OvertimeStatus(status)
	r.CreatedAt = r.CreatedAt.UTC()
	r.UpdatedAt = r.UpdatedAt.UTC()
	return r, nil
}

// ListRequests retrieves the requests of a month, or every request when month is empty
func (d *DB) ListRequests(ctx context.Context, month string) ([]model.OvertimeRequest, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT `+requestColumns+`
		FROM overtime_request
		WHERE $1 = '' OR month = $1
		ORDER BY date, shift_key, staff_id, created_at
	`, month)
	if err != nil {
		return nil, fmt.Errorf("failed to query overtime requests: %w", err)
	}
	defer rows.Close()

	var requests []model.OvertimeRequest
	for rows.Next() {
		r, err := scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan overtime request: %w", err)
		}
		requests = append(requests, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating overtime requests: %w", err)
	}

	return requests, nil
}

// GetRequest retrieves one request by id
func (d *DB) GetRequest(ctx context.Context, id string) (model.OvertimeRequest, error) {
	r, err := scanRequest(d.pool.QueryRow(ctx, `
		SELECT `+requestColumns+`
		FROM overtime_request
		WHERE id::text = $1
	`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.OvertimeRequest{}, fmt.Errorf("%w: %s", overtime.ErrNotFound, id)
	}
	if err != nil {
		return model.OvertimeRequest{}, fmt.Errorf("failed to query overtime request: %w", err)
	}
	return r, nil
}

// SaveRequest inserts or replaces a request by id
func (d *DB) SaveRequest(ctx context.Context, request model.OvertimeRequest) error {
	_, err := d.pool.Exec(ctx, `
		INSERT INTO overtime_request (id, month, date, staff_id, shift_key, status, last_error, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			status = EXCLUDED.status,
			last_error = EXCLUDED.last_error,
			updated_at = EXCLUDED.updated_at
	`, request.ID, request.Month, request.Date, request.StaffID, request.ShiftKey,
		string(request.Status), request.LastError, request.CreatedAt, request.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to save overtime request: %w", err)
	}
	return nil
}
