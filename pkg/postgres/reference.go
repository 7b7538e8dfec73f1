package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jakechorley/staff-roster/pkg/core/model"
	"github.com/jakechorley/staff-roster/pkg/db"
)

// GetStaff retrieves all staff members ordered by id
func (d *DB) GetStaff(ctx context.Context) ([]model.StaffMember, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id, name, role, contract_hours, typical_workdays, weekend_preference,
		       alternative_weekend_days, practical_min_hours, practical_max_hours,
		       permanent_preferred_shift, hourly_wage, daytime_cap_exception
		FROM staff
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query staff: %w", err)
	}
	defer rows.Close()

	var staff []model.StaffMember
	for rows.Next() {
		var s model.StaffMember
		var role string
		if err := rows.Scan(&s.ID, &s.Name, &role, &s.ContractHours, &s.TypicalWorkdays, &s.WeekendPreference,
			&s.AlternativeWeekendDays, &s.PracticalMinHours, &s.PracticalMaxHours,
			&s.PermanentPreferredShift, &s.HourlyWage, &s.DaytimeCapException); err != nil {
			return nil, fmt.Errorf("failed to scan staff member: %w", err)
		}
		s.Role = model.Role(role)
		staff = append(staff, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating staff: %w", err)
	}

	return staff, nil
}

// GetAvailability retrieves the availability records of one month
func (d *DB) GetAvailability(ctx context.Context, month string) ([]model.AvailabilityRecord, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT staff_id, date, shift_key, status, day_off, voluntary_evening, voluntary_closing
		FROM availability
		WHERE to_char(date, 'YYYY-MM') = $1
		ORDER BY date, staff_id, shift_key
	`, month)
	if err != nil {
		return nil, fmt.Errorf("failed to query availability: %w", err)
	}
	defer rows.Close()

	var records []model.AvailabilityRecord
	for rows.Next() {
		var r model.AvailabilityRecord
		var date time.Time
		var status string
		if err := rows.Scan(&r.StaffID, &date, &r.ShiftKey, &status, &r.DayOff, &r.VoluntaryEvening, &r.VoluntaryClosing); err != nil {
			return nil, fmt.Errorf("failed to scan availability: %w", err)
		}
		r.Date = date.Format(model.DateLayout)
		r.Status, err = model.ParseAvailabilityStatus(status)
		if err != nil {
			return nil, fmt.Errorf("availability for %s on %s: %w", r.StaffID, r.Date, err)
		}
		records = append(records, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating availability: %w", err)
	}

	return records, nil
}

// GetAbsences retrieves all absence periods
func (d *DB) GetAbsences(ctx context.Context) ([]model.AbsencePeriod, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT staff_id, start_date, end_date, kind
		FROM absence
		ORDER BY start_date, staff_id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query absences: %w", err)
	}
	defer rows.Close()

	var absences []model.AbsencePeriod
	for rows.Next() {
		var a model.AbsencePeriod
		var start, end time.Time
		var kind string
		if err := rows.Scan(&a.StaffID, &start, &end, &kind); err != nil {
			return nil, fmt.Errorf("failed to scan absence: %w", err)
		}
		a.Start = start.Format(model.DateLayout)
		a.End = end.Format(model.DateLayout)
		a.Kind = model.AbsenceKind(kind)
		absences = append(absences, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating absences: %w", err)
	}

	return absences, nil
}

// GetConsents retrieves all consent records
func (d *DB) GetConsents(ctx context.Context) ([]model.ConsentRecord, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT staff_id, year, date, approved
		FROM consent
		ORDER BY date, staff_id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query consents: %w", err)
	}
	defer rows.Close()

	var consents []model.ConsentRecord
	for rows.Next() {
		var c model.ConsentRecord
		var date time.Time
		if err := rows.Scan(&c.StaffID, &c.Year, &date, &c.Approved); err != nil {
			return nil, fmt.Errorf("failed to scan consent: %w", err)
		}
		c.Date = date.Format(model.DateLayout)
		consents = append(consents, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating consents: %w", err)
	}

	return consents, nil
}

// SaveConsent inserts or replaces the consent for the staff member and date
func (d *DB) SaveConsent(ctx context.Context, consent model.ConsentRecord) error {
	_, err := d.pool.Exec(ctx, `
		INSERT INTO consent (staff_id, date, year, approved)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (staff_id, date) DO UPDATE SET year = EXCLUDED.year, approved = EXCLUDED.approved
	`, consent.StaffID, consent.Date, consent.Year, consent.Approved)
	if err != nil {
		return fmt.Errorf("failed to save consent: %w", err)
	}
	return nil
}

// ImportReference replaces every reference table in one transaction.
// Schedules and overtime requests are kept.
func (d *DB) ImportReference(ctx context.Context, data db.ReferenceData) error {
	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin import: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, table := range []string{"availability", "absence", "consent", "staff"} {
		if _, err := tx.Exec(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	batch := &pgx.Batch{}
	for _, s := range data.Staff {
		altDays := s.AlternativeWeekendDays
		if altDays == nil {
			altDays = []int{}
		}
		batch.Queue(`
			INSERT INTO staff (id, name, role, contract_hours, typical_workdays, weekend_preference,
			                   alternative_weekend_days, practical_min_hours, practical_max_hours,
			                   permanent_preferred_shift, hourly_wage, daytime_cap_exception)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		`, s.ID, s.Name, string(s.Role), s.ContractHours, s.TypicalWorkdays, s.WeekendPreference,
			altDays, s.PracticalMinHours, s.PracticalMaxHours,
			s.PermanentPreferredShift, s.HourlyWage, s.DaytimeCapException)
	}
	for _, r := range data.Availability {
		batch.Queue(`
			INSERT INTO availability (staff_id, date, shift_key, status, day_off, voluntary_evening, voluntary_closing)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, r.StaffID, r.Date, r.ShiftKey, r.Status.String(), r.DayOff, r.VoluntaryEvening, r.VoluntaryClosing)
	}
	for _, a := range data.Absences {
		batch.Queue(`
			INSERT INTO absence (staff_id, start_date, end_date, kind)
			VALUES ($1, $2, $3, $4)
		`, a.StaffID, a.Start, a.End, string(a.Kind))
	}
	for _, c := range data.Consents {
		batch.Queue(`
			INSERT INTO consent (staff_id, date, year, approved)
			VALUES ($1, $2, $3, $4)
		`, c.StaffID, c.Date, c.Year, c.Approved)
	}

	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to insert reference data: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit import: %w", err)
	}
	return nil
}
