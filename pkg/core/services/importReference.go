package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jakechorley/staff-roster/pkg/core/calendar"
	"github.com/jakechorley/staff-roster/pkg/db"
)

// ImportReference checks a reference snapshot for consistency and replaces the stored
// reference data with it
func ImportReference(ctx context.Context, target db.ReferenceImporter, logger *zap.Logger, data db.ReferenceData) error {
	logger.Debug("Importing reference data",
		zap.Int("staff", len(data.Staff)),
		zap.Int("availability", len(data.Availability)),
		zap.Int("absences", len(data.Absences)),
		zap.Int("consents", len(data.Consents)))

	if err := checkReference(data); err != nil {
		return fmt.Errorf("invalid reference data: %w", err)
	}

	if err := target.ImportReference(ctx, data); err != nil {
		return fmt.Errorf("failed to import reference data: %w", err)
	}

	logger.Info("Reference data imported", zap.Int("staff", len(data.Staff)))
	return nil
}

// checkReference rejects duplicate staff ids, records of unknown staff and malformed dates
func checkReference(data db.ReferenceData) error {
	known := make(map[string]bool, len(data.Staff))
	for _, s := range data.Staff {
		if known[s.ID] {
			return fmt.Errorf("duplicate staff id %q", s.ID)
		}
		known[s.ID] = true
	}

	checkRecord := func(kind, staffID string, dates ...string) error {
		if !known[staffID] {
			return fmt.Errorf("%s for unknown staff id %q", kind, staffID)
		}
		for _, date := range dates {
			if _, err := calendar.ParseDate(date); err != nil {
				return fmt.Errorf("%s for %s: %w", kind, staffID, err)
			}
		}
		return nil
	}

	for _, r := range data.Availability {
		if err := checkRecord("availability", r.StaffID, r.Date); err != nil {
			return err
		}
	}
	for _, a := range data.Absences {
		if err := checkRecord("absence", a.StaffID, a.Start, a.End); err != nil {
			return err
		}
		if a.End < a.Start {
			return fmt.Errorf("absence for %s ends before it starts (%s to %s)", a.StaffID, a.Start, a.End)
		}
	}
	for _, c := range data.Consents {
		if err := checkRecord("consent", c.StaffID, c.Date); err != nil {
			return err
		}
	}
	return nil
}
