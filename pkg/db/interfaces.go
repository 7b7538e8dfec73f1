package db

import (
	"context"
	"errors"

	"github.com/jakechorley/staff-roster/pkg/core/model"
)

// ErrScheduleNotFound is returned when no schedule is stored for a month
var ErrScheduleNotFound = errors.New("schedule not found")

// ReferenceStore defines the interface for the long-lived reference data
type ReferenceStore interface {
	GetStaff(ctx context.Context) ([]model.StaffMember, error)
	GetAvailability(ctx context.Context, month string) ([]model.AvailabilityRecord, error)
	GetAbsences(ctx context.Context) ([]model.AbsencePeriod, error)
	GetConsents(ctx context.Context) ([]model.ConsentRecord, error)
}

// ScheduleStore defines the interface for month schedule operations
type ScheduleStore interface {
	GetSchedule(ctx context.Context, month string) (*model.MonthSchedule, error)
	SaveSchedule(ctx context.Context, schedule *model.MonthSchedule) error
}

// OvertimeStore defines the interface for overtime requests and the consents they produce
type OvertimeStore interface {
	ListRequests(ctx context.Context, month string) ([]model.OvertimeRequest, error)
	GetRequest(ctx context.Context, id string) (model.OvertimeRequest, error)
	SaveRequest(ctx context.Context, request model.OvertimeRequest) error
	SaveConsent(ctx context.Context, consent model.ConsentRecord) error
}

// RosterStore is what month generation, validation and edits need
type RosterStore interface {
	ReferenceStore
	ScheduleStore
}

// Database defines the interface for all storage operations.
// The YAML dataset store implements it.
type Database interface {
	RosterStore
	OvertimeStore
}

// ReferenceData is a full snapshot of the reference tables
type ReferenceData struct {
	Staff        []model.StaffMember
	Availability []model.AvailabilityRecord
	Absences     []model.AbsencePeriod
	Consents     []model.ConsentRecord
}

// ReferenceImporter replaces the stored reference data with a snapshot
type ReferenceImporter interface {
	ImportReference(ctx context.Context, data ReferenceData) error
}
