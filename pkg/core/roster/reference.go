package roster

import (
	"fmt"
	"sort"
	"time"

	"github.com/jakechorley/staff-roster/pkg/core/calendar"
	"github.com/jakechorley/staff-roster/pkg/core/model"
)

// DayTypeResolver classifies a date and names holidays
type DayTypeResolver interface {
	Resolve(date time.Time) (model.DayType, string)
}

// TermCalculator classifies a date as lecture or break time
type TermCalculator interface {
	PeriodFor(date time.Time) calendar.TermPeriod
}

// ReferenceInput contains the raw reference data for a generation or validation pass
type ReferenceInput struct {
	Policy       model.Policy
	Catalog      *calendar.Catalog
	Days         DayTypeResolver
	Terms        TermCalculator
	Staff        []model.StaffMember
	Availability []model.AvailabilityRecord
	Absences     []model.AbsencePeriod
	Consents     []model.ConsentRecord
}

// Reference is the read-only state shared by the scorer, the generator and the rules.
// It is built once per pass and never mutated afterwards.
type Reference struct {
	Policy  model.Policy
	Catalog *calendar.Catalog
	Days    DayTypeResolver
	Terms   TermCalculator

	staff     []model.StaffMember
	staffByID map[string]model.StaffMember

	// Keyed by staff|date|shift; shift is empty for day-level records
	availability map[string]model.AvailabilityRecord
	// Dates per staff with a positive (yes/prefer) availability
	positiveDates map[string][]string

	absences map[string][]model.AbsencePeriod
	consents map[string]map[string]bool
}

// weekendOnlyResolver is used when no resolver is supplied
type weekendOnlyResolver struct{}

func (weekendOnlyResolver) Resolve(date time.Time) (model.DayType, string) {
	if calendar.IsWeekend(date) {
		return model.DayTypeWeekend, ""
	}
	return model.DayTypeWeekday, ""
}

func availabilityKey(staffID, date, shiftKey string) string {
	return staffID + "|" + date + "|" + shiftKey
}

// NewReference indexes the reference data.
// Staff are ordered by id so every pass iterates them deterministically.
func NewReference(in ReferenceInput) (*Reference, error) {
	if in.Catalog == nil {
		return nil, fmt.Errorf("shift catalog is required")
	}

	ref := &Reference{
		Policy:        in.Policy,
		Catalog:       in.Catalog,
		Days:          in.Days,
		Terms:         in.Terms,
		staffByID:     make(map[string]model.StaffMember, len(in.Staff)),
		availability:  make(map[string]model.AvailabilityRecord, len(in.Availability)),
		positiveDates: make(map[string][]string),
		absences:      make(map[string][]model.AbsencePeriod),
		consents:      make(map[string]map[string]bool),
	}
	if ref.Days == nil {
		ref.Days = weekendOnlyResolver{}
	}
	if ref.Terms == nil {
		ref.Terms = (*calendar.TermCalendar)(nil)
	}

	for _, member := range in.Staff {
		if !member.Role.IsValid() {
			return nil, fmt.Errorf("staff %q has invalid role %q", member.ID, member.Role)
		}
		if _, exists := ref.staffByID[member.ID]; exists {
			return nil, fmt.Errorf("duplicate staff id %q", member.ID)
		}
		ref.staffByID[member.ID] = member
		ref.staff = append(ref.staff, member)
	}
	sort.Slice(ref.staff, func(i, j int) bool {
		return ref.staff[i].ID < ref.staff[j].ID
	})

	for _, record := range in.Availability {
		ref.availability[availabilityKey(record.StaffID, record.Date, record.ShiftKey)] = record
		if record.Status == model.AvailabilityYes || record.Status == model.AvailabilityPrefer {
			ref.positiveDates[record.StaffID] = append(ref.positiveDates[record.StaffID], record.Date)
		}
	}

	for _, absence := range in.Absences {
		ref.absences[absence.StaffID] = append(ref.absences[absence.StaffID], absence)
	}

	for _, consent := range in.Consents {
		if ref.consents[consent.StaffID] == nil {
			ref.consents[consent.StaffID] = make(map[string]bool)
		}
		ref.consents[consent.StaffID][consent.Date] = consent.Approved
	}

	return ref, nil
}

// Staff returns every staff member ordered by id
func (r *Reference) Staff() []model.StaffMember {
	return r.staff
}

// StaffByID looks up a staff member
func (r *Reference) StaffByID(id string) (model.StaffMember, bool) {
	member, ok := r.staffByID[id]
	return member, ok
}

// Availability returns the status for a slot; a shift-specific record overrides the day-level one.
// A legacy "no" from non-permanent staff is reported as unset.
func (r *Reference) Availability(staffID, date, shiftKey string) model.AvailabilityStatus {
	status := model.AvailabilityUnset
	if record, ok := r.availability[availabilityKey(staffID, date, "")]; ok {
		status = record.Status
	}
	if record, ok := r.availability[availabilityKey(staffID, date, shiftKey)]; ok {
		status = record.Status
	}
	if status == model.AvailabilityNo {
		if member, ok := r.staffByID[staffID]; !ok || member.Role != model.RolePermanent {
			return model.AvailabilityUnset
		}
	}
	return status
}

// IsDayOff reports whether the staff member set the day-off sentinel on the date
func (r *Reference) IsDayOff(staffID, date string) bool {
	record, ok := r.availability[availabilityKey(staffID, date, "")]
	return ok && record.DayOff
}

// HasVoluntaryOptIn reports whether a permanent staff member volunteered for the evening or
// closing shift on the date
func (r *Reference) HasVoluntaryOptIn(staffID, date string, shift model.ShiftType) bool {
	member, ok := r.staffByID[staffID]
	if !ok || member.Role != model.RolePermanent {
		return false
	}
	evening := calendar.IsEvening(shift, r.Policy.EveningCutoff)
	for _, key := range []string{availabilityKey(staffID, date, ""), availabilityKey(staffID, date, shift.Key)} {
		record, ok := r.availability[key]
		if !ok {
			continue
		}
		if record.VoluntaryClosing && shift.Closing {
			return true
		}
		if record.VoluntaryEvening && evening {
			return true
		}
	}
	return false
}

// Absence returns the absence period covering the date, if any
func (r *Reference) Absence(staffID, date string) (model.AbsencePeriod, bool) {
	for _, absence := range r.absences[staffID] {
		if absence.Covers(date) {
			return absence, true
		}
	}
	return model.AbsencePeriod{}, false
}

// HasConsent reports whether an approved consent record exists for the staff member and date
func (r *Reference) HasConsent(staffID, date string) bool {
	return r.consents[staffID][date]
}

// HasWeekendOnlyAvailability reports whether every positive availability the staff member
// gave falls on a weekend or holiday
func (r *Reference) HasWeekendOnlyAvailability(staffID string) bool {
	dates := r.positiveDates[staffID]
	if len(dates) == 0 {
		return false
	}
	for _, key := range dates {
		d, err := calendar.ParseDate(key)
		if err != nil {
			return false
		}
		dayType, _ := r.Days.Resolve(d)
		if !dayType.IsWeekendLike() {
			return false
		}
	}
	return true
}

// WageFor returns the hourly wage used for earnings projections
func (r *Reference) WageFor(member model.StaffMember) float64 {
	if member.HourlyWage > 0 {
		return member.HourlyWage
	}
	return r.Policy.MinijobHourlyWage
}

// RequiresConsent reports whether placing the staff member on the date needs a consent record:
// non-preferring permanent staff on weekends, preferring permanent staff on their alternative days
func (r *Reference) RequiresConsent(member model.StaffMember, date time.Time) bool {
	if member.Role != model.RolePermanent {
		return false
	}
	if member.WeekendPreference {
		return member.IsAlternativeWeekendDay(date.Weekday())
	}
	return calendar.IsWeekend(date)
}
