package model

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// DateLayout is the layout used for every date key in the roster
const DateLayout = "2006-01-02"

// MonthLayout is the layout of month keys (e.g. "2025-06")
const MonthLayout = "2006-01"

type Role string

const (
	RoleMinijob   Role = "minijob"
	RoleStudent   Role = "student"
	RolePermanent Role = "permanent"
)

func (r Role) IsValid() bool {
	return r == RoleMinijob || r == RoleStudent || r == RolePermanent
}

// DayType classifies a calendar day and decides which shift keys apply to it
type DayType string

const (
	DayTypeWeekday DayType = "weekday"
	DayTypeWeekend DayType = "weekend"
	DayTypeHoliday DayType = "holiday"
	DayTypeClosed  DayType = "closed"
)

// IsWeekendLike reports whether the day counts as weekend duty (weekend or holiday)
func (d DayType) IsWeekendLike() bool {
	return d == DayTypeWeekend || d == DayTypeHoliday
}

// StaffMember represents a person on the roster
type StaffMember struct {
	ID              string  `yaml:"id" validate:"required"`
	Name            string  `yaml:"name" validate:"required"`
	Role            Role    `yaml:"role" validate:"required,oneof=minijob student permanent"`
	ContractHours   float64 `yaml:"contractHours" validate:"gte=0"`
	TypicalWorkdays int     `yaml:"typicalWorkdays" validate:"gte=0,lte=7"`

	WeekendPreference bool `yaml:"weekendPreference,omitempty"`

	// AlternativeWeekendDays are weekday indices (0=Sunday) that replace Saturday/Sunday
	// as days off for staff who work weekends
	AlternativeWeekendDays []int `yaml:"alternativeWeekendDays,omitempty" validate:"omitempty,max=2,dive,gte=0,lte=6"`

	// Advisory monthly bounds, only used to bias scoring
	PracticalMinHours float64 `yaml:"practicalMinHours,omitempty" validate:"gte=0"`
	PracticalMaxHours float64 `yaml:"practicalMaxHours,omitempty" validate:"gte=0"`

	PermanentPreferredShift string `yaml:"permanentPreferredShift,omitempty"`

	// HourlyWage overrides the policy minijob wage when set
	HourlyWage float64 `yaml:"hourlyWage,omitempty" validate:"gte=0"`

	// DaytimeCapException softens the student weekday daytime cap
	DaytimeCapException bool `yaml:"daytimeCapException,omitempty"`
}

// IsAlternativeWeekendDay reports whether the weekday is one of the staff member's alternative weekend days
func (s StaffMember) IsAlternativeWeekendDay(day time.Weekday) bool {
	return slices.Contains(s.AlternativeWeekendDays, int(day))
}

// ShiftType is a named, time-boxed unit of work for one day type
type ShiftType struct {
	Key     string  `yaml:"key" validate:"required"`
	Name    string  `yaml:"name" validate:"required"`
	Start   string  `yaml:"start" validate:"required"`
	End     string  `yaml:"end" validate:"required"`
	Hours   float64 `yaml:"hours" validate:"gt=0"`
	DayType DayType `yaml:"dayType" validate:"required,oneof=weekday weekend holiday"`
	Closing bool    `yaml:"closing,omitempty"`
}

// DayAssignments maps shift key to staff id for one day
type DayAssignments map[string]string

// Assignments maps date key to the assignments of that day
type Assignments map[string]DayAssignments

// Clone returns a deep copy of the assignments
func (a Assignments) Clone() Assignments {
	out := make(Assignments, len(a))
	for date, day := range a {
		copied := make(DayAssignments, len(day))
		for shiftKey, staffID := range day {
			copied[shiftKey] = staffID
		}
		out[date] = copied
	}
	return out
}

// Set assigns staffID to the slot, clearing it when staffID is empty
func (a Assignments) Set(date, shiftKey, staffID string) {
	if staffID == "" {
		if day, ok := a[date]; ok {
			delete(day, shiftKey)
		}
		return
	}
	if a[date] == nil {
		a[date] = DayAssignments{}
	}
	a[date][shiftKey] = staffID
}

// CalendarDay is one day of a month schedule
type CalendarDay struct {
	Date        string         `yaml:"date"`
	DayType     DayType        `yaml:"dayType"`
	HolidayName string         `yaml:"holidayName,omitempty"`
	Assignments DayAssignments `yaml:"assignments"`

	// Blockers and Warnings are consolidated validator messages per shift key
	Blockers map[string]string `yaml:"blockers,omitempty"`
	Warnings map[string]string `yaml:"warnings,omitempty"`
}

// MonthSchedule is the ordered collection of days for one month
type MonthSchedule struct {
	Month string        `yaml:"month"`
	Days  []CalendarDay `yaml:"days"`
}

// Assignments projects the schedule into a date -> shift -> staff map
func (m *MonthSchedule) Assignments() Assignments {
	out := make(Assignments, len(m.Days))
	for _, day := range m.Days {
		copied := make(DayAssignments, len(day.Assignments))
		for shiftKey, staffID := range day.Assignments {
			copied[shiftKey] = staffID
		}
		out[day.Date] = copied
	}
	return out
}

// Day returns the calendar day for the given date, or nil
func (m *MonthSchedule) Day(date string) *CalendarDay {
	for i := range m.Days {
		if m.Days[i].Date == date {
			return &m.Days[i]
		}
	}
	return nil
}

// UnfilledSlots counts slots without an assignment given the shift keys offered per date
func (m *MonthSchedule) UnfilledSlots(offered map[string][]string) int {
	count := 0
	for _, day := range m.Days {
		for _, shiftKey := range offered[day.Date] {
			if day.Assignments[shiftKey] == "" {
				count++
			}
		}
	}
	return count
}

// AvailabilityStatus is a staff member's stated availability for a slot
type AvailabilityStatus int

const (
	AvailabilityUnset AvailabilityStatus = iota
	AvailabilityYes
	AvailabilityPrefer
	// AvailabilityNo only excludes permanent staff
	AvailabilityNo
)

func (s AvailabilityStatus) String() string {
	switch s {
	case AvailabilityYes:
		return "yes"
	case AvailabilityPrefer:
		return "prefer"
	case AvailabilityNo:
		return "no"
	default:
		return "unset"
	}
}

// ParseAvailabilityStatus converts a stored status key to the enum
func ParseAvailabilityStatus(s string) (AvailabilityStatus, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "unset":
		return AvailabilityUnset, nil
	case "yes":
		return AvailabilityYes, nil
	case "prefer", "preferred":
		return AvailabilityPrefer, nil
	case "no":
		return AvailabilityNo, nil
	}
	return AvailabilityUnset, fmt.Errorf("unknown availability status %q", s)
}

func (s AvailabilityStatus) MarshalYAML() (interface{}, error) {
	return s.String(), nil
}

func (s *AvailabilityStatus) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var raw string
	if err := unmarshal(&raw); err != nil {
		return err
	}
	parsed, err := ParseAvailabilityStatus(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// AvailabilityRecord is a staff member's availability entry for a date.
// An empty ShiftKey applies to every shift of the day.
type AvailabilityRecord struct {
	StaffID  string             `yaml:"staffId" validate:"required"`
	Date     string             `yaml:"date" validate:"required"`
	ShiftKey string             `yaml:"shiftKey,omitempty"`
	Status   AvailabilityStatus `yaml:"status"`

	DayOff bool `yaml:"dayOff,omitempty"`

	// Voluntary opt-ins, permanent staff only
	VoluntaryEvening bool `yaml:"voluntaryEvening,omitempty"`
	VoluntaryClosing bool `yaml:"voluntaryClosing,omitempty"`
}

type AbsenceKind string

const (
	AbsenceVacation AbsenceKind = "vacation"
	AbsenceIllness  AbsenceKind = "illness"
)

// AbsencePeriod is an approved absence; Start and End are inclusive date keys
type AbsencePeriod struct {
	StaffID string      `yaml:"staffId" validate:"required"`
	Start   string      `yaml:"start" validate:"required"`
	End     string      `yaml:"end" validate:"required"`
	Kind    AbsenceKind `yaml:"kind" validate:"required,oneof=vacation illness"`
}

// Covers reports whether the date key falls inside the period
func (a AbsencePeriod) Covers(date string) bool {
	// Date keys sort lexically
	return date >= a.Start && date <= a.End
}

// ConsentRecord approves a staff member for duty on a non-default date
type ConsentRecord struct {
	StaffID  string `yaml:"staffId" validate:"required"`
	Year     int    `yaml:"year"`
	Date     string `yaml:"date" validate:"required"`
	Approved bool   `yaml:"approved"`
}

type OvertimeStatus string

const (
	OvertimeRequested OvertimeStatus = "requested"
	OvertimeConsented OvertimeStatus = "consented"
	OvertimeCompleted OvertimeStatus = "completed"
	OvertimeDeclined  OvertimeStatus = "declined"
)

// IsOpen reports whether the request still awaits a decision or finalization
func (s OvertimeStatus) IsOpen() bool {
	return s == OvertimeRequested || s == OvertimeConsented
}

// OvertimeRequest asks a permanent staff member to cover an out-of-policy slot
type OvertimeRequest struct {
	ID        string         `yaml:"id"`
	Month     string         `yaml:"month"`
	Date      string         `yaml:"date"`
	StaffID   string         `yaml:"staffId"`
	ShiftKey  string         `yaml:"shiftKey"`
	Status    OvertimeStatus `yaml:"status"`
	LastError string         `yaml:"lastError,omitempty"`
	CreatedAt time.Time      `yaml:"createdAt"`
	UpdatedAt time.Time      `yaml:"updatedAt"`
}
