package calendar

import (
	"fmt"

	"github.com/jakechorley/staff-roster/pkg/core/model"
)

// Catalog is the static set of shift types, indexed by key
type Catalog struct {
	shifts []model.ShiftType
	byKey  map[string]model.ShiftType
}

// NewCatalog builds a catalog, rejecting duplicate keys and malformed times
func NewCatalog(shifts []model.ShiftType) (*Catalog, error) {
	c := &Catalog{
		shifts: make([]model.ShiftType, 0, len(shifts)),
		byKey:  make(map[string]model.ShiftType, len(shifts)),
	}
	for _, shift := range shifts {
		if _, exists := c.byKey[shift.Key]; exists {
			return nil, fmt.Errorf("duplicate shift key %q", shift.Key)
		}
		if _, err := ParseClock(shift.Start); err != nil {
			return nil, fmt.Errorf("shift %q: %w", shift.Key, err)
		}
		if _, err := ParseClock(shift.End); err != nil {
			return nil, fmt.Errorf("shift %q: %w", shift.Key, err)
		}
		c.shifts = append(c.shifts, shift)
		c.byKey[shift.Key] = shift
	}
	return c, nil
}

// DefaultShifts is the standard catalog: three weekday shifts, two weekend shifts, one holiday shift
func DefaultShifts() []model.ShiftType {
	return []model.ShiftType{
		{Key: "early", Name: "Early", Start: "06:00", End: "11:15", Hours: 5.25, DayType: model.DayTypeWeekday},
		{Key: "midday", Name: "Midday", Start: "11:15", End: "16:30", Hours: 5.25, DayType: model.DayTypeWeekday},
		{Key: "closing", Name: "Closing", Start: "16:45", End: "22:00", Hours: 5.25, DayType: model.DayTypeWeekday, Closing: true},
		{Key: "weekend_early", Name: "Weekend early", Start: "08:00", End: "14:00", Hours: 6, DayType: model.DayTypeWeekend},
		{Key: "weekend_late", Name: "Weekend late", Start: "14:00", End: "20:00", Hours: 6, DayType: model.DayTypeWeekend, Closing: true},
		{Key: "holiday", Name: "Holiday", Start: "10:00", End: "16:00", Hours: 6, DayType: model.DayTypeHoliday},
	}
}

// All returns every shift type in catalog order
func (c *Catalog) All() []model.ShiftType {
	return c.shifts
}

// Get returns the shift type for the key
func (c *Catalog) Get(key string) (model.ShiftType, bool) {
	shift, ok := c.byKey[key]
	return shift, ok
}

// ShiftsFor returns the shift types offered on a day type, in catalog order.
// Closed days offer none.
func (c *Catalog) ShiftsFor(dayType model.DayType) []model.ShiftType {
	if dayType == model.DayTypeClosed {
		return nil
	}
	var out []model.ShiftType
	for _, shift := range c.shifts {
		if shift.DayType == dayType {
			out = append(out, shift)
		}
	}
	return out
}

// Ordered returns the shift types offered on a day type in fill order:
// keys listed in priority first, then the remaining keys in catalog order
func (c *Catalog) Ordered(dayType model.DayType, priority []string) []model.ShiftType {
	offered := c.ShiftsFor(dayType)
	out := make([]model.ShiftType, 0, len(offered))
	taken := make(map[string]bool, len(offered))
	for _, key := range priority {
		for _, shift := range offered {
			if shift.Key == key && !taken[key] {
				out = append(out, shift)
				taken[key] = true
			}
		}
	}
	for _, shift := range offered {
		if !taken[shift.Key] {
			out = append(out, shift)
		}
	}
	return out
}

// IsEvening reports whether the shift is an evening shift under the given cutoff ("HH:MM").
// Closing shifts are always evening shifts.
func IsEvening(shift model.ShiftType, cutoff string) bool {
	if shift.Closing {
		return true
	}
	cutoffMin, err := ParseClock(cutoff)
	if err != nil {
		return false
	}
	startMin, err := ParseClock(shift.Start)
	if err != nil {
		return false
	}
	endMin, err := ParseClock(shift.End)
	if err != nil {
		return false
	}
	if endMin <= startMin {
		// Runs past midnight
		return true
	}
	return endMin > cutoffMin
}
