package calendar

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/teambition/rrule-go"

	"github.com/jakechorley/staff-roster/pkg/core/model"
)

// ruleEpoch anchors recurrence rules that carry no DTSTART of their own
var ruleEpoch = time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC)

// HolidayRule names a recurring holiday (e.g. "FREQ=YEARLY;BYMONTH=12;BYMONTHDAY=25")
// or a one-off holiday given as Date
type HolidayRule struct {
	Name  string
	RRule string
	Date  string
}

type namedRule struct {
	name string
	rule *rrule.RRule
}

// DayResolver classifies dates as weekday, weekend, holiday or closed.
// Precedence: closed > holiday > weekend > weekday.
type DayResolver struct {
	holidays      []namedRule
	fixedHolidays map[string]string
	closed        []*rrule.RRule
	closedDates   map[string]bool

	mu    sync.Mutex
	years map[int]*yearCache
}

type yearCache struct {
	holidays map[string]string
	closed   map[string]bool
}

// ParseRule parses an rrule string anchored at 1970-01-01 unless it sets its own DTSTART
func ParseRule(s string) (*rrule.RRule, error) {
	r, err := rrule.StrToRRule(s)
	if err != nil {
		return nil, err
	}
	if !strings.Contains(strings.ToUpper(s), "DTSTART") {
		r.DTStart(ruleEpoch)
	}
	return r, nil
}

// NewDayResolver builds a resolver from holiday rules and closed-day rules / dates
func NewDayResolver(holidays []HolidayRule, closedRules []string, closedDates []string) (*DayResolver, error) {
	d := &DayResolver{
		fixedHolidays: make(map[string]string),
		closedDates:   make(map[string]bool),
		years:         make(map[int]*yearCache),
	}

	for i, h := range holidays {
		if h.Date != "" {
			if _, err := ParseDate(h.Date); err != nil {
				return nil, fmt.Errorf("holiday[%d] %q: %w", i, h.Name, err)
			}
			d.fixedHolidays[h.Date] = h.Name
			continue
		}
		r, err := ParseRule(h.RRule)
		if err != nil {
			return nil, fmt.Errorf("invalid rrule for holiday[%d] %q: %w", i, h.Name, err)
		}
		d.holidays = append(d.holidays, namedRule{name: h.Name, rule: r})
	}

	for i, s := range closedRules {
		r, err := ParseRule(s)
		if err != nil {
			return nil, fmt.Errorf("invalid rrule for closedRules[%d]: %w", i, err)
		}
		d.closed = append(d.closed, r)
	}

	for _, date := range closedDates {
		if _, err := ParseDate(date); err != nil {
			return nil, fmt.Errorf("closed date: %w", err)
		}
		d.closedDates[date] = true
	}

	return d, nil
}

// Resolve returns the day type and, for holidays, the holiday name
func (d *DayResolver) Resolve(date time.Time) (model.DayType, string) {
	key := DateKey(date)
	year := d.year(date.Year())

	if d.closedDates[key] || year.closed[key] {
		return model.DayTypeClosed, ""
	}
	if name, ok := d.fixedHolidays[key]; ok {
		return model.DayTypeHoliday, name
	}
	if name, ok := year.holidays[key]; ok {
		return model.DayTypeHoliday, name
	}
	if IsWeekend(date) {
		return model.DayTypeWeekend, ""
	}
	return model.DayTypeWeekday, ""
}

// year expands every rule once per calendar year
func (d *DayResolver) year(y int) *yearCache {
	d.mu.Lock()
	defer d.mu.Unlock()

	if cached, ok := d.years[y]; ok {
		return cached
	}

	from := time.Date(y, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(y, 12, 31, 23, 59, 59, 0, time.UTC)

	cache := &yearCache{
		holidays: make(map[string]string),
		closed:   make(map[string]bool),
	}
	for _, h := range d.holidays {
		for _, occurrence := range h.rule.Between(from, to, true) {
			key := DateKey(occurrence)
			// First matching rule wins
			if _, exists := cache.holidays[key]; !exists {
				cache.holidays[key] = h.name
			}
		}
	}
	for _, r := range d.closed {
		for _, occurrence := range r.Between(from, to, true) {
			cache.closed[DateKey(occurrence)] = true
		}
	}

	d.years[y] = cache
	return cache
}
