package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/teambition/rrule-go"
	"gopkg.in/yaml.v3"

	"github.com/jakechorley/staff-roster/pkg/core/calendar"
	"github.com/jakechorley/staff-roster/pkg/core/model"
)

// configFileName is looked up in the current directory, then the home directory
const configFileName = "roster_config.yaml"

// Holiday is a named public holiday, either a recurrence rule or a fixed date
type Holiday struct {
	Name  string `yaml:"name" validate:"required"`
	RRule string `yaml:"rrule,omitempty" validate:"required_without=Date"`
	Date  string `yaml:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

// Semester is an academic term; dates outside its lecture window are break time
type Semester struct {
	Name         string `yaml:"name" validate:"required"`
	Start        string `yaml:"start" validate:"required,datetime=2006-01-02"`
	End          string `yaml:"end" validate:"required,datetime=2006-01-02"`
	LectureStart string `yaml:"lectureStart" validate:"required,datetime=2006-01-02"`
	LectureEnd   string `yaml:"lectureEnd" validate:"required,datetime=2006-01-02"`
}

// Config represents the application configuration
type Config struct {
	// DatasetPath is the YAML file holding staff, availability, schedules and requests
	DatasetPath string `yaml:"datasetPath,omitempty"`

	Policy model.Policy `yaml:"policy"`

	// Shifts replaces the default shift catalog when set
	Shifts []model.ShiftType `yaml:"shifts,omitempty" validate:"dive"`

	Holidays    []Holiday  `yaml:"holidays,omitempty" validate:"dive"`
	ClosedRules []string   `yaml:"closedRules,omitempty" validate:"dive,required"`
	ClosedDates []string   `yaml:"closedDates,omitempty" validate:"dive,datetime=2006-01-02"`
	Semesters   []Semester `yaml:"semesters,omitempty" validate:"dive"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Default returns a configuration with the default policy and shift catalog
func Default() *Config {
	return &Config{
		Policy: model.DefaultPolicy(),
		Shifts: calendar.DefaultShifts(),
	}
}

// Load loads and validates the configuration from roster_config.yaml
// It looks for the config file in the current directory first, then in the user's home directory
func Load() (*Config, error) {
	configPath, err := findConfigFile()
	if err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}

	return LoadFromPath(configPath)
}

// LoadFromPath loads and validates the configuration from a specific path.
// Policy values not named in the file keep their defaults.
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &Config{Policy: model.DefaultPolicy()}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if len(cfg.Shifts) == 0 {
		cfg.Shifts = calendar.DefaultShifts()
	}

	// A relative dataset path is resolved against the config file
	if cfg.DatasetPath != "" && !filepath.IsAbs(cfg.DatasetPath) {
		cfg.DatasetPath = filepath.Join(filepath.Dir(path), cfg.DatasetPath)
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate validates the configuration struct, the shift times and the rrule syntax
func Validate(cfg *Config) error {
	// Run struct validation
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	if _, err := calendar.ParseClock(cfg.Policy.EveningCutoff); err != nil {
		return fmt.Errorf("invalid policy.eveningCutoff: %w", err)
	}

	if _, err := calendar.NewCatalog(cfg.Shifts); err != nil {
		return fmt.Errorf("invalid shifts: %w", err)
	}

	// Validate rrule syntax for each holiday and closed-day rule
	for i, holiday := range cfg.Holidays {
		if holiday.RRule == "" {
			continue
		}
		if _, err := rrule.StrToRRule(holiday.RRule); err != nil {
			return fmt.Errorf("invalid rrule in holidays[%d]: %w", i, err)
		}
	}
	for i, rule := range cfg.ClosedRules {
		if _, err := rrule.StrToRRule(rule); err != nil {
			return fmt.Errorf("invalid rrule in closedRules[%d]: %w", i, err)
		}
	}

	for i, semester := range cfg.Semesters {
		if semester.LectureStart < semester.Start || semester.LectureEnd > semester.End || semester.Start > semester.End {
			return fmt.Errorf("invalid semesters[%d] %q: lecture period must lie inside the semester", i, semester.Name)
		}
	}

	return nil
}

// Catalog builds the shift catalog
func (c *Config) Catalog() (*calendar.Catalog, error) {
	shifts := c.Shifts
	if len(shifts) == 0 {
		shifts = calendar.DefaultShifts()
	}
	return calendar.NewCatalog(shifts)
}

// DayResolver builds the day-type resolver from holidays and closed days
func (c *Config) DayResolver() (*calendar.DayResolver, error) {
	holidays := make([]calendar.HolidayRule, 0, len(c.Holidays))
	for _, h := range c.Holidays {
		holidays = append(holidays, calendar.HolidayRule{Name: h.Name, RRule: h.RRule, Date: h.Date})
	}
	return calendar.NewDayResolver(holidays, c.ClosedRules, c.ClosedDates)
}

// TermCalendar builds the academic term calendar
func (c *Config) TermCalendar() (*calendar.TermCalendar, error) {
	semesters := make([]calendar.Semester, 0, len(c.Semesters))
	for _, s := range c.Semesters {
		semesters = append(semesters, calendar.Semester{
			Name:         s.Name,
			Start:        s.Start,
			End:          s.End,
			LectureStart: s.LectureStart,
			LectureEnd:   s.LectureEnd,
		})
	}
	return calendar.NewTermCalendar(semesters)
}

// findConfigFile searches for roster_config.yaml in current directory and home directory
func findConfigFile() (string, error) {
	// Check current directory
	if _, err := os.Stat(configFileName); err == nil {
		return configFileName, nil
	}

	// Check home directory
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	homeConfigPath := filepath.Join(homeDir, configFileName)
	if _, err := os.Stat(homeConfigPath); err == nil {
		return homeConfigPath, nil
	}

	return "", fmt.Errorf("config file not found in current directory or home directory")
}
