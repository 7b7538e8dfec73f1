package model

// Policy holds every tolerance, bonus, penalty and cap used by the scorer and the rules.
// Start from DefaultPolicy and override individual fields.
type Policy struct {
	// MinRestHours is the minimum gap between shifts on different days
	MinRestHours float64 `yaml:"minRestHours" validate:"gte=0"`

	// EveningCutoff marks shifts ending after this time as evening shifts ("HH:MM")
	EveningCutoff string `yaml:"eveningCutoff" validate:"required"`

	// ShiftPriority is the order shifts of a day are filled in, critical shifts first.
	// Keys not listed follow in catalog order.
	ShiftPriority []string `yaml:"shiftPriority,omitempty"`

	// Workload tolerances as a fraction of the prorated target
	WeeklyHoursTolerance  float64 `yaml:"weeklyHoursTolerance" validate:"gte=0"`
	MonthlyHoursTolerance float64 `yaml:"monthlyHoursTolerance" validate:"gte=0"`

	// Weekend distribution for non-permanent staff, per month.
	// MinWeekendShifts doubles as the fairness floor of the scorer.
	MinWeekendShifts int `yaml:"minWeekendShifts" validate:"gte=0"`
	MaxWeekendShifts int `yaml:"maxWeekendShifts" validate:"gtefield=MinWeekendShifts"`

	// Student limits
	StudentWeekdayDaytimeCap  int     `yaml:"studentWeekdayDaytimeCap" validate:"gte=0"`
	StudentDaytimeRatio       float64 `yaml:"studentDaytimeRatio" validate:"gte=0"`
	StudentRatioMinShifts     int     `yaml:"studentRatioMinShifts" validate:"gte=0"`
	StudentLectureWeeklyHours float64 `yaml:"studentLectureWeeklyHours" validate:"gt=0"`
	StudentBreakWeeklyHours   float64 `yaml:"studentBreakWeeklyHours" validate:"gt=0"`

	// Minijob earnings
	MinijobHourlyWage  float64 `yaml:"minijobHourlyWage" validate:"gt=0"`
	MinijobEarningsCap float64 `yaml:"minijobEarningsCap" validate:"gt=0"`
	Currency           string  `yaml:"currency" validate:"required,len=3"`

	// Typical workdays: warning past soft extra, error past hard extra
	TypicalDaysSoftExtra int `yaml:"typicalDaysSoftExtra" validate:"gte=0"`
	TypicalDaysHardExtra int `yaml:"typicalDaysHardExtra" validate:"gtefield=TypicalDaysSoftExtra"`

	// Scoring
	PreferBonus                   float64 `yaml:"preferBonus"`
	YesBonus                      float64 `yaml:"yesBonus"`
	WeekendBonus                  float64 `yaml:"weekendBonus"`
	StudentEveningBonus           float64 `yaml:"studentEveningBonus"`
	PreferredShiftBonus           float64 `yaml:"preferredShiftBonus"`
	PermanentWeekendPenalty       float64 `yaml:"permanentWeekendPenalty"`
	AlternativeDayPenalty         float64 `yaml:"alternativeDayPenalty"`
	WeekendFairnessPenalty        float64 `yaml:"weekendFairnessPenalty"`
	StudentDaytimePenalty         float64 `yaml:"studentDaytimePenalty"`
	StudentDaytimeExceptionFactor float64 `yaml:"studentDaytimeExceptionFactor" validate:"gte=0,lte=1"`
	TypicalDaysPenalty            float64 `yaml:"typicalDaysPenalty"`
	TypicalDaysSoftPenalty        float64 `yaml:"typicalDaysSoftPenalty"`
	PracticalHoursBonus           float64 `yaml:"practicalHoursBonus"`
	PracticalHoursPenalty         float64 `yaml:"practicalHoursPenalty"`
	WorkloadBalanceWeight         float64 `yaml:"workloadBalanceWeight"`
}

// DefaultPolicy returns the standard policy values
func DefaultPolicy() Policy {
	return Policy{
		MinRestHours:  11,
		EveningCutoff: "18:00",
		ShiftPriority: []string{"closing", "early", "weekend_late", "weekend_early", "holiday"},

		WeeklyHoursTolerance:  0.25,
		MonthlyHoursTolerance: 0.15,

		MinWeekendShifts: 1,
		MaxWeekendShifts: 4,

		StudentWeekdayDaytimeCap:  2,
		StudentDaytimeRatio:       2,
		StudentRatioMinShifts:     4,
		StudentLectureWeeklyHours: 20,
		StudentBreakWeeklyHours:   40,

		MinijobHourlyWage:  13.5,
		MinijobEarningsCap: 556,
		Currency:           "EUR",

		TypicalDaysSoftExtra: 0,
		TypicalDaysHardExtra: 1,

		PreferBonus:                   30,
		YesBonus:                      15,
		WeekendBonus:                  10,
		StudentEveningBonus:           8,
		PreferredShiftBonus:           6,
		PermanentWeekendPenalty:       40,
		AlternativeDayPenalty:         25,
		WeekendFairnessPenalty:        12,
		StudentDaytimePenalty:         20,
		StudentDaytimeExceptionFactor: 0.25,
		TypicalDaysPenalty:            15,
		TypicalDaysSoftPenalty:        30,
		PracticalHoursBonus:           5,
		PracticalHoursPenalty:         10,
		WorkloadBalanceWeight:         20,
	}
}
