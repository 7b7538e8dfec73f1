package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jakechorley/staff-roster/internal/config"
	"github.com/jakechorley/staff-roster/pkg/core/model"
	"github.com/jakechorley/staff-roster/pkg/core/overtime"
	"github.com/jakechorley/staff-roster/pkg/core/rules"
	"github.com/jakechorley/staff-roster/pkg/db"
)

// mockRosterStore implements db.Database for testing.
// Overtime requests and consents live in the embedded memory store.
type mockRosterStore struct {
	*overtime.MemoryStore

	staff        []model.StaffMember
	availability []model.AvailabilityRecord
	absences     []model.AbsencePeriod
	schedules    map[string]*model.MonthSchedule
	saves        int

	getStaffErr     error
	saveScheduleErr error
}

func newMockStore(absences []model.AbsencePeriod) *mockRosterStore {
	return &mockRosterStore{
		MemoryStore: overtime.NewMemoryStore(nil, nil),
		staff: []model.StaffMember{
			{ID: "perm_anna", Name: "Anna", Role: model.RolePermanent, ContractHours: 40, TypicalWorkdays: 5},
			{ID: "stud_cara", Name: "Cara", Role: model.RoleStudent, ContractHours: 15, TypicalWorkdays: 3},
		},
		absences:  absences,
		schedules: make(map[string]*model.MonthSchedule),
	}
}

func (m *mockRosterStore) GetStaff(ctx context.Context) ([]model.StaffMember, error) {
	if m.getStaffErr != nil {
		return nil, m.getStaffErr
	}
	return m.staff, nil
}

func (m *mockRosterStore) GetAvailability(ctx context.Context, month string) ([]model.AvailabilityRecord, error) {
	return m.availability, nil
}

func (m *mockRosterStore) GetAbsences(ctx context.Context) ([]model.AbsencePeriod, error) {
	return m.absences, nil
}

func (m *mockRosterStore) GetConsents(ctx context.Context) ([]model.ConsentRecord, error) {
	return m.MemoryStore.Consents(), nil
}

func (m *mockRosterStore) GetSchedule(ctx context.Context, month string) (*model.MonthSchedule, error) {
	schedule, ok := m.schedules[month]
	if !ok {
		return nil, fmt.Errorf("%w for %s", db.ErrScheduleNotFound, month)
	}
	// Copy the day slice so callers cannot edit the stored schedule in place
	copied := *schedule
	copied.Days = append([]model.CalendarDay(nil), schedule.Days...)
	return &copied, nil
}

func (m *mockRosterStore) SaveSchedule(ctx context.Context, schedule *model.MonthSchedule) error {
	if m.saveScheduleErr != nil {
		return m.saveScheduleErr
	}
	m.saves++
	m.schedules[schedule.Month] = schedule
	return nil
}

var _ db.Database = (*mockRosterStore)(nil)

// annaVacation covers the forced-assignment scenario on 2025-06-12
var annaVacation = []model.AbsencePeriod{
	{StaffID: "perm_anna", Start: "2025-06-10", End: "2025-06-14", Kind: model.AbsenceVacation},
}

// caraAway leaves no non-permanent cover on the first June weekend
var caraAway = []model.AbsencePeriod{
	{StaffID: "stud_cara", Start: "2025-06-06", End: "2025-06-08", Kind: model.AbsenceIllness},
}

func TestGenerateMonth_SavesValidatedSchedule(t *testing.T) {
	ctx := context.Background()
	store := newMockStore(annaVacation)
	cfg := config.Default()

	result, err := GenerateMonth(ctx, store, cfg, zap.NewNop(), "2025-06", false)
	require.NoError(t, err)

	require.NotNil(t, result.Schedule)
	assert.Equal(t, "2025-06", result.Schedule.Month)
	assert.Len(t, result.Schedule.Days, 30)
	assert.Equal(t, 1, store.saves)
	assert.Same(t, result.Schedule, store.schedules["2025-06"])

	// Nobody is scheduled inside the vacation
	for _, day := range result.Schedule.Days {
		if day.Date >= "2025-06-10" && day.Date <= "2025-06-14" {
			for _, staffID := range day.Assignments {
				assert.NotEqual(t, "perm_anna", staffID, day.Date)
			}
		}
	}
	assert.Empty(t, rules.Filter(result.Issues, rules.RuleAbsence))
	assert.Empty(t, rules.Filter(result.Issues, rules.RuleRest))
}

func TestGenerateMonth_ExistingScheduleNeedsOverwrite(t *testing.T) {
	ctx := context.Background()
	store := newMockStore(nil)
	cfg := config.Default()

	_, err := GenerateMonth(ctx, store, cfg, zap.NewNop(), "2025-06", false)
	require.NoError(t, err)

	_, err = GenerateMonth(ctx, store, cfg, zap.NewNop(), "2025-06", false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
	assert.Equal(t, 1, store.saves)

	_, err = GenerateMonth(ctx, store, cfg, zap.NewNop(), "2025-06", true)
	require.NoError(t, err)
	assert.Equal(t, 2, store.saves)
}

func TestGenerateMonth_StoreErrors(t *testing.T) {
	store := newMockStore(nil)
	store.getStaffErr = errors.New("disk unavailable")

	_, err := GenerateMonth(context.Background(), store, config.Default(), zap.NewNop(), "2025-06", false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to fetch staff")
	assert.Equal(t, 0, store.saves)
}

func TestGenerateMonth_InvalidMonth(t *testing.T) {
	store := newMockStore(nil)

	_, err := GenerateMonth(context.Background(), store, config.Default(), zap.NewNop(), "June", true)
	assert.Error(t, err)
	assert.Equal(t, 0, store.saves)
}

func TestValidateMonth_MissingSchedule(t *testing.T) {
	store := newMockStore(nil)

	_, err := ValidateMonth(context.Background(), store, config.Default(), zap.NewNop(), "2025-06")
	assert.ErrorIs(t, err, db.ErrScheduleNotFound)
}

func TestValidateMonth_WritesBlockers(t *testing.T) {
	ctx := context.Background()
	store := newMockStore(annaVacation)
	store.schedules["2025-06"] = &model.MonthSchedule{
		Month: "2025-06",
		Days: []model.CalendarDay{
			{Date: "2025-06-12", DayType: model.DayTypeWeekday, Assignments: model.DayAssignments{"early": "perm_anna"}},
		},
	}

	result, err := ValidateMonth(ctx, store, config.Default(), zap.NewNop(), "2025-06")
	require.NoError(t, err)

	absence := rules.Filter(result.Issues, rules.RuleAbsence)
	require.Len(t, absence, 1)
	assert.Equal(t, "2025-06-12", absence[0].Date)
	assert.Equal(t, "early", absence[0].ShiftKey)

	day := store.schedules["2025-06"].Day("2025-06-12")
	require.NotNil(t, day)
	assert.Contains(t, day.Blockers["early"], "vacation")
	assert.Equal(t, 1, store.saves)

	// Validating the unchanged month again yields the same annotations
	again, err := ValidateMonth(ctx, store, config.Default(), zap.NewNop(), "2025-06")
	require.NoError(t, err)
	assert.Equal(t, result.Issues, again.Issues)
	assert.Equal(t, day.Blockers, store.schedules["2025-06"].Day("2025-06-12").Blockers)
}

func TestAssignShift_RefusesBlockedSlot(t *testing.T) {
	ctx := context.Background()
	store := newMockStore(annaVacation)

	result, err := AssignShift(ctx, store, config.Default(), zap.NewNop(), AssignRequest{
		Month: "2025-06", Date: "2025-06-12", ShiftKey: "early", StaffID: "perm_anna",
	})
	require.NoError(t, err)

	assert.False(t, result.Committed)
	require.Len(t, result.Blockers, 1)
	assert.Equal(t, rules.RuleAbsence, result.Blockers[0].Rule)
	assert.Nil(t, result.Overtime)
	assert.Equal(t, 0, store.saves)
}

func TestAssignShift_ForceCommitsBlockedSlot(t *testing.T) {
	ctx := context.Background()
	store := newMockStore(annaVacation)

	result, err := AssignShift(ctx, store, config.Default(), zap.NewNop(), AssignRequest{
		Month: "2025-06", Date: "2025-06-12", ShiftKey: "early", StaffID: "perm_anna", Force: true,
	})
	require.NoError(t, err)

	assert.True(t, result.Committed)
	require.Len(t, result.Blockers, 1)
	assert.Equal(t, 1, store.saves)

	saved := store.schedules["2025-06"]
	require.Len(t, saved.Days, 30)
	day := saved.Day("2025-06-12")
	require.NotNil(t, day)
	assert.Equal(t, "perm_anna", day.Assignments["early"])
	assert.NotEmpty(t, day.Blockers["early"])
}

func TestAssignShift_BlockedSlotOpensNoOvertimeRequest(t *testing.T) {
	ctx := context.Background()
	absences := append([]model.AbsencePeriod{
		{StaffID: "perm_anna", Start: "2025-06-07", End: "2025-06-07", Kind: model.AbsenceVacation},
	}, caraAway...)
	store := newMockStore(absences)
	req := AssignRequest{Month: "2025-06", Date: "2025-06-07", ShiftKey: "weekend_early", StaffID: "perm_anna"}

	result, err := AssignShift(ctx, store, config.Default(), zap.NewNop(), req)
	require.NoError(t, err)
	assert.False(t, result.Committed)
	require.Len(t, result.Blockers, 1)
	assert.Equal(t, rules.RuleAbsence, result.Blockers[0].Rule)
	assert.Nil(t, result.Overtime)
	assert.Empty(t, store.Requests())

	// Forcing still asks for consent
	req.Force = true
	result, err = AssignShift(ctx, store, config.Default(), zap.NewNop(), req)
	require.NoError(t, err)
	assert.True(t, result.Committed)
	require.NotNil(t, result.Overtime)
	assert.Len(t, store.Requests(), 1)
}

func TestAssignShift_ClearSlot(t *testing.T) {
	ctx := context.Background()
	store := newMockStore(nil)
	cfg := config.Default()

	_, err := AssignShift(ctx, store, cfg, zap.NewNop(), AssignRequest{
		Month: "2025-06", Date: "2025-06-11", ShiftKey: "midday", StaffID: "stud_cara",
	})
	require.NoError(t, err)
	assert.Equal(t, "stud_cara", store.schedules["2025-06"].Day("2025-06-11").Assignments["midday"])

	result, err := AssignShift(ctx, store, cfg, zap.NewNop(), AssignRequest{
		Month: "2025-06", Date: "2025-06-11", ShiftKey: "midday",
	})
	require.NoError(t, err)
	assert.True(t, result.Committed)
	assert.Empty(t, store.schedules["2025-06"].Day("2025-06-11").Assignments)
}

func TestAssignShift_InvalidRequests(t *testing.T) {
	store := newMockStore(nil)
	cfg := config.Default()

	tests := []struct {
		name    string
		req     AssignRequest
		wantErr string
	}{
		{
			name:    "weekend shift on a weekday",
			req:     AssignRequest{Month: "2025-06", Date: "2025-06-11", ShiftKey: "weekend_early", StaffID: "stud_cara"},
			wantErr: "not offered",
		},
		{
			name:    "unknown staff",
			req:     AssignRequest{Month: "2025-06", Date: "2025-06-11", ShiftKey: "early", StaffID: "ghost"},
			wantErr: "unknown staff id",
		},
		{
			name:    "date outside month",
			req:     AssignRequest{Month: "2025-06", Date: "2025-07-01", ShiftKey: "early", StaffID: "stud_cara"},
			wantErr: "not in month",
		},
		{
			name:    "malformed date",
			req:     AssignRequest{Month: "2025-06", Date: "11/06/2025", ShiftKey: "early", StaffID: "stud_cara"},
			wantErr: "11/06/2025",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := AssignShift(context.Background(), store, cfg, zap.NewNop(), tt.req)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
	assert.Equal(t, 0, store.saves)
}

func TestOvertimeFlow_AssignConsentFinalize(t *testing.T) {
	ctx := context.Background()
	store := newMockStore(caraAway)
	cfg := config.Default()
	logger := zap.NewNop()

	assigned, err := AssignShift(ctx, store, cfg, logger, AssignRequest{
		Month: "2025-06", Date: "2025-06-07", ShiftKey: "weekend_early", StaffID: "perm_anna",
	})
	require.NoError(t, err)
	require.NotNil(t, assigned.Overtime)
	assert.False(t, assigned.Committed)
	assert.Equal(t, model.OvertimeRequested, assigned.Overtime.Status)
	require.Len(t, rules.Filter(assigned.Warnings, rules.RulePermanentConsent), 1)
	assert.Equal(t, 0, store.saves)

	listed, err := ListRequests(ctx, store, logger, "2025-06")
	require.NoError(t, err)
	require.Len(t, listed, 1)

	consented, err := ConsentRequest(ctx, store, logger, assigned.Overtime.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OvertimeConsented, consented.Status)

	finalized, err := FinalizeRequest(ctx, store, cfg, logger, assigned.Overtime.ID)
	require.NoError(t, err)
	assert.True(t, finalized.Committed)
	assert.Equal(t, model.OvertimeCompleted, finalized.Request.Status)
	assert.Empty(t, rules.Filter(finalized.Issues, rules.RulePermanentConsent))

	day := store.schedules["2025-06"].Day("2025-06-07")
	require.NotNil(t, day)
	assert.Equal(t, "perm_anna", day.Assignments["weekend_early"])
	assert.Empty(t, day.Blockers)
}

func TestOvertimeFlow_Decline(t *testing.T) {
	ctx := context.Background()
	store := newMockStore(caraAway)
	logger := zap.NewNop()

	assigned, err := AssignShift(ctx, store, config.Default(), logger, AssignRequest{
		Month: "2025-06", Date: "2025-06-08", ShiftKey: "weekend_late", StaffID: "perm_anna",
	})
	require.NoError(t, err)
	require.NotNil(t, assigned.Overtime)

	declined, err := DeclineRequest(ctx, store, logger, assigned.Overtime.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OvertimeDeclined, declined.Status)

	_, err = FinalizeRequest(ctx, store, config.Default(), logger, assigned.Overtime.ID)
	assert.ErrorIs(t, err, overtime.ErrInvalidTransition)
	assert.Equal(t, 0, store.saves)
}

func TestFinalizeRequest_NotFound(t *testing.T) {
	store := newMockStore(nil)

	_, err := FinalizeRequest(context.Background(), store, config.Default(), zap.NewNop(), "missing")
	assert.ErrorIs(t, err, overtime.ErrNotFound)
}
