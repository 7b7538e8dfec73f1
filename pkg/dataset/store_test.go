package dataset

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jakechorley/staff-roster/pkg/core/model"
	"github.com/jakechorley/staff-roster/pkg/core/overtime"
	"github.com/jakechorley/staff-roster/pkg/db"
)

const sampleDataset = `
staff:
  - id: perm_anna
    name: Anna
    role: permanent
    contractHours: 40
    typicalWorkdays: 5
  - id: stud_cara
    name: Cara
    role: student
    contractHours: 15
    typicalWorkdays: 3
availability:
  - staffId: stud_cara
    date: "2025-06-07"
    status: prefer
  - staffId: stud_cara
    date: "2025-07-01"
    status: "no"
absences:
  - staffId: perm_anna
    start: "2025-06-16"
    end: "2025-06-20"
    kind: vacation
`

func writeSample(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "roster_data.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleDataset), 0644))
	return path
}

func TestFileStore_ReadsReferenceData(t *testing.T) {
	ctx := context.Background()
	store := NewFileStore(writeSample(t))

	staff, err := store.GetStaff(ctx)
	require.NoError(t, err)
	require.Len(t, staff, 2)
	assert.Equal(t, model.RolePermanent, staff[0].Role)

	availability, err := store.GetAvailability(ctx, "2025-06")
	require.NoError(t, err)
	require.Len(t, availability, 1)
	assert.Equal(t, model.AvailabilityPrefer, availability[0].Status)

	absences, err := store.GetAbsences(ctx)
	require.NoError(t, err)
	require.Len(t, absences, 1)
	assert.Equal(t, model.AbsenceVacation, absences[0].Kind)

	consents, err := store.GetConsents(ctx)
	require.NoError(t, err)
	assert.Empty(t, consents)
}

func TestFileStore_MissingFileIsEmpty(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "missing.yaml"))

	staff, err := store.GetStaff(context.Background())
	require.NoError(t, err)
	assert.Empty(t, staff)

	_, err = store.GetSchedule(context.Background(), "2025-06")
	assert.ErrorIs(t, err, db.ErrScheduleNotFound)
}

func TestFileStore_InvalidDataset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roster_data.yaml")
	require.NoError(t, os.WriteFile(path, []byte("staff:\n  - id: x\n    name: X\n    role: manager\n"), 0644))

	_, err := NewFileStore(path).GetStaff(context.Background())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "dataset validation failed")
}

func TestFileStore_UnknownAvailabilityStatus(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roster_data.yaml")
	content := "availability:\n  - staffId: a\n    date: \"2025-06-01\"\n    status: maybe\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	_, err := NewFileStore(path).GetAvailability(context.Background(), "2025-06")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse dataset")
}

func TestFileStore_SaveScheduleRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := writeSample(t)
	store := NewFileStore(path)

	schedule := &model.MonthSchedule{
		Month: "2025-06",
		Days: []model.CalendarDay{
			{Date: "2025-06-01", DayType: model.DayTypeWeekend, Assignments: model.DayAssignments{"weekend_early": "stud_cara"}},
		},
	}
	require.NoError(t, store.SaveSchedule(ctx, schedule))

	// Replace in place
	schedule.Days[0].Assignments["weekend_early"] = "perm_anna"
	require.NoError(t, store.SaveSchedule(ctx, schedule))

	reopened := NewFileStore(path)
	loaded, err := reopened.GetSchedule(ctx, "2025-06")
	require.NoError(t, err)
	assert.Equal(t, "perm_anna", loaded.Days[0].Assignments["weekend_early"])

	ds, err := reopened.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, ds.Schedules, 1)
	// Reference data survives the write
	assert.Len(t, ds.Staff, 2)

	// No temporary files are left behind
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestFileStore_Requests(t *testing.T) {
	ctx := context.Background()
	store := NewFileStore(writeSample(t))
	created := time.Date(2025, 5, 20, 9, 0, 0, 0, time.UTC)

	june := model.OvertimeRequest{ID: "r1", Month: "2025-06", Date: "2025-06-07", StaffID: "perm_anna", ShiftKey: "weekend_early", Status: model.OvertimeRequested, CreatedAt: created, UpdatedAt: created}
	july := model.OvertimeRequest{ID: "r2", Month: "2025-07", Date: "2025-07-05", StaffID: "perm_anna", ShiftKey: "weekend_early", Status: model.OvertimeRequested, CreatedAt: created, UpdatedAt: created}
	require.NoError(t, store.SaveRequest(ctx, june))
	require.NoError(t, store.SaveRequest(ctx, july))

	june.Status = model.OvertimeConsented
	require.NoError(t, store.SaveRequest(ctx, june))

	listed, err := store.ListRequests(ctx, "2025-06")
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, model.OvertimeConsented, listed[0].Status)

	all, err := store.ListRequests(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	got, err := store.GetRequest(ctx, "r2")
	require.NoError(t, err)
	assert.True(t, created.Equal(got.CreatedAt))

	_, err = store.GetRequest(ctx, "missing")
	assert.ErrorIs(t, err, overtime.ErrNotFound)
}

func TestFileStore_SaveConsentReplaces(t *testing.T) {
	ctx := context.Background()
	store := NewFileStore(writeSample(t))

	require.NoError(t, store.SaveConsent(ctx, model.ConsentRecord{StaffID: "perm_anna", Year: 2025, Date: "2025-06-07", Approved: false}))
	require.NoError(t, store.SaveConsent(ctx, model.ConsentRecord{StaffID: "perm_anna", Year: 2025, Date: "2025-06-07", Approved: true}))

	consents, err := store.GetConsents(ctx)
	require.NoError(t, err)
	require.Len(t, consents, 1)
	assert.True(t, consents[0].Approved)
}

func TestFileStore_ImportReferenceKeepsSchedules(t *testing.T) {
	ctx := context.Background()
	store := NewFileStore(writeSample(t))
	require.NoError(t, store.SaveSchedule(ctx, &model.MonthSchedule{Month: "2025-06"}))

	err := store.ImportReference(ctx, db.ReferenceData{
		Staff: []model.StaffMember{{ID: "mini_ben", Name: "Ben", Role: model.RoleMinijob, ContractHours: 10, TypicalWorkdays: 2}},
	})
	require.NoError(t, err)

	ds, err := store.Load(ctx)
	require.NoError(t, err)
	require.Len(t, ds.Staff, 1)
	assert.Equal(t, "mini_ben", ds.Staff[0].ID)
	assert.Empty(t, ds.Availability)
	assert.Empty(t, ds.Absences)
	assert.Len(t, ds.Schedules, 1)
}

func TestFileStore_ImportReferenceRejectsInvalidStaff(t *testing.T) {
	path := writeSample(t)
	store := NewFileStore(path)

	err := store.ImportReference(context.Background(), db.ReferenceData{
		Staff: []model.StaffMember{{ID: "x", Name: "X", Role: "manager"}},
	})
	require.Error(t, err)

	staff, err := store.GetStaff(context.Background())
	require.NoError(t, err)
	assert.Len(t, staff, 2)
}
