package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jakechorley/staff-roster/pkg/core/model"
	"github.com/jakechorley/staff-roster/pkg/db"
)

// mockImporter implements db.ReferenceImporter for testing
type mockImporter struct {
	imported  []db.ReferenceData
	importErr error
}

func (m *mockImporter) ImportReference(ctx context.Context, data db.ReferenceData) error {
	if m.importErr != nil {
		return m.importErr
	}
	m.imported = append(m.imported, data)
	return nil
}

func validReferenceData() db.ReferenceData {
	return db.ReferenceData{
		Staff: []model.StaffMember{
			{ID: "perm_anna", Name: "Anna", Role: model.RolePermanent, ContractHours: 40, TypicalWorkdays: 5},
			{ID: "stud_cara", Name: "Cara", Role: model.RoleStudent, ContractHours: 15, TypicalWorkdays: 3},
		},
		Availability: []model.AvailabilityRecord{
			{StaffID: "stud_cara", Date: "2025-06-07", Status: model.AvailabilityPrefer},
		},
		Absences: []model.AbsencePeriod{
			{StaffID: "perm_anna", Start: "2025-06-10", End: "2025-06-14", Kind: model.AbsenceVacation},
		},
		Consents: []model.ConsentRecord{
			{StaffID: "perm_anna", Year: 2025, Date: "2025-06-21", Approved: true},
		},
	}
}

func TestImportReference_Success(t *testing.T) {
	importer := &mockImporter{}

	err := ImportReference(context.Background(), importer, zap.NewNop(), validReferenceData())
	require.NoError(t, err)
	require.Len(t, importer.imported, 1)
	assert.Len(t, importer.imported[0].Staff, 2)
}

func TestImportReference_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(data *db.ReferenceData)
		wantErr string
	}{
		{
			name: "duplicate staff",
			mutate: func(data *db.ReferenceData) {
				data.Staff = append(data.Staff, data.Staff[0])
			},
			wantErr: "duplicate staff id",
		},
		{
			name: "availability for unknown staff",
			mutate: func(data *db.ReferenceData) {
				data.Availability[0].StaffID = "ghost"
			},
			wantErr: "availability for unknown staff id",
		},
		{
			name: "malformed absence date",
			mutate: func(data *db.ReferenceData) {
				data.Absences[0].End = "14.06.2025"
			},
			wantErr: "invalid date",
		},
		{
			name: "absence ends before start",
			mutate: func(data *db.ReferenceData) {
				data.Absences[0].End = "2025-06-01"
			},
			wantErr: "ends before it starts",
		},
		{
			name: "consent for unknown staff",
			mutate: func(data *db.ReferenceData) {
				data.Consents[0].StaffID = "ghost"
			},
			wantErr: "consent for unknown staff id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := validReferenceData()
			tt.mutate(&data)
			importer := &mockImporter{}

			err := ImportReference(context.Background(), importer, zap.NewNop(), data)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.Empty(t, importer.imported)
		})
	}
}

func TestImportReference_TargetError(t *testing.T) {
	importer := &mockImporter{importErr: errors.New("connection refused")}

	err := ImportReference(context.Background(), importer, zap.NewNop(), validReferenceData())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to import reference data")
}
