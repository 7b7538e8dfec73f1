package dataset

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/jakechorley/staff-roster/pkg/core/model"
	"github.com/jakechorley/staff-roster/pkg/core/overtime"
	"github.com/jakechorley/staff-roster/pkg/db"
)

// Dataset is the content of the YAML data file
type Dataset struct {
	Staff            []model.StaffMember        `yaml:"staff" validate:"dive"`
	Availability     []model.AvailabilityRecord `yaml:"availability,omitempty" validate:"dive"`
	Absences         []model.AbsencePeriod      `yaml:"absences,omitempty" validate:"dive"`
	Consents         []model.ConsentRecord      `yaml:"consents,omitempty" validate:"dive"`
	Schedules        []model.MonthSchedule      `yaml:"schedules,omitempty"`
	OvertimeRequests []model.OvertimeRequest    `yaml:"overtimeRequests,omitempty"`
}

var validate = validator.New()

// FileStore keeps the whole dataset in one YAML file.
// Every call reads the file; writes replace it atomically.
type FileStore struct {
	path string
	mu   sync.Mutex
}

var (
	_ db.Database          = (*FileStore)(nil)
	_ db.ReferenceImporter = (*FileStore)(nil)
)

// NewFileStore creates a store for the file at path. A missing file reads as an empty dataset.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the data file path
func (s *FileStore) Path() string {
	return s.path
}

// Load reads and validates the dataset
func (s *FileStore) Load(ctx context.Context) (*Dataset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read()
}

func (s *FileStore) read() (*Dataset, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return &Dataset{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset: %w", err)
	}

	var ds Dataset
	if err := yaml.Unmarshal(data, &ds); err != nil {
		return nil, fmt.Errorf("failed to parse dataset: %w", err)
	}
	if err := validate.Struct(&ds); err != nil {
		return nil, fmt.Errorf("dataset validation failed: %w", err)
	}
	return &ds, nil
}

func (s *FileStore) write(ds *Dataset) error {
	data, err := yaml.Marshal(ds)
	if err != nil {
		return fmt.Errorf("failed to encode dataset: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create dataset directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".dataset-*.yaml")
	if err != nil {
		return fmt.Errorf("failed to write dataset: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write dataset: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write dataset: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to replace dataset: %w", err)
	}
	return nil
}

// update applies fn to the dataset under the lock and writes it back
func (s *FileStore) update(fn func(ds *Dataset) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ds, err := s.read()
	if err != nil {
		return err
	}
	if err := fn(ds); err != nil {
		return err
	}
	return s.write(ds)
}

// Save replaces the whole dataset
func (s *FileStore) Save(ctx context.Context, ds *Dataset) error {
	if err := validate.Struct(ds); err != nil {
		return fmt.Errorf("dataset validation failed: %w", err)
	}
	return s.update(func(current *Dataset) error {
		*current = *ds
		return nil
	})
}

func (s *FileStore) GetStaff(ctx context.Context) ([]model.StaffMember, error) {
	ds, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	return ds.Staff, nil
}

// GetAvailability returns the records of one month
func (s *FileStore) GetAvailability(ctx context.Context, month string) ([]model.AvailabilityRecord, error) {
	ds, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	var out []model.AvailabilityRecord
	for _, record := range ds.Availability {
		if strings.HasPrefix(record.Date, month+"-") {
			out = append(out, record)
		}
	}
	return out, nil
}

func (s *FileStore) GetAbsences(ctx context.Context) ([]model.AbsencePeriod, error) {
	ds, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	return ds.Absences, nil
}

func (s *FileStore) GetConsents(ctx context.Context) ([]model.ConsentRecord, error) {
	ds, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	return ds.Consents, nil
}

func (s *FileStore) GetSchedule(ctx context.Context, month string) (*model.MonthSchedule, error) {
	ds, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range ds.Schedules {
		if ds.Schedules[i].Month == month {
			schedule := ds.Schedules[i]
			return &schedule, nil
		}
	}
	return nil, fmt.Errorf("%w for %s", db.ErrScheduleNotFound, month)
}

// SaveSchedule inserts or replaces the schedule of its month
func (s *FileStore) SaveSchedule(ctx context.Context, schedule *model.MonthSchedule) error {
	return s.update(func(ds *Dataset) error {
		for i := range ds.Schedules {
			if ds.Schedules[i].Month == schedule.Month {
				ds.Schedules[i] = *schedule
				return nil
			}
		}
		ds.Schedules = append(ds.Schedules, *schedule)
		sort.Slice(ds.Schedules, func(i, j int) bool {
			return ds.Schedules[i].Month < ds.Schedules[j].Month
		})
		return nil
	})
}

// ListRequests returns the requests of a month, or every request when month is empty
func (s *FileStore) ListRequests(ctx context.Context, month string) ([]model.OvertimeRequest, error) {
	ds, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	var out []model.OvertimeRequest
	for _, r := range ds.OvertimeRequests {
		if month == "" || r.Month == month {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *FileStore) GetRequest(ctx context.Context, id string) (model.OvertimeRequest, error) {
	ds, err := s.Load(ctx)
	if err != nil {
		return model.OvertimeRequest{}, err
	}
	for _, r := range ds.OvertimeRequests {
		if r.ID == id {
			return r, nil
		}
	}
	return model.OvertimeRequest{}, fmt.Errorf("%w: %s", overtime.ErrNotFound, id)
}

// SaveRequest inserts or replaces a request by id
func (s *FileStore) SaveRequest(ctx context.Context, request model.OvertimeRequest) error {
	return s.update(func(ds *Dataset) error {
		for i := range ds.OvertimeRequests {
			if ds.OvertimeRequests[i].ID == request.ID {
				ds.OvertimeRequests[i] = request
				return nil
			}
		}
		ds.OvertimeRequests = append(ds.OvertimeRequests, request)
		return nil
	})
}

// SaveConsent inserts or replaces the consent for the staff member and date
func (s *FileStore) SaveConsent(ctx context.Context, consent model.ConsentRecord) error {
	return s.update(func(ds *Dataset) error {
		for i := range ds.Consents {
			if ds.Consents[i].StaffID == consent.StaffID && ds.Consents[i].Date == consent.Date {
				ds.Consents[i] = consent
				return nil
			}
		}
		ds.Consents = append(ds.Consents, consent)
		return nil
	})
}

// ImportReference replaces the reference data; schedules and requests are kept
func (s *FileStore) ImportReference(ctx context.Context, data db.ReferenceData) error {
	candidate := Dataset{
		Staff:        data.Staff,
		Availability: data.Availability,
		Absences:     data.Absences,
		Consents:     data.Consents,
	}
	if err := validate.Struct(&candidate); err != nil {
		return fmt.Errorf("dataset validation failed: %w", err)
	}
	return s.update(func(ds *Dataset) error {
		ds.Staff = data.Staff
		ds.Availability = data.Availability
		ds.Absences = data.Absences
		ds.Consents = data.Consents
		return nil
	})
}
