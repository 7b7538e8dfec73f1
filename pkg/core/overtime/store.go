package overtime

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/jakechorley/staff-roster/pkg/core/model"
)

var (
	// ErrNotFound is returned when no request has the given id
	ErrNotFound = errors.New("overtime request not found")

	// ErrInvalidTransition is returned when a request cannot move to the requested status
	ErrInvalidTransition = errors.New("invalid overtime request transition")
)

// Store persists overtime requests and the consent records they produce
type Store interface {
	ListRequests(ctx context.Context, month string) ([]model.OvertimeRequest, error)
	GetRequest(ctx context.Context, id string) (model.OvertimeRequest, error)
	SaveRequest(ctx context.Context, request model.OvertimeRequest) error
	SaveConsent(ctx context.Context, consent model.ConsentRecord) error
}

// MemoryStore is an in-process Store
type MemoryStore struct {
	mu       sync.Mutex
	requests map[string]model.OvertimeRequest
	consents []model.ConsentRecord
}

// NewMemoryStore creates a store seeded with existing requests and consents
func NewMemoryStore(requests []model.OvertimeRequest, consents []model.ConsentRecord) *MemoryStore {
	s := &MemoryStore{
		requests: make(map[string]model.OvertimeRequest, len(requests)),
		consents: append([]model.ConsentRecord(nil), consents...),
	}
	for _, r := range requests {
		s.requests[r.ID] = r
	}
	return s
}

// ListRequests returns the requests of a month, or every request when month is empty
func (s *MemoryStore) ListRequests(ctx context.Context, month string) ([]model.OvertimeRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []model.OvertimeRequest
	for _, r := range s.requests {
		if month == "" || r.Month == month {
			out = append(out, r)
		}
	}
	sortRequests(out)
	return out, nil
}

func (s *MemoryStore) GetRequest(ctx context.Context, id string) (model.OvertimeRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.requests[id]
	if !ok {
		return model.OvertimeRequest{}, ErrNotFound
	}
	return r, nil
}

func (s *MemoryStore) SaveRequest(ctx context.Context, request model.OvertimeRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.requests[request.ID] = request
	return nil
}

// SaveConsent stores the consent, replacing any record for the same staff and date
func (s *MemoryStore) SaveConsent(ctx context.Context, consent model.ConsentRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, existing := range s.consents {
		if existing.StaffID == consent.StaffID && existing.Date == consent.Date {
			s.consents[i] = consent
			return nil
		}
	}
	s.consents = append(s.consents, consent)
	return nil
}

// Consents returns a copy of the stored consent records
func (s *MemoryStore) Consents() []model.ConsentRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]model.ConsentRecord(nil), s.consents...)
}

// Requests returns every stored request ordered for display
func (s *MemoryStore) Requests() []model.OvertimeRequest {
	out, _ := s.ListRequests(context.Background(), "")
	return out
}

func sortRequests(requests []model.OvertimeRequest) {
	sort.Slice(requests, func(i, j int) bool {
		a, b := requests[i], requests[j]
		if a.Date != b.Date {
			return a.Date < b.Date
		}
		if a.ShiftKey != b.ShiftKey {
			return a.ShiftKey < b.ShiftKey
		}
		if a.StaffID != b.StaffID {
			return a.StaffID < b.StaffID
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})
}
