package overtime

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jakechorley/staff-roster/pkg/core/calendar"
	"github.com/jakechorley/staff-roster/pkg/core/model"
	"github.com/jakechorley/staff-roster/pkg/core/roster"
	"github.com/jakechorley/staff-roster/pkg/core/rules"
)

// Workflow moves overtime requests through their lifecycle:
//
//	requested -> consented -> completed
//	requested -> declined
//	consented -> consented (finalize blocked, LastError recorded)
type Workflow struct {
	store  Store
	logger *zap.Logger
	now    func() time.Time
}

// NewWorkflow creates a workflow backed by the store
func NewWorkflow(store Store, logger *zap.Logger) *Workflow {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Workflow{
		store:  store,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Slot is the assignment an overtime request is about
type Slot struct {
	Month    string
	Date     string
	ShiftKey string
	StaffID  string
}

// RequestIfNeeded creates a request when placing the staff member on the slot needs consent
// they have not given and no non-permanent candidate could take the slot instead.
// It returns nil when no request is needed, and the existing open request when one exists.
func (w *Workflow) RequestIfNeeded(ctx context.Context, ref *roster.Reference, slot Slot, assignments model.Assignments) (*model.OvertimeRequest, error) {
	member, ok := ref.StaffByID(slot.StaffID)
	if !ok {
		return nil, fmt.Errorf("unknown staff id %q", slot.StaffID)
	}
	day, err := calendar.ParseDate(slot.Date)
	if err != nil {
		return nil, err
	}

	if !ref.RequiresConsent(member, day) || ref.HasConsent(member.ID, slot.Date) {
		return nil, nil
	}

	month, err := ref.Month(slot.Month)
	if err != nil {
		return nil, err
	}
	counters := roster.CountersFrom(ref, month, assignments, roster.Slot{Date: slot.Date, ShiftKey: slot.ShiftKey})

	sameDay := model.DayAssignments{}
	for shiftKey, staffID := range assignments[slot.Date] {
		if shiftKey != slot.ShiftKey {
			sameDay[shiftKey] = staffID
		}
	}

	candidates := roster.ScoreCandidates(ref, month, roster.SlotRequest{
		Date:     day,
		ShiftKey: slot.ShiftKey,
		SameDay:  sameDay,
	}, counters)
	for _, c := range candidates {
		if !c.Eligible() {
			continue
		}
		if other, _ := ref.StaffByID(c.StaffID); other.Role != model.RolePermanent {
			w.logger.Debug("Non-permanent cover available, no overtime request needed",
				zap.String("date", slot.Date),
				zap.String("shift", slot.ShiftKey),
				zap.String("candidate", c.StaffID))
			return nil, nil
		}
	}

	existing, err := w.store.ListRequests(ctx, slot.Month)
	if err != nil {
		return nil, fmt.Errorf("failed to list overtime requests: %w", err)
	}
	for _, r := range existing {
		if r.Status.IsOpen() && r.Date == slot.Date && r.ShiftKey == slot.ShiftKey && r.StaffID == slot.StaffID {
			w.logger.Debug("Open overtime request already exists", zap.String("id", r.ID))
			return &r, nil
		}
	}

	now := w.now()
	request := model.OvertimeRequest{
		ID:        uuid.NewString(),
		Month:     slot.Month,
		Date:      slot.Date,
		StaffID:   slot.StaffID,
		ShiftKey:  slot.ShiftKey,
		Status:    model.OvertimeRequested,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := w.store.SaveRequest(ctx, request); err != nil {
		return nil, fmt.Errorf("failed to save overtime request: %w", err)
	}

	w.logger.Info("Overtime request created",
		zap.String("id", request.ID),
		zap.String("staff", request.StaffID),
		zap.String("date", request.Date),
		zap.String("shift", request.ShiftKey))

	return &request, nil
}

// Consent records the staff member's approval and writes a standing consent record for the date
func (w *Workflow) Consent(ctx context.Context, id string) (*model.OvertimeRequest, error) {
	request, err := w.transition(ctx, id, model.OvertimeRequested, model.OvertimeConsented)
	if err != nil {
		return nil, err
	}

	day, err := calendar.ParseDate(request.Date)
	if err != nil {
		return nil, err
	}
	consent := model.ConsentRecord{
		StaffID:  request.StaffID,
		Year:     day.Year(),
		Date:     request.Date,
		Approved: true,
	}
	if err := w.store.SaveConsent(ctx, consent); err != nil {
		return nil, fmt.Errorf("failed to save consent record: %w", err)
	}
	if err := w.store.SaveRequest(ctx, *request); err != nil {
		return nil, fmt.Errorf("failed to save overtime request: %w", err)
	}

	w.logger.Info("Overtime request consented", zap.String("id", id), zap.String("staff", request.StaffID))
	return request, nil
}

// Decline closes a request the staff member refused
func (w *Workflow) Decline(ctx context.Context, id string) (*model.OvertimeRequest, error) {
	request, err := w.transition(ctx, id, model.OvertimeRequested, model.OvertimeDeclined)
	if err != nil {
		return nil, err
	}
	if err := w.store.SaveRequest(ctx, *request); err != nil {
		return nil, fmt.Errorf("failed to save overtime request: %w", err)
	}

	w.logger.Info("Overtime request declined", zap.String("id", id), zap.String("staff", request.StaffID))
	return request, nil
}

// Finalize applies the consented assignment to a copy of the month and re-validates it.
// A blocker on the slot keeps the request consented with LastError set and returns nil
// assignments; otherwise the request completes and the updated assignments are returned.
func (w *Workflow) Finalize(ctx context.Context, ref *roster.Reference, id string, assignments model.Assignments) (*model.OvertimeRequest, model.Assignments, error) {
	request, err := w.store.GetRequest(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if request.Status != model.OvertimeConsented {
		return nil, nil, fmt.Errorf("%w: cannot finalize %s request %s", ErrInvalidTransition, request.Status, id)
	}

	updated := assignments.Clone()
	updated.Set(request.Date, request.ShiftKey, request.StaffID)

	issues, err := rules.Validate(ref, request.Month, updated)
	if err != nil {
		return nil, nil, err
	}

	day, err := calendar.ParseDate(request.Date)
	if err != nil {
		return nil, nil, err
	}
	var blockers []string
	for _, issue := range rules.SlotIssues(issues, calendar.WeekKey(day), request.Date, request.ShiftKey, request.StaffID) {
		if issue.IsBlocking() {
			blockers = append(blockers, issue.Message)
		}
	}

	request.UpdatedAt = w.now()
	if len(blockers) > 0 {
		request.LastError = strings.Join(blockers, "; ")
		if err := w.store.SaveRequest(ctx, request); err != nil {
			return nil, nil, fmt.Errorf("failed to save overtime request: %w", err)
		}
		w.logger.Warn("Overtime request blocked",
			zap.String("id", id),
			zap.String("error", request.LastError))
		return &request, nil, nil
	}

	request.Status = model.OvertimeCompleted
	request.LastError = ""
	if err := w.store.SaveRequest(ctx, request); err != nil {
		return nil, nil, fmt.Errorf("failed to save overtime request: %w", err)
	}

	w.logger.Info("Overtime request completed",
		zap.String("id", id),
		zap.String("staff", request.StaffID),
		zap.String("date", request.Date),
		zap.String("shift", request.ShiftKey))

	return &request, updated, nil
}

// List returns the month's requests for an inbox view
func (w *Workflow) List(ctx context.Context, month string) ([]model.OvertimeRequest, error) {
	requests, err := w.store.ListRequests(ctx, month)
	if err != nil {
		return nil, fmt.Errorf("failed to list overtime requests: %w", err)
	}
	sortRequests(requests)
	return requests, nil
}

func (w *Workflow) transition(ctx context.Context, id string, from, to model.OvertimeStatus) (*model.OvertimeRequest, error) {
	request, err := w.store.GetRequest(ctx, id)
	if err != nil {
		return nil, err
	}
	if request.Status != from {
		return nil, fmt.Errorf("%w: %s -> %s for request %s", ErrInvalidTransition, request.Status, to, id)
	}
	request.Status = to
	request.UpdatedAt = w.now()
	return &request, nil
}
