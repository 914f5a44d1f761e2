package service

import (
	"context"
	"testing"

	tsservice "laundromat/internal/timeslots/service"
	wizarderrors "laundromat/internal/wizard/errors"
	"laundromat/internal/wizard/fsm"
	"laundromat/internal/wizard/validator"
	"laundromat/pkg/client"
	"laundromat/pkg/config"
	apperrors "laundromat/pkg/errors"
	"laundromat/pkg/logger"
	"laundromat/pkg/model"
)

type memoryRepo struct {
	drafts map[string]*fsm.Draft
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{drafts: make(map[string]*fsm.Draft)}
}

func (m *memoryRepo) Save(_ context.Context, draft *fsm.Draft) error {
	copied := *draft
	m.drafts[draft.ID] = &copied
	return nil
}

func (m *memoryRepo) Find(_ context.Context, id string) (*fsm.Draft, error) {
	draft, ok := m.drafts[id]
	if !ok {
		return nil, wizarderrors.ErrDraftNotFound
	}
	copied := *draft
	return &copied, nil
}

func (m *memoryRepo) Delete(_ context.Context, id string) error {
	delete(m.drafts, id)
	return nil
}

type mockTimeSlotService struct {
	createFunc func(ctx context.Context, token string, batch *model.SlotBatch) (*client.BackendResponse, error)
}

func (m *mockTimeSlotService) Get(context.Context, string) (*client.BackendResponse, error) {
	return nil, nil
}

func (m *mockTimeSlotService) Create(ctx context.Context, token string, batch *model.SlotBatch) (*client.BackendResponse, error) {
	return m.createFunc(ctx, token, batch)
}

func (m *mockTimeSlotService) Edit(context.Context, string, *tsservice.EditRequest) (*client.BackendResponse, error) {
	return nil, nil
}

func (m *mockTimeSlotService) Delete(context.Context, string, string) (*client.BackendResponse, error) {
	return nil, nil
}

func newTestService(ts tsservice.TimeSlotService) (WizardService, *memoryRepo) {
	log := logger.New(logger.Config{Level: "error"})
	cfg := &config.Config{
		SlotDurationMin:   30,
		MaxSlotCapacity:   5,
		MaxCustomCapacity: 4,
		Log:               log,
	}
	repo := newMemoryRepo()
	svc := NewWizardService(repo, validator.NewWizardValidator(log), ts, cfg)
	return svc, repo
}

func weeklySelection() model.DateSelection {
	return model.DateSelection{
		Mode:     model.DateModeWeekly,
		Weekdays: []string{"Saturday", "Monday"},
		From:     "1404/08/01",
		To:       "1404/08/30",
	}
}

func advanceToSummary(t *testing.T, svc WizardService) *fsm.Draft {
	t.Helper()
	ctx := context.Background()

	draft, err := svc.Start(ctx)
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if _, err := svc.SelectDates(ctx, draft.ID, weeklySelection()); err != nil {
		t.Fatalf("SelectDates failed: %v", err)
	}
	if _, err := svc.SetWindow(ctx, draft.ID, fsm.Window{StartTime: "14:00", EndTime: "18:00", Capacity: 2}); err != nil {
		t.Fatalf("SetWindow failed: %v", err)
	}
	draft, err = svc.Confirm(ctx, draft.ID)
	if err != nil {
		t.Fatalf("Confirm failed: %v", err)
	}
	return draft
}

func TestWizardService_Start(t *testing.T) {
	svc, repo := newTestService(&mockTimeSlotService{})

	draft, err := svc.Start(context.Background())
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if draft.State != fsm.StateDateSelection {
		t.Errorf("state = %q, want %q", draft.State, fsm.StateDateSelection)
	}
	if _, ok := repo.drafts[draft.ID]; !ok {
		t.Error("Start must persist the draft")
	}
}

func TestWizardService_SetWindow_FieldValidation(t *testing.T) {
	svc, _ := newTestService(&mockTimeSlotService{})
	ctx := context.Background()

	draft, err := svc.Start(ctx)
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if _, err := svc.SelectDates(ctx, draft.ID, weeklySelection()); err != nil {
		t.Fatalf("SelectDates failed: %v", err)
	}

	_, err = svc.SetWindow(ctx, draft.ID, fsm.Window{StartTime: "2pm", EndTime: "18:00", Capacity: 2})
	if err == nil {
		t.Fatal("expected validation error")
	}
	appErr := apperrors.AsAppError(err)
	if appErr.Code != apperrors.CodeValidation {
		t.Errorf("error code = %q, want %q", appErr.Code, apperrors.CodeValidation)
	}

	// A rejected step must leave the stored draft untouched.
	stored, err := svc.Get(ctx, draft.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if stored.State != fsm.StateTimeWindow {
		t.Errorf("stored state = %q, want %q", stored.State, fsm.StateTimeWindow)
	}
}

func TestWizardService_DraftNotFound(t *testing.T) {
	svc, _ := newTestService(&mockTimeSlotService{})

	_, err := svc.Confirm(context.Background(), "missing")
	appErr := apperrors.AsAppError(err)
	if appErr.Code != apperrors.CodeNotFound {
		t.Errorf("error code = %q, want %q", appErr.Code, apperrors.CodeNotFound)
	}
}

func TestWizardService_Submit(t *testing.T) {
	var submitted *model.SlotBatch
	ts := &mockTimeSlotService{
		createFunc: func(_ context.Context, token string, batch *model.SlotBatch) (*client.BackendResponse, error) {
			if token != "tok-1" {
				t.Errorf("token = %q, want tok-1", token)
			}
			submitted = batch
			return &client.BackendResponse{
				StatusCode: 200,
				Body:       map[string]any{"success": true, "message": "ثبت شد"},
			}, nil
		},
	}
	svc, _ := newTestService(ts)
	ctx := context.Background()

	draft := advanceToSummary(t, svc)

	resp, draft, err := svc.Submit(ctx, "tok-1", draft.ID)
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if resp.Message() != "ثبت شد" {
		t.Errorf("message = %q", resp.Message())
	}
	if draft.State != fsm.StateSuccess {
		t.Errorf("state = %q, want %q", draft.State, fsm.StateSuccess)
	}
	if submitted == nil || len(submitted.Slots) != 8 {
		t.Fatalf("expected 8 submitted slots, got %+v", submitted)
	}
	if _, err := svc.Get(ctx, draft.ID); err == nil {
		t.Error("expected draft to be removed after submit")
	}
}

func TestWizardService_Submit_FailureKeepsSummary(t *testing.T) {
	calls := 0
	ts := &mockTimeSlotService{
		createFunc: func(context.Context, string, *model.SlotBatch) (*client.BackendResponse, error) {
			calls++
			if calls == 1 {
				return nil, apperrors.Upstream("ثبت نوبت ها با خطا مواجه شد")
			}
			return &client.BackendResponse{
				StatusCode: 200,
				Body:       map[string]any{"success": true, "message": "ثبت شد"},
			}, nil
		},
	}
	svc, _ := newTestService(ts)
	ctx := context.Background()

	draft := advanceToSummary(t, svc)

	if _, _, err := svc.Submit(ctx, "tok-1", draft.ID); err == nil {
		t.Fatal("expected first submit to fail")
	}

	stored, err := svc.Get(ctx, draft.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if stored.State != fsm.StateSummary {
		t.Fatalf("state after failed submit = %q, want %q", stored.State, fsm.StateSummary)
	}

	_, after, err := svc.Submit(ctx, "tok-1", draft.ID)
	if err != nil {
		t.Fatalf("retry Submit failed: %v", err)
	}
	if after.State != fsm.StateSuccess {
		t.Errorf("state after retry = %q, want %q", after.State, fsm.StateSuccess)
	}
}

func TestWizardService_Reset(t *testing.T) {
	svc, _ := newTestService(&mockTimeSlotService{})
	ctx := context.Background()

	draft := advanceToSummary(t, svc)

	reset, err := svc.Reset(ctx, draft.ID)
	if err != nil {
		t.Fatalf("Reset failed: %v", err)
	}
	if reset.State != fsm.StateDateSelection {
		t.Errorf("state = %q, want %q", reset.State, fsm.StateDateSelection)
	}
	if len(reset.Slots) != 0 {
		t.Errorf("slots after reset = %d, want 0", len(reset.Slots))
	}
}
