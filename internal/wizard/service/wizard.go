package service

import (
	"context"
	"errors"

	tsservice "laundromat/internal/timeslots/service"
	wizarderrors "laundromat/internal/wizard/errors"
	"laundromat/internal/wizard/fsm"
	"laundromat/internal/wizard/repository"
	"laundromat/internal/wizard/validator"
	"laundromat/pkg/client"
	"laundromat/pkg/config"
	apperrors "laundromat/pkg/errors"
	"laundromat/pkg/jalali"
	"laundromat/pkg/model"
)

const (
	MsgDraftNotFound = "پیش‌نویس یافت نشد"
	MsgWrongState    = "این عملیات در مرحله فعلی مجاز نیست"
	MsgSlotNotFound  = "نوبت مورد نظر یافت نشد"
	MsgNotCustom     = "فقط نوبت‌های سفارشی قابل حذف هستند"
	MsgNoActiveSlots = "حداقل یک نوبت فعال لازم است"
	MsgWindowOrder   = "زمان پایان باید بعد از زمان شروع باشد"
	MsgWindowShort   = "بازه زمانی برای حداقل یک نوبت کافی نیست"
	MsgBadCapacity   = "ظرفیت نامعتبر است"
	MsgBadTime       = "قالب زمان باید HH:MM باشد"
	MsgBadDates      = "بازه تاریخ معتبر نیست"
	MsgBadJalali     = "تاریخ شمسی معتبر نیست"
	MsgServerError   = "خطای سرور"
)

type WizardService interface {
	Start(ctx context.Context) (*fsm.Draft, error)
	Get(ctx context.Context, id string) (*fsm.Draft, error)
	SelectDates(ctx context.Context, id string, sel model.DateSelection) (*fsm.Draft, error)
	SetWindow(ctx context.Context, id string, w fsm.Window) (*fsm.Draft, error)
	ToggleSlot(ctx context.Context, id, slotID string) (*fsm.Draft, error)
	SetSlotCapacity(ctx context.Context, id, slotID string, capacity int) (*fsm.Draft, error)
	AddCustomSlot(ctx context.Context, id, startTime, endTime string, capacity int) (*fsm.Draft, error)
	RemoveCustomSlot(ctx context.Context, id, slotID string) (*fsm.Draft, error)
	Confirm(ctx context.Context, id string) (*fsm.Draft, error)
	Back(ctx context.Context, id string) (*fsm.Draft, error)
	Reset(ctx context.Context, id string) (*fsm.Draft, error)
	Submit(ctx context.Context, token, id string) (*client.BackendResponse, *fsm.Draft, error)
}

type wizardService struct {
	repo      repository.DraftRepository
	validator *validator.WizardValidator
	timeslots tsservice.TimeSlotService
	cfg       *config.Config
	limits    fsm.Limits
}

func NewWizardService(
	repo repository.DraftRepository,
	v *validator.WizardValidator,
	timeslots tsservice.TimeSlotService,
	cfg *config.Config,
) WizardService {
	return &wizardService{
		repo:      repo,
		validator: v,
		timeslots: timeslots,
		cfg:       cfg,
		limits: fsm.Limits{
			SlotDuration:      cfg.SlotDurationMin,
			MaxCapacity:       cfg.MaxSlotCapacity,
			MaxCustomCapacity: cfg.MaxCustomCapacity,
		},
	}
}

func (s *wizardService) Start(ctx context.Context) (*fsm.Draft, error) {
	draft := fsm.NewDraft()
	if err := s.repo.Save(ctx, draft); err != nil {
		return nil, apperrors.Internal(MsgServerError, err)
	}

	s.cfg.Log.Info("Wizard draft started", "draft_id", draft.ID)
	return draft, nil
}

func (s *wizardService) Get(ctx context.Context, id string) (*fsm.Draft, error) {
	return s.load(ctx, id)
}

func (s *wizardService) SelectDates(ctx context.Context, id string, sel model.DateSelection) (*fsm.Draft, error) {
	if err := s.validator.ValidateDates(&sel); err != nil {
		return nil, fieldError(err)
	}
	return s.apply(ctx, id, func(d *fsm.Draft) error {
		return d.SelectDates(sel)
	})
}

func (s *wizardService) SetWindow(ctx context.Context, id string, w fsm.Window) (*fsm.Draft, error) {
	if err := s.validator.ValidateWindow(&w); err != nil {
		return nil, fieldError(err)
	}
	return s.apply(ctx, id, func(d *fsm.Draft) error {
		return d.SetWindow(w, s.limits)
	})
}

func (s *wizardService) ToggleSlot(ctx context.Context, id, slotID string) (*fsm.Draft, error) {
	return s.apply(ctx, id, func(d *fsm.Draft) error {
		return d.ToggleSlot(slotID)
	})
}

func (s *wizardService) SetSlotCapacity(ctx context.Context, id, slotID string, capacity int) (*fsm.Draft, error) {
	return s.apply(ctx, id, func(d *fsm.Draft) error {
		return d.SetSlotCapacity(slotID, capacity, s.limits)
	})
}

func (s *wizardService) AddCustomSlot(ctx context.Context, id, startTime, endTime string, capacity int) (*fsm.Draft, error) {
	return s.apply(ctx, id, func(d *fsm.Draft) error {
		return d.AddCustomSlot(startTime, endTime, capacity, s.limits)
	})
}

func (s *wizardService) RemoveCustomSlot(ctx context.Context, id, slotID string) (*fsm.Draft, error) {
	return s.apply(ctx, id, func(d *fsm.Draft) error {
		return d.RemoveCustomSlot(slotID)
	})
}

func (s *wizardService) Confirm(ctx context.Context, id string) (*fsm.Draft, error) {
	return s.apply(ctx, id, func(d *fsm.Draft) error {
		return d.Confirm()
	})
}

func (s *wizardService) Back(ctx context.Context, id string) (*fsm.Draft, error) {
	return s.apply(ctx, id, func(d *fsm.Draft) error {
		return d.Back()
	})
}

func (s *wizardService) Reset(ctx context.Context, id string) (*fsm.Draft, error) {
	return s.apply(ctx, id, func(d *fsm.Draft) error {
		d.Reset()
		return nil
	})
}

// Submit sends the assembled batch upstream. Only a confirmed backend
// success advances the draft; on any failure it stays on the summary
// step so the admin can retry without re-entering anything.
func (s *wizardService) Submit(ctx context.Context, token, id string) (*client.BackendResponse, *fsm.Draft, error) {
	draft, err := s.load(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	batch, err := draft.Batch()
	if err != nil {
		return nil, nil, mapDraftError(err)
	}

	resp, err := s.timeslots.Create(ctx, token, batch)
	if err != nil {
		return nil, draft, err
	}

	if err := draft.MarkSubmitted(); err != nil {
		return nil, nil, mapDraftError(err)
	}
	// The draft is consumed on success; only the returned snapshot
	// carries the final state.
	if err := s.repo.Delete(ctx, draft.ID); err != nil {
		return nil, nil, apperrors.Internal(MsgServerError, err)
	}

	s.cfg.Log.Info("Wizard draft submitted",
		"draft_id", draft.ID,
		"slot_count", len(batch.Slots),
	)
	return resp, draft, nil
}

func (s *wizardService) apply(ctx context.Context, id string, fn func(*fsm.Draft) error) (*fsm.Draft, error) {
	draft, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := fn(draft); err != nil {
		return nil, mapDraftError(err)
	}

	if err := s.repo.Save(ctx, draft); err != nil {
		return nil, apperrors.Internal(MsgServerError, err)
	}
	return draft, nil
}

func (s *wizardService) load(ctx context.Context, id string) (*fsm.Draft, error) {
	if id == "" {
		return nil, apperrors.BadRequest(MsgDraftNotFound)
	}

	draft, err := s.repo.Find(ctx, id)
	if err != nil {
		if errors.Is(err, wizarderrors.ErrDraftNotFound) {
			return nil, apperrors.NotFound(MsgDraftNotFound)
		}
		return nil, apperrors.Internal(MsgServerError, err)
	}
	return draft, nil
}

func mapDraftError(err error) error {
	switch {
	case errors.Is(err, wizarderrors.ErrWrongState):
		return apperrors.BadRequest(MsgWrongState)
	case errors.Is(err, wizarderrors.ErrSlotNotFound):
		return apperrors.NotFound(MsgSlotNotFound)
	case errors.Is(err, wizarderrors.ErrNotCustom):
		return apperrors.BadRequest(MsgNotCustom)
	case errors.Is(err, wizarderrors.ErrNoActiveSlots):
		return apperrors.Validation(MsgNoActiveSlots, nil)
	case errors.Is(err, wizarderrors.ErrWindowOrder):
		return apperrors.Validation(MsgWindowOrder, nil)
	case errors.Is(err, wizarderrors.ErrWindowShort):
		return apperrors.Validation(MsgWindowShort, nil)
	case errors.Is(err, wizarderrors.ErrCapacity):
		return apperrors.Validation(MsgBadCapacity, nil)
	case errors.Is(err, wizarderrors.ErrTimeFormat):
		return apperrors.Validation(MsgBadTime, nil)
	case errors.Is(err, wizarderrors.ErrDatesMissing), errors.Is(err, wizarderrors.ErrDateRange):
		return apperrors.Validation(MsgBadDates, nil)
	case errors.Is(err, jalali.ErrFormat), errors.Is(err, jalali.ErrDate):
		return apperrors.Validation(MsgBadJalali, nil)
	default:
		return apperrors.Internal(MsgServerError, err)
	}
}

func fieldError(err error) error {
	var details map[string]any
	if vErrs, ok := err.(validator.ValidationErrors); ok {
		fields := make(map[string]any, len(vErrs))
		for _, ve := range vErrs {
			fields[ve.Field] = ve.Message
		}
		details = fields
	}
	return apperrors.Validation("اطلاعات وارد شده معتبر نیست", details)
}
