package service

import (
	"context"

	auditservice "laundromat/internal/audit/service"
	"laundromat/internal/timeslots/validator"
	"laundromat/pkg/client"
	"laundromat/pkg/config"
	apperrors "laundromat/pkg/errors"
	"laundromat/pkg/events"
	"laundromat/pkg/model"
)

const (
	MsgGetFailed    = "دریافت نوبت ها با خطا مواجه شد"
	MsgCreateFailed = "ثبت نوبت ها با خطا مواجه شد"
	MsgEditFailed   = "ویرایش نوبت با خطا مواجه شد"
	MsgDeleteFailed = "حذف نوبت با خطا مواجه شد"
	MsgServerError  = "خطای سرور"
	MsgBatchMissing = "خطا در دریافت اطلاعات نوبت ها"
	MsgSlotMissing  = "خطا در دریافت اطلاعات نوبت"
)

// TokenVerifier resolves the session token to a user, used to stamp
// the audit trail on admin mutations.
type TokenVerifier interface {
	VerifyToken(ctx context.Context, token string) (*model.User, error)
}

type EditRequest struct {
	SlotID    string `json:"slot_id"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Capacity  int    `json:"capacity,omitempty"`
}

type TimeSlotService interface {
	Get(ctx context.Context, token string) (*client.BackendResponse, error)
	Create(ctx context.Context, token string, batch *model.SlotBatch) (*client.BackendResponse, error)
	Edit(ctx context.Context, token string, req *EditRequest) (*client.BackendResponse, error)
	Delete(ctx context.Context, token, slotID string) (*client.BackendResponse, error)
}

type timeSlotService struct {
	validator *validator.TimeSlotValidator
	verifier  TokenVerifier
	audit     auditservice.AuditService
	producer  *events.Producer
	cfg       *config.Config
}

func NewTimeSlotService(
	v *validator.TimeSlotValidator,
	verifier TokenVerifier,
	audit auditservice.AuditService,
	producer *events.Producer,
	cfg *config.Config,
) TimeSlotService {
	return &timeSlotService{
		validator: v,
		verifier:  verifier,
		audit:     audit,
		producer:  producer,
		cfg:       cfg,
	}
}

func (s *timeSlotService) Get(ctx context.Context, token string) (*client.BackendResponse, error) {
	resp, err := s.cfg.Client.Backend.GET(ctx, "/timeslots/get", token)
	if err != nil {
		s.cfg.Log.Error("Timeslot fetch failed", "error", err)
		return nil, apperrors.Internal(MsgServerError, err)
	}
	if resp.Message() == "" {
		return nil, apperrors.Upstream(MsgGetFailed)
	}
	return resp, nil
}

// Create forwards a whole slot batch. The batch is validated locally
// first so a malformed schedule never reaches the backend.
func (s *timeSlotService) Create(ctx context.Context, token string, batch *model.SlotBatch) (*client.BackendResponse, error) {
	if batch == nil || len(batch.Slots) == 0 {
		return nil, apperrors.BadRequest(MsgBatchMissing)
	}
	if err := s.validator.ValidateBatch(batch); err != nil {
		return nil, validationError(err)
	}

	actor, err := s.verifier.VerifyToken(ctx, token)
	if err != nil {
		return nil, err
	}

	resp, err := s.cfg.Client.Backend.POST(ctx, "/timeslots/new", token, batch)
	if err != nil {
		s.cfg.Log.Error("Timeslot batch submit failed", "error", err)
		return nil, apperrors.Internal(MsgServerError, err)
	}
	if resp.Message() == "" {
		return nil, apperrors.Upstream(MsgCreateFailed)
	}

	s.recordMutation(ctx, actor, "timeslots.create", "", map[string]any{
		"mode":       batch.Dates.Mode,
		"slot_count": len(batch.Slots),
	})
	s.producer.Publish(ctx, events.Event{
		Type:       events.TypeSlotBatchSubmitted,
		Actor:      actor.ID,
		Resource:   "slot_batch",
		ResourceID: actor.AdminDormitory(),
		Detail:     map[string]any{"slot_count": len(batch.Slots)},
	})

	s.cfg.Log.Info("Slot batch submitted",
		"actor_id", actor.ID,
		"mode", batch.Dates.Mode,
		"slot_count", len(batch.Slots),
	)
	return resp, nil
}

func (s *timeSlotService) Edit(ctx context.Context, token string, req *EditRequest) (*client.BackendResponse, error) {
	if req.StartTime == "" || req.EndTime == "" {
		return nil, apperrors.BadRequest(MsgSlotMissing)
	}
	if err := s.validator.ValidateTimes(req.StartTime, req.EndTime); err != nil {
		return nil, validationError(err)
	}

	actor, err := s.verifier.VerifyToken(ctx, token)
	if err != nil {
		return nil, err
	}

	resp, err := s.cfg.Client.Backend.POST(ctx, "/timeslots/edit", token, req)
	if err != nil {
		s.cfg.Log.Error("Timeslot edit failed", "slot_id", req.SlotID, "error", err)
		return nil, apperrors.Internal(MsgServerError, err)
	}
	if resp.Message() == "" {
		return nil, apperrors.Upstream(MsgEditFailed)
	}

	s.recordMutation(ctx, actor, "timeslots.edit", req.SlotID, map[string]any{
		"start_time": req.StartTime,
		"end_time":   req.EndTime,
	})
	return resp, nil
}

// Delete deactivates a slot backend-side. Generated slots are never
// hard-deleted, so "delete" always means deactivate.
func (s *timeSlotService) Delete(ctx context.Context, token, slotID string) (*client.BackendResponse, error) {
	if slotID == "" {
		return nil, apperrors.BadRequest(MsgSlotMissing)
	}

	actor, err := s.verifier.VerifyToken(ctx, token)
	if err != nil {
		return nil, err
	}

	resp, err := s.cfg.Client.Backend.POST(ctx, "/timeslots/delete", token, map[string]any{
		"slot_id": slotID,
	})
	if err != nil {
		s.cfg.Log.Error("Timeslot delete failed", "slot_id", slotID, "error", err)
		return nil, apperrors.Internal(MsgServerError, err)
	}
	if resp.Message() == "" {
		return nil, apperrors.Upstream(MsgDeleteFailed)
	}

	s.recordMutation(ctx, actor, "timeslots.delete", slotID, nil)
	return resp, nil
}

func (s *timeSlotService) recordMutation(ctx context.Context, actor *model.User, action, resourceID string, detail map[string]any) {
	s.audit.Record(ctx, model.AuditEntry{
		ActorID:    actor.ID,
		ActorRole:  actor.Role,
		Action:     action,
		Resource:   "timeslot",
		ResourceID: resourceID,
		Detail:     detail,
	})
}

func validationError(err error) error {
	var details map[string]any
	if vErrs, ok := err.(validator.ValidationErrors); ok {
		fields := make(map[string]any, len(vErrs))
		for _, ve := range vErrs {
			fields[ve.Field] = ve.Message
		}
		details = fields
	}
	return apperrors.Validation("اطلاعات نوبت معتبر نیست", details)
}
