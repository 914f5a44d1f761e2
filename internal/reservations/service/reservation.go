package service

import (
	"context"
	"fmt"

	auditservice "laundromat/internal/audit/service"
	"laundromat/pkg/client"
	"laundromat/pkg/config"
	apperrors "laundromat/pkg/errors"
	"laundromat/pkg/events"
	"laundromat/pkg/model"
)

const (
	MsgRecentFailed = "دریافت رزروها با خطا مواجه شد"
	MsgCreateFailed = "ثبت رزرو با خطا مواجه شد"
	MsgManageFailed = "به‌روزرسانی رزرو با خطا مواجه شد"
	MsgCancelFailed = "لغو رزرو با خطا مواجه شد"
	MsgServerError  = "خطای سرور"
	MsgSlotRequired = "شناسه نوبت الزامی است"
	MsgIDRequired   = "شناسه رزرو الزامی است"
)

type TokenVerifier interface {
	VerifyToken(ctx context.Context, token string) (*model.User, error)
}

type ReservationService interface {
	Recent(ctx context.Context, token string) (*client.BackendResponse, error)
	Create(ctx context.Context, token, slotID string) (*client.BackendResponse, error)
	Manage(ctx context.Context, token, reservationID string, status model.ReservationStatus) (*client.BackendResponse, error)
	Cancel(ctx context.Context, token, reservationID string) (*client.BackendResponse, error)
}

type reservationService struct {
	verifier TokenVerifier
	audit    auditservice.AuditService
	producer *events.Producer
	cfg      *config.Config
}

func NewReservationService(
	verifier TokenVerifier,
	audit auditservice.AuditService,
	producer *events.Producer,
	cfg *config.Config,
) ReservationService {
	return &reservationService{
		verifier: verifier,
		audit:    audit,
		producer: producer,
		cfg:      cfg,
	}
}

func (s *reservationService) Recent(ctx context.Context, token string) (*client.BackendResponse, error) {
	resp, err := s.cfg.Client.Backend.GET(ctx, "/reservations/recent", token)
	if err != nil {
		s.cfg.Log.Error("Reservation fetch failed", "error", err)
		return nil, apperrors.Internal(MsgServerError, err)
	}
	if resp.Message() == "" {
		return nil, apperrors.Upstream(MsgRecentFailed)
	}
	return resp, nil
}

func (s *reservationService) Create(ctx context.Context, token, slotID string) (*client.BackendResponse, error) {
	if slotID == "" {
		return nil, apperrors.BadRequest(MsgSlotRequired)
	}

	resp, err := s.cfg.Client.Backend.POST(ctx, "/reservations/new", token, map[string]any{
		"slot_id": slotID,
	})
	if err != nil {
		s.cfg.Log.Error("Reservation create failed", "slot_id", slotID, "error", err)
		return nil, apperrors.Internal(MsgServerError, err)
	}
	if resp.Message() == "" {
		return nil, apperrors.Upstream(MsgCreateFailed)
	}

	s.producer.Publish(ctx, events.Event{
		Type:       events.TypeReservationCreated,
		Resource:   "reservation",
		ResourceID: slotID,
	})
	return resp, nil
}

// Manage moves a reservation along its lifecycle. The target status is
// checked against the known set before anything goes upstream; which
// transitions are legal from the current status stays the backend's
// call.
func (s *reservationService) Manage(ctx context.Context, token, reservationID string, status model.ReservationStatus) (*client.BackendResponse, error) {
	if reservationID == "" {
		return nil, apperrors.BadRequest(MsgIDRequired)
	}
	if !status.Valid() {
		return nil, apperrors.Validation(
			"وضعیت درخواستی معتبر نیست",
			map[string]any{"status": fmt.Sprintf("unknown status %q", status)},
		)
	}

	actor, err := s.verifier.VerifyToken(ctx, token)
	if err != nil {
		return nil, err
	}

	resp, err := s.cfg.Client.Backend.POST(ctx, "/reservations/manage", token, map[string]any{
		"reservation_id": reservationID,
		"status":         status,
	})
	if err != nil {
		s.cfg.Log.Error("Reservation manage failed", "reservation_id", reservationID, "error", err)
		return nil, apperrors.Internal(MsgServerError, err)
	}
	if resp.Message() == "" {
		return nil, apperrors.Upstream(MsgManageFailed)
	}

	s.audit.Record(ctx, model.AuditEntry{
		ActorID:    actor.ID,
		ActorRole:  actor.Role,
		Action:     "reservations.manage",
		Resource:   "reservation",
		ResourceID: reservationID,
		Detail:     map[string]any{"status": string(status)},
	})
	s.producer.Publish(ctx, events.Event{
		Type:       events.TypeReservationStatusChanged,
		Actor:      actor.ID,
		Resource:   "reservation",
		ResourceID: reservationID,
		Detail:     map[string]any{"status": string(status)},
	})
	return resp, nil
}

// Cancel forwards a cancellation. Only pending reservations are
// cancellable; the backend's rejection message for anything else is
// surfaced to the user verbatim.
func (s *reservationService) Cancel(ctx context.Context, token, reservationID string) (*client.BackendResponse, error) {
	if reservationID == "" {
		return nil, apperrors.BadRequest(MsgIDRequired)
	}

	resp, err := s.cfg.Client.Backend.POST(ctx, "/reservations/cancel", token, map[string]any{
		"reservation_id": reservationID,
	})
	if err != nil {
		s.cfg.Log.Error("Reservation cancel failed", "reservation_id", reservationID, "error", err)
		return nil, apperrors.Internal(MsgServerError, err)
	}
	if resp.Message() == "" {
		return nil, apperrors.Upstream(MsgCancelFailed)
	}

	s.producer.Publish(ctx, events.Event{
		Type:       events.TypeReservationCancelled,
		Resource:   "reservation",
		ResourceID: reservationID,
	})
	return resp, nil
}
