package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"laundromat/internal/reservations/service"
	"laundromat/pkg/httpx"
	"laundromat/pkg/logger"
	"laundromat/pkg/middleware"
	"laundromat/pkg/model"
)

const msgInvalidBody = "درخواست نامعتبر است"

type ReservationHandler struct {
	service service.ReservationService
	log     *logger.Logger
}

func NewReservationHandler(svc service.ReservationService, log *logger.Logger) *ReservationHandler {
	return &ReservationHandler{
		service: svc,
		log:     log,
	}
}

func (h *ReservationHandler) Recent(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	token := middleware.TokenFromContext(r.Context())

	resp, err := h.service.Recent(r.Context(), token)
	if err != nil {
		h.writeError(w, err, "Recent")
		return
	}
	h.forward(w, resp.Body, "Recent")
}

func (h *ReservationHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	token := middleware.TokenFromContext(r.Context())

	var req struct {
		SlotID string `json:"slot_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeFailure(w, http.StatusBadRequest, msgInvalidBody, "Create")
		return
	}

	resp, err := h.service.Create(r.Context(), token, req.SlotID)
	if err != nil {
		h.writeError(w, err, "Create")
		return
	}
	h.forward(w, resp.Body, "Create")
}

func (h *ReservationHandler) Manage(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	token := middleware.TokenFromContext(r.Context())

	var req struct {
		ReservationID string                  `json:"reservation_id"`
		Status        model.ReservationStatus `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeFailure(w, http.StatusBadRequest, msgInvalidBody, "Manage")
		return
	}

	resp, err := h.service.Manage(r.Context(), token, req.ReservationID, req.Status)
	if err != nil {
		h.writeError(w, err, "Manage")
		return
	}
	h.forward(w, resp.Body, "Manage")
}

func (h *ReservationHandler) Cancel(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	token := middleware.TokenFromContext(r.Context())

	var req struct {
		ReservationID string `json:"reservation_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeFailure(w, http.StatusBadRequest, msgInvalidBody, "Cancel")
		return
	}

	resp, err := h.service.Cancel(r.Context(), token, req.ReservationID)
	if err != nil {
		h.writeError(w, err, "Cancel")
		return
	}
	h.forward(w, resp.Body, "Cancel")
}

func (h *ReservationHandler) forward(w http.ResponseWriter, body map[string]any, op string) {
	if err := httpx.WriteUpstream(w, http.StatusOK, body); err != nil {
		h.log.Error("failed to write upstream response", "handler", op, "error", err)
	}
}

func (h *ReservationHandler) writeFailure(w http.ResponseWriter, status int, msg, op string) {
	if err := httpx.WriteFailure(w, status, msg); err != nil {
		h.log.Error("failed to write failure response", "handler", op, "error", err)
	}
}

func (h *ReservationHandler) writeError(w http.ResponseWriter, err error, op string) {
	if writeErr := httpx.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", op, "error", writeErr)
	}
}
