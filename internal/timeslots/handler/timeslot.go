package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"laundromat/internal/timeslots/service"
	"laundromat/pkg/httpx"
	"laundromat/pkg/logger"
	"laundromat/pkg/middleware"
	"laundromat/pkg/model"
)

const msgInvalidBody = "درخواست نامعتبر است"

type TimeSlotHandler struct {
	service service.TimeSlotService
	log     *logger.Logger
}

func NewTimeSlotHandler(svc service.TimeSlotService, log *logger.Logger) *TimeSlotHandler {
	return &TimeSlotHandler{
		service: svc,
		log:     log,
	}
}

func (h *TimeSlotHandler) Get(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	token := middleware.TokenFromContext(r.Context())

	resp, err := h.service.Get(r.Context(), token)
	if err != nil {
		h.writeError(w, err, "Get")
		return
	}
	h.forward(w, resp.Body, "Get")
}

func (h *TimeSlotHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	token := middleware.TokenFromContext(r.Context())

	var req struct {
		SlotsData *model.SlotBatch `json:"slotsData"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeFailure(w, http.StatusBadRequest, msgInvalidBody, "Create")
		return
	}

	resp, err := h.service.Create(r.Context(), token, req.SlotsData)
	if err != nil {
		h.writeError(w, err, "Create")
		return
	}
	h.forward(w, resp.Body, "Create")
}

func (h *TimeSlotHandler) Edit(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	token := middleware.TokenFromContext(r.Context())

	var req service.EditRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeFailure(w, http.StatusBadRequest, msgInvalidBody, "Edit")
		return
	}

	resp, err := h.service.Edit(r.Context(), token, &req)
	if err != nil {
		h.writeError(w, err, "Edit")
		return
	}
	h.forward(w, resp.Body, "Edit")
}

func (h *TimeSlotHandler) Delete(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	token := middleware.TokenFromContext(r.Context())

	var req struct {
		SlotID string `json:"slot_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeFailure(w, http.StatusBadRequest, msgInvalidBody, "Delete")
		return
	}

	resp, err := h.service.Delete(r.Context(), token, req.SlotID)
	if err != nil {
		h.writeError(w, err, "Delete")
		return
	}
	h.forward(w, resp.Body, "Delete")
}

func (h *TimeSlotHandler) forward(w http.ResponseWriter, body map[string]any, op string) {
	if err := httpx.WriteUpstream(w, http.StatusOK, body); err != nil {
		h.log.Error("failed to write upstream response", "handler", op, "error", err)
	}
}

func (h *TimeSlotHandler) writeFailure(w http.ResponseWriter, status int, msg, op string) {
	if err := httpx.WriteFailure(w, status, msg); err != nil {
		h.log.Error("failed to write failure response", "handler", op, "error", err)
	}
}

func (h *TimeSlotHandler) writeError(w http.ResponseWriter, err error, op string) {
	if writeErr := httpx.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", op, "error", writeErr)
	}
}
