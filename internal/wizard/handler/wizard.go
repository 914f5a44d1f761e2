package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"laundromat/internal/wizard/fsm"
	"laundromat/internal/wizard/service"
	"laundromat/pkg/httpx"
	"laundromat/pkg/logger"
	"laundromat/pkg/middleware"
	"laundromat/pkg/model"
)

const msgInvalidBody = "درخواست نامعتبر است"

// Slot-review actions multiplexed over the /slots endpoint.
const (
	ActionToggle       = "toggle"
	ActionCapacity     = "capacity"
	ActionAddCustom    = "add_custom"
	ActionRemoveCustom = "remove_custom"
)

type WizardHandler struct {
	service service.WizardService
	log     *logger.Logger
}

func NewWizardHandler(svc service.WizardService, log *logger.Logger) *WizardHandler {
	return &WizardHandler{
		service: svc,
		log:     log,
	}
}

func (h *WizardHandler) Start(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	draft, err := h.service.Start(r.Context())
	if err != nil {
		h.writeError(w, err, "Start")
		return
	}
	h.writeDraft(w, draft, "Start")
}

func (h *WizardHandler) SelectDates(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req struct {
		DraftID string              `json:"draft_id"`
		Dates   model.DateSelection `json:"dates"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeFailure(w, http.StatusBadRequest, msgInvalidBody, "SelectDates")
		return
	}

	draft, err := h.service.SelectDates(r.Context(), req.DraftID, req.Dates)
	if err != nil {
		h.writeError(w, err, "SelectDates")
		return
	}
	h.writeDraft(w, draft, "SelectDates")
}

func (h *WizardHandler) SetWindow(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req struct {
		DraftID string     `json:"draft_id"`
		Window  fsm.Window `json:"window"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeFailure(w, http.StatusBadRequest, msgInvalidBody, "SetWindow")
		return
	}

	draft, err := h.service.SetWindow(r.Context(), req.DraftID, req.Window)
	if err != nil {
		h.writeError(w, err, "SetWindow")
		return
	}
	h.writeDraft(w, draft, "SetWindow")
}

// EditSlots multiplexes the slot-review actions: toggling, capacity
// changes, and adding or removing custom slots.
func (h *WizardHandler) EditSlots(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req struct {
		DraftID   string `json:"draft_id"`
		Action    string `json:"action"`
		SlotID    string `json:"slot_id,omitempty"`
		StartTime string `json:"start_time,omitempty"`
		EndTime   string `json:"end_time,omitempty"`
		Capacity  int    `json:"capacity,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeFailure(w, http.StatusBadRequest, msgInvalidBody, "EditSlots")
		return
	}

	var draft *fsm.Draft
	var err error
	switch req.Action {
	case ActionToggle:
		draft, err = h.service.ToggleSlot(r.Context(), req.DraftID, req.SlotID)
	case ActionCapacity:
		draft, err = h.service.SetSlotCapacity(r.Context(), req.DraftID, req.SlotID, req.Capacity)
	case ActionAddCustom:
		draft, err = h.service.AddCustomSlot(r.Context(), req.DraftID, req.StartTime, req.EndTime, req.Capacity)
	case ActionRemoveCustom:
		draft, err = h.service.RemoveCustomSlot(r.Context(), req.DraftID, req.SlotID)
	default:
		h.writeFailure(w, http.StatusBadRequest, msgInvalidBody, "EditSlots")
		return
	}
	if err != nil {
		h.writeError(w, err, "EditSlots")
		return
	}
	h.writeDraft(w, draft, "EditSlots")
}

func (h *WizardHandler) Confirm(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	id, ok := h.draftID(w, r, "Confirm")
	if !ok {
		return
	}

	draft, err := h.service.Confirm(r.Context(), id)
	if err != nil {
		h.writeError(w, err, "Confirm")
		return
	}
	h.writeDraft(w, draft, "Confirm")
}

func (h *WizardHandler) Summary(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	id := r.URL.Query().Get("draft_id")

	draft, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.writeError(w, err, "Summary")
		return
	}
	h.writeDraft(w, draft, "Summary")
}

func (h *WizardHandler) Back(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	id, ok := h.draftID(w, r, "Back")
	if !ok {
		return
	}

	draft, err := h.service.Back(r.Context(), id)
	if err != nil {
		h.writeError(w, err, "Back")
		return
	}
	h.writeDraft(w, draft, "Back")
}

func (h *WizardHandler) Reset(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	id, ok := h.draftID(w, r, "Reset")
	if !ok {
		return
	}

	draft, err := h.service.Reset(r.Context(), id)
	if err != nil {
		h.writeError(w, err, "Reset")
		return
	}
	h.writeDraft(w, draft, "Reset")
}

func (h *WizardHandler) Submit(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	token := middleware.TokenFromContext(r.Context())

	id, ok := h.draftID(w, r, "Submit")
	if !ok {
		return
	}

	resp, draft, err := h.service.Submit(r.Context(), token, id)
	if err != nil {
		h.writeError(w, err, "Submit")
		return
	}

	body := resp.Body
	if body == nil {
		body = map[string]any{}
	}
	body["draft"] = draft
	if err := httpx.WriteUpstream(w, http.StatusOK, body); err != nil {
		h.log.Error("failed to write upstream response", "handler", "Submit", "error", err)
	}
}

func (h *WizardHandler) draftID(w http.ResponseWriter, r *http.Request, op string) (string, bool) {
	var req struct {
		DraftID string `json:"draft_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeFailure(w, http.StatusBadRequest, msgInvalidBody, op)
		return "", false
	}
	return req.DraftID, true
}

func (h *WizardHandler) writeDraft(w http.ResponseWriter, draft *fsm.Draft, op string) {
	if err := httpx.WriteSuccess(w, "", map[string]any{"draft": draft}); err != nil {
		h.log.Error("failed to write success response", "handler", op, "error", err)
	}
}

func (h *WizardHandler) writeFailure(w http.ResponseWriter, status int, msg, op string) {
	if err := httpx.WriteFailure(w, status, msg); err != nil {
		h.log.Error("failed to write failure response", "handler", op, "error", err)
	}
}

func (h *WizardHandler) writeError(w http.ResponseWriter, err error, op string) {
	if writeErr := httpx.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", op, "error", writeErr)
	}
}
