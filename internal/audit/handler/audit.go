package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"

	"laundromat/internal/audit/service"
	apperrors "laundromat/pkg/errors"
	"laundromat/pkg/httpx"
	"laundromat/pkg/logger"
	"laundromat/pkg/middleware"
	"laundromat/pkg/model"
)

const msgForbidden = "دسترسی غیرمجاز"

type TokenVerifier interface {
	VerifyToken(ctx context.Context, token string) (*model.User, error)
}

type AuditHandler struct {
	service  service.AuditService
	verifier TokenVerifier
	log      *logger.Logger
}

func NewAuditHandler(svc service.AuditService, verifier TokenVerifier, log *logger.Logger) *AuditHandler {
	return &AuditHandler{
		service:  svc,
		verifier: verifier,
		log:      log,
	}
}

// List returns the most recent audit entries, newest first. Admin
// only; the role comes from resolving the session token upstream.
func (h *AuditHandler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	token := middleware.TokenFromContext(r.Context())

	user, err := h.verifier.VerifyToken(r.Context(), token)
	if err != nil {
		h.writeError(w, err, "List")
		return
	}
	if !user.IsAdmin() {
		h.writeError(w, apperrors.Forbidden(msgForbidden), "List")
		return
	}

	query := r.URL.Query()
	limit, _ := strconv.Atoi(query.Get("limit"))
	offset, _ := strconv.ParseInt(query.Get("offset"), 10, 64)

	entries, total, err := h.service.List(r.Context(), limit, offset)
	if err != nil {
		h.writeError(w, err, "List")
		return
	}

	if err := httpx.WriteSuccess(w, "", map[string]any{
		"entries": entries,
		"total":   total,
	}); err != nil {
		h.log.Error("failed to write success response", "handler", "List", "error", err)
	}
}

func (h *AuditHandler) writeError(w http.ResponseWriter, err error, op string) {
	if writeErr := httpx.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", op, "error", writeErr)
	}
}
