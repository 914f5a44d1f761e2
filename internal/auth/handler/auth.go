package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"

	"laundromat/internal/auth/service"
	"laundromat/pkg/config"
	"laundromat/pkg/httpx"
	"laundromat/pkg/logger"
	"laundromat/pkg/middleware"
	"laundromat/pkg/model"
)

const (
	MsgLogoutOK    = "خروج با موفقیت انجام شد"
	MsgInvalidBody = "درخواست نامعتبر است"
)

type AuthHandler struct {
	service service.AuthService
	cfg     *config.Config
	log     *logger.Logger
}

func NewAuthHandler(svc service.AuthService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		service: svc,
		cfg:     cfg,
		log:     cfg.Log,
	}
}

func (h *AuthHandler) SendCode(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req struct {
		Phone string `json:"phone"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeFailure(w, http.StatusBadRequest, MsgInvalidBody, "SendCode")
		return
	}

	resp, err := h.service.SendCode(r.Context(), req.Phone)
	if err != nil {
		h.writeError(w, err, "SendCode")
		return
	}
	h.forward(w, resp.Body, "SendCode")
}

func (h *AuthHandler) CheckCode(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req struct {
		Phone string `json:"phone"`
		Code  string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeFailure(w, http.StatusBadRequest, MsgInvalidBody, "CheckCode")
		return
	}

	resp, err := h.service.CheckCode(r.Context(), req.Phone, req.Code)
	if err != nil {
		h.writeError(w, err, "CheckCode")
		return
	}
	h.forward(w, resp.Body, "CheckCode")
}

// Login forwards the phone+code exchange and, when the backend hands
// back a user with a token, plants the auth cookie. Admin sessions get
// a shorter cookie than regular users.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req struct {
		Phone string `json:"phone"`
		Code  string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeFailure(w, http.StatusBadRequest, MsgInvalidBody, "Login")
		return
	}

	resp, user, err := h.service.Login(r.Context(), req.Phone, req.Code)
	if err != nil {
		h.writeError(w, err, "Login")
		return
	}

	if user != nil && user.Token != "" {
		h.setAuthCookie(w, user.Token, h.cookieTTL(user))
	}
	h.forward(w, resp.Body, "Login")
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req service.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeFailure(w, http.StatusBadRequest, MsgInvalidBody, "Register")
		return
	}

	resp, err := h.service.Register(r.Context(), &req)
	if err != nil {
		h.writeError(w, err, "Register")
		return
	}
	h.forward(w, resp.Body, "Register")
}

func (h *AuthHandler) VerifyToken(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	token := middleware.TokenFromContext(r.Context())

	resp, err := h.service.VerifyTokenRaw(r.Context(), token)
	if err != nil {
		h.writeError(w, err, "VerifyToken")
		return
	}
	h.forward(w, resp.Body, "VerifyToken")
}

// Logout clears the auth cookie. The token is opaque so there is no
// backend session to revoke; expiry is entirely cookie-side.
func (h *AuthHandler) Logout(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cfg.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   h.cfg.CookieSecure,
		SameSite: http.SameSiteStrictMode,
	})

	if err := httpx.WriteSuccess(w, MsgLogoutOK, nil); err != nil {
		h.log.Error("failed to write success response", "handler", "Logout", "error", err)
	}
}

func (h *AuthHandler) EditProfile(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	token := middleware.TokenFromContext(r.Context())

	var req service.ProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeFailure(w, http.StatusBadRequest, MsgInvalidBody, "EditProfile")
		return
	}

	resp, err := h.service.EditProfile(r.Context(), token, &req)
	if err != nil {
		h.writeError(w, err, "EditProfile")
		return
	}
	h.forward(w, resp.Body, "EditProfile")
}

func (h *AuthHandler) cookieTTL(user *model.User) time.Duration {
	if user.IsAdmin() {
		return h.cfg.AdminCookieTTL
	}
	return h.cfg.UserCookieTTL
}

func (h *AuthHandler) setAuthCookie(w http.ResponseWriter, token string, ttl time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cfg.CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   h.cfg.CookieSecure,
		SameSite: http.SameSiteStrictMode,
	})
}

func (h *AuthHandler) forward(w http.ResponseWriter, body map[string]any, op string) {
	if err := httpx.WriteUpstream(w, http.StatusOK, body); err != nil {
		h.log.Error("failed to write upstream response", "handler", op, "error", err)
	}
}

func (h *AuthHandler) writeFailure(w http.ResponseWriter, status int, msg, op string) {
	if err := httpx.WriteFailure(w, status, msg); err != nil {
		h.log.Error("failed to write failure response", "handler", op, "error", err)
	}
}

func (h *AuthHandler) writeError(w http.ResponseWriter, err error, op string) {
	if writeErr := httpx.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", op, "error", writeErr)
	}
}
