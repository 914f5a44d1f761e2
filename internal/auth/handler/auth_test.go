package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"laundromat/internal/auth/service"
	"laundromat/internal/auth/validator"
	"laundromat/pkg/client"
	"laundromat/pkg/config"
	"laundromat/pkg/logger"
)

func newTestConfig(backendURL string) *config.Config {
	log := logger.New(logger.Config{Level: "error"})
	cfg := &config.Config{
		CookieName:     "auth_token",
		CookieSecure:   true,
		UserCookieTTL:  7 * 24 * time.Hour,
		AdminCookieTTL: 24 * time.Hour,
		Log:            log,
		Client:         client.NewClient(),
	}
	cfg.Client.SetBackend(backendURL, "test-key", 2*time.Second)
	return cfg
}

func newTestHandler(backendURL string) *AuthHandler {
	cfg := newTestConfig(backendURL)
	svc := service.NewAuthService(validator.NewAuthValidator(cfg.Log), cfg)
	return NewAuthHandler(svc, cfg)
}

func findCookie(t *testing.T, rec *httptest.ResponseRecorder, name string) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not JSON: %v", err)
	}
	return body
}

func TestLogin_SetsUserCookie(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Api-Key"); got != "test-key" {
			t.Errorf("Api-Key header = %q, want test-key", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"message":"ورود موفق","user":{"id":"u1","role":"user","token":"tok-user"}}`))
	}))
	defer backend.Close()

	h := newTestHandler(backend.URL)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{"phone":"09123456789","code":"12345"}`))

	h.Login(rec, req, nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	cookie := findCookie(t, rec, "auth_token")
	if cookie == nil {
		t.Fatal("expected auth_token cookie")
	}
	if cookie.Value != "tok-user" {
		t.Errorf("cookie value = %q, want tok-user", cookie.Value)
	}
	if cookie.MaxAge != int((7 * 24 * time.Hour).Seconds()) {
		t.Errorf("cookie max-age = %d, want 7 days", cookie.MaxAge)
	}
	if !cookie.HttpOnly || !cookie.Secure {
		t.Error("cookie must be httpOnly and secure")
	}
	if cookie.SameSite != http.SameSiteStrictMode {
		t.Errorf("cookie samesite = %v, want strict", cookie.SameSite)
	}

	body := decodeBody(t, rec)
	if body["success"] != true {
		t.Errorf("success = %v, want true", body["success"])
	}
	if body["message"] != "ورود موفق" {
		t.Errorf("message = %v", body["message"])
	}
}

func TestLogin_AdminGetsShorterCookie(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"message":"ورود موفق","user":{"id":"a1","role":"admin-dormitory-1","token":"tok-admin"}}`))
	}))
	defer backend.Close()

	h := newTestHandler(backend.URL)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{"phone":"09123456789","code":"12345"}`))

	h.Login(rec, req, nil)

	cookie := findCookie(t, rec, "auth_token")
	if cookie == nil {
		t.Fatal("expected auth_token cookie")
	}
	if cookie.MaxAge != int((24 * time.Hour).Seconds()) {
		t.Errorf("admin cookie max-age = %d, want 24h", cookie.MaxAge)
	}
}

func TestLogin_EmptyBackendMessage(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"message":""}`))
	}))
	defer backend.Close()

	h := newTestHandler(backend.URL)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{"phone":"09123456789","code":"12345"}`))

	h.Login(rec, req, nil)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["message"] != service.MsgLoginFailed {
		t.Errorf("message = %v, want %q", body["message"], service.MsgLoginFailed)
	}
	if findCookie(t, rec, "auth_token") != nil {
		t.Error("no cookie may be set on a failed login")
	}
}

func TestLogin_BackendUnreachable(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	backend.Close() // connection refused from here on

	h := newTestHandler(backend.URL)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{"phone":"09123456789","code":"12345"}`))

	h.Login(rec, req, nil)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["message"] != service.MsgServerError {
		t.Errorf("message = %v, want %q", body["message"], service.MsgServerError)
	}
}

func TestLogin_MissingFields(t *testing.T) {
	calls := 0
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
	}))
	defer backend.Close()

	h := newTestHandler(backend.URL)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{"phone":"09123456789"}`))

	h.Login(rec, req, nil)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if calls != 0 {
		t.Error("missing fields must never reach the backend")
	}
	body := decodeBody(t, rec)
	if body["message"] != service.MsgPhoneCodeMissing {
		t.Errorf("message = %v, want %q", body["message"], service.MsgPhoneCodeMissing)
	}
}

func TestSendCode_ForwardsBackendReply(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]any
		_ = json.NewDecoder(r.Body).Decode(&payload)
		if payload["send"] != false {
			t.Errorf("send flag = %v, want false", payload["send"])
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"message":"کد ارسال شد"}`))
	}))
	defer backend.Close()

	h := newTestHandler(backend.URL)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/send-code", strings.NewReader(`{"phone":"09123456789"}`))

	h.SendCode(rec, req, nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["message"] != "کد ارسال شد" {
		t.Errorf("message = %v", body["message"])
	}
}

func TestSendCode_EmptyBackendMessage(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{}`))
	}))
	defer backend.Close()

	h := newTestHandler(backend.URL)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/send-code", strings.NewReader(`{"phone":"09123456789"}`))

	h.SendCode(rec, req, nil)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["message"] != service.MsgSendCodeFailed {
		t.Errorf("message = %v, want %q", body["message"], service.MsgSendCodeFailed)
	}
}

func TestLogout_ClearsCookie(t *testing.T) {
	h := newTestHandler("http://127.0.0.1:0")
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)

	h.Logout(rec, req, nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	cookie := findCookie(t, rec, "auth_token")
	if cookie == nil {
		t.Fatal("expected a clearing auth_token cookie")
	}
	if cookie.Value != "" || cookie.MaxAge >= 0 {
		t.Errorf("cookie not cleared: value=%q max-age=%d", cookie.Value, cookie.MaxAge)
	}

	body := decodeBody(t, rec)
	if body["message"] != MsgLogoutOK {
		t.Errorf("message = %v, want %q", body["message"], MsgLogoutOK)
	}
}

func TestRegister_ValidationBeforeNetwork(t *testing.T) {
	calls := 0
	backend := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		calls++
	}))
	defer backend.Close()

	h := newTestHandler(backend.URL)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register",
		strings.NewReader(`{"first_name":"a","last_name":"Tehrani","phone":"12345","student_id":"abc","dormitory":"dorm-9"}`))

	h.Register(rec, req, nil)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
	if calls != 0 {
		t.Error("invalid registration must never reach the backend")
	}

	body := decodeBody(t, rec)
	details, ok := body["details"].(map[string]any)
	if !ok {
		t.Fatal("expected field details in validation response")
	}
	for _, field := range []string{"FirstName", "Phone", "StudentID", "Dormitory"} {
		if _, ok := details[field]; !ok {
			t.Errorf("expected detail for field %s", field)
		}
	}
}
