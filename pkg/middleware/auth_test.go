package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/julienschmidt/httprouter"
)

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not JSON: %v", err)
	}
	return body
}

func TestAuthCookie_NoCookieHeader(t *testing.T) {
	called := false
	handler := AuthCookie("auth_token")(func(http.ResponseWriter, *http.Request, httprouter.Params) {
		called = true
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/timeslots/get", nil)

	handler(rec, req, nil)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if called {
		t.Error("handler must not run without a cookie header")
	}

	body := decodeBody(t, rec)
	if body["message"] != MsgNoCookie {
		t.Errorf("message = %v, want %q", body["message"], MsgNoCookie)
	}
	if body["success"] != false {
		t.Errorf("success = %v, want false", body["success"])
	}
}

func TestAuthCookie_TokenMissing(t *testing.T) {
	tests := []struct {
		name   string
		cookie string
	}{
		{name: "other cookie only", cookie: "theme=dark"},
		{name: "empty token", cookie: "auth_token="},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			handler := AuthCookie("auth_token")(func(http.ResponseWriter, *http.Request, httprouter.Params) {
				called = true
			})

			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/api/timeslots/get", nil)
			req.Header.Set("Cookie", tt.cookie)

			handler(rec, req, nil)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rec.Code)
			}
			if called {
				t.Error("handler must not run without a token")
			}

			body := decodeBody(t, rec)
			if body["message"] != MsgTokenNotFound {
				t.Errorf("message = %v, want %q", body["message"], MsgTokenNotFound)
			}
		})
	}
}

func TestAuthCookie_TokenInContext(t *testing.T) {
	var got string
	handler := AuthCookie("auth_token")(func(_ http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		got = TokenFromContext(r.Context())
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/timeslots/get", nil)
	req.AddCookie(&http.Cookie{Name: "auth_token", Value: "tok-123"})
	req.AddCookie(&http.Cookie{Name: "theme", Value: "dark"})

	handler(rec, req, nil)

	if got != "tok-123" {
		t.Errorf("token in context = %q, want tok-123", got)
	}
}

func TestTokenFromContext_Empty(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if got := TokenFromContext(req.Context()); got != "" {
		t.Errorf("token = %q, want empty", got)
	}
}
