package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	apperrors "laundromat/pkg/errors"
	"laundromat/pkg/logger"
	"laundromat/pkg/middleware"
	"laundromat/pkg/model"
)

type mockVerifier struct {
	verifyFunc func(ctx context.Context, token string) (*model.User, error)
}

func (m *mockVerifier) VerifyToken(ctx context.Context, token string) (*model.User, error) {
	return m.verifyFunc(ctx, token)
}

type mockAuditService struct {
	listFunc func(ctx context.Context, limit int, offset int64) ([]*model.AuditEntry, int64, error)
}

func (m *mockAuditService) Record(context.Context, model.AuditEntry) {}

func (m *mockAuditService) List(ctx context.Context, limit int, offset int64) ([]*model.AuditEntry, int64, error) {
	return m.listFunc(ctx, limit, offset)
}

func newAuditRequest(token string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/api/admin/audit?limit=5&offset=0", nil)
	ctx := context.WithValue(req.Context(), middleware.TokenKey, token)
	return req.WithContext(ctx)
}

func TestAuditList_AdminOnly(t *testing.T) {
	verifier := &mockVerifier{
		verifyFunc: func(_ context.Context, token string) (*model.User, error) {
			if token != "tok-user" {
				t.Errorf("token = %q, want tok-user", token)
			}
			return &model.User{ID: "u-1", Role: "user"}, nil
		},
	}
	svc := &mockAuditService{
		listFunc: func(context.Context, int, int64) ([]*model.AuditEntry, int64, error) {
			t.Fatal("service must not be called for non-admins")
			return nil, 0, nil
		},
	}
	log := logger.New(logger.Config{Level: "error"})
	h := NewAuditHandler(svc, verifier, log)

	rec := httptest.NewRecorder()
	h.List(rec, newAuditRequest("tok-user"), nil)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusForbidden)
	}
	var body map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body["success"] != false {
		t.Errorf("success = %v, want false", body["success"])
	}
	if body["message"] != msgForbidden {
		t.Errorf("message = %q, want %q", body["message"], msgForbidden)
	}
}

func TestAuditList_ReturnsEntries(t *testing.T) {
	verifier := &mockVerifier{
		verifyFunc: func(context.Context, string) (*model.User, error) {
			return &model.User{ID: "a-1", Role: model.RoleAdmin}, nil
		},
	}
	svc := &mockAuditService{
		listFunc: func(_ context.Context, limit int, offset int64) ([]*model.AuditEntry, int64, error) {
			if limit != 5 || offset != 0 {
				t.Errorf("pagination = (%d, %d), want (5, 0)", limit, offset)
			}
			return []*model.AuditEntry{
				{ID: "e-1", ActorID: "a-1", Action: "timeslots.create"},
			}, 12, nil
		},
	}
	log := logger.New(logger.Config{Level: "error"})
	h := NewAuditHandler(svc, verifier, log)

	rec := httptest.NewRecorder()
	h.List(rec, newAuditRequest("tok-admin"), nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	var body map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body["success"] != true {
		t.Errorf("success = %v, want true", body["success"])
	}
	if body["total"] != float64(12) {
		t.Errorf("total = %v, want 12", body["total"])
	}
	entries, ok := body["entries"].([]any)
	if !ok || len(entries) != 1 {
		t.Fatalf("entries = %v, want one entry", body["entries"])
	}
}

func TestAuditList_VerifierErrorSurfaces(t *testing.T) {
	verifier := &mockVerifier{
		verifyFunc: func(context.Context, string) (*model.User, error) {
			return nil, apperrors.Upstream("خطا در تأیید توکن")
		},
	}
	svc := &mockAuditService{
		listFunc: func(context.Context, int, int64) ([]*model.AuditEntry, int64, error) {
			t.Fatal("service must not be called when verification fails")
			return nil, 0, nil
		},
	}
	log := logger.New(logger.Config{Level: "error"})
	h := NewAuditHandler(svc, verifier, log)

	rec := httptest.NewRecorder()
	h.List(rec, newAuditRequest("tok-bad"), nil)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestAuditList_ServiceErrorSurfaces(t *testing.T) {
	verifier := &mockVerifier{
		verifyFunc: func(context.Context, string) (*model.User, error) {
			return &model.User{ID: "a-1", Role: model.RoleAdminDorm1}, nil
		},
	}
	svc := &mockAuditService{
		listFunc: func(context.Context, int, int64) ([]*model.AuditEntry, int64, error) {
			return nil, 0, apperrors.Internal("خطای سرور", errors.New("mongo down"))
		},
	}
	log := logger.New(logger.Config{Level: "error"})
	h := NewAuditHandler(svc, verifier, log)

	rec := httptest.NewRecorder()
	h.List(rec, newAuditRequest("tok-admin"), nil)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusInternalServerError)
	}
}
