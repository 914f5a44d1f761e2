package httpx

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	apperrors "laundromat/pkg/errors"
)

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not JSON: %v", err)
	}
	return body
}

func TestWriteSuccess_MergesPayload(t *testing.T) {
	rec := httptest.NewRecorder()
	if err := WriteSuccess(rec, "انجام شد", map[string]any{"user": map[string]any{"id": "u1"}}); err != nil {
		t.Fatalf("WriteSuccess returned error: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	body := decode(t, rec)
	if body["success"] != true {
		t.Errorf("success = %v, want true", body["success"])
	}
	if body["message"] != "انجام شد" {
		t.Errorf("message = %v", body["message"])
	}
	if _, ok := body["user"]; !ok {
		t.Error("payload keys must sit next to the envelope fields")
	}
}

func TestWriteSuccess_NoMessage(t *testing.T) {
	rec := httptest.NewRecorder()
	if err := WriteSuccess(rec, "", nil); err != nil {
		t.Fatalf("WriteSuccess returned error: %v", err)
	}

	body := decode(t, rec)
	if _, ok := body["message"]; ok {
		t.Error("empty message must be omitted")
	}
}

func TestWriteFailure(t *testing.T) {
	rec := httptest.NewRecorder()
	if err := WriteFailure(rec, http.StatusBadRequest, "کوکی‌ای وجود ندارد"); err != nil {
		t.Fatalf("WriteFailure returned error: %v", err)
	}

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	body := decode(t, rec)
	if body["success"] != false {
		t.Errorf("success = %v, want false", body["success"])
	}
}

func TestWriteError_MapsAppError(t *testing.T) {
	rec := httptest.NewRecorder()
	err := apperrors.Validation("اطلاعات نامعتبر", map[string]any{"phone": "is required"})
	if writeErr := WriteError(rec, err); writeErr != nil {
		t.Fatalf("WriteError returned error: %v", writeErr)
	}

	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422", rec.Code)
	}
	body := decode(t, rec)
	if _, ok := body["details"]; !ok {
		t.Error("validation details must be included")
	}
}

func TestWriteError_WrapsUnknownError(t *testing.T) {
	rec := httptest.NewRecorder()
	if writeErr := WriteError(rec, json.Unmarshal([]byte("x"), &struct{}{})); writeErr != nil {
		t.Fatalf("WriteError returned error: %v", writeErr)
	}

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
}

func TestWriteUpstream_ForcesSuccessKey(t *testing.T) {
	rec := httptest.NewRecorder()
	if err := WriteUpstream(rec, http.StatusOK, map[string]any{"message": "ok"}); err != nil {
		t.Fatalf("WriteUpstream returned error: %v", err)
	}

	body := decode(t, rec)
	if body["success"] != true {
		t.Errorf("success = %v, want true for 2xx without explicit flag", body["success"])
	}
}

func TestWriteUpstream_KeepsExplicitSuccess(t *testing.T) {
	rec := httptest.NewRecorder()
	if err := WriteUpstream(rec, http.StatusOK, map[string]any{"success": false, "message": "نه"}); err != nil {
		t.Fatalf("WriteUpstream returned error: %v", err)
	}

	body := decode(t, rec)
	if body["success"] != false {
		t.Errorf("success = %v, explicit flag must be kept", body["success"])
	}
}

func TestWriteUpstream_NilBody(t *testing.T) {
	rec := httptest.NewRecorder()
	if err := WriteUpstream(rec, http.StatusOK, nil); err != nil {
		t.Fatalf("WriteUpstream returned error: %v", err)
	}

	body := decode(t, rec)
	if body["success"] != true {
		t.Errorf("success = %v, want true", body["success"])
	}
}
