package httpx

import (
	"encoding/json"
	"net/http"

	apperrors "laundromat/pkg/errors"
)

// Every browser-facing response uses the same JSON envelope:
// {"success": bool, "message": "...", ...payload}. Payload keys sit next
// to the envelope fields, matching what the frontend destructures.

func WriteJSON(w http.ResponseWriter, statusCode int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(data)
}

// WriteSuccess writes success:true with optional payload keys merged in.
func WriteSuccess(w http.ResponseWriter, message string, payload map[string]any) error {
	body := map[string]any{"success": true}
	if message != "" {
		body["message"] = message
	}
	for k, v := range payload {
		body[k] = v
	}
	return WriteJSON(w, http.StatusOK, body)
}

// WriteFailure writes success:false with a localized message.
func WriteFailure(w http.ResponseWriter, statusCode int, message string) error {
	return WriteJSON(w, statusCode, map[string]any{
		"success": false,
		"message": message,
	})
}

// WriteError maps an error (normally an *AppError) onto the envelope.
func WriteError(w http.ResponseWriter, err error) error {
	appErr := apperrors.AsAppError(err)
	body := map[string]any{
		"success": false,
		"message": appErr.Message,
	}
	if len(appErr.Details) > 0 {
		body["details"] = appErr.Details
	}
	return WriteJSON(w, appErr.StatusCode(), body)
}

// WriteUpstream forwards a decoded backend envelope unchanged, with
// success forced present so the frontend can always destructure it.
func WriteUpstream(w http.ResponseWriter, statusCode int, body map[string]any) error {
	if body == nil {
		body = map[string]any{}
	}
	if _, ok := body["success"]; !ok {
		body["success"] = statusCode < 300
	}
	return WriteJSON(w, statusCode, body)
}
