package client

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// BackendClient fronts the remote laundry backend. Every call carries
// the static service Api-Key; per-user calls additionally carry the
// bearer token lifted from the auth cookie.
type BackendClient struct {
	http   *HttpClient
	apiKey string
}

func NewBackendClient(baseURL, apiKey string, timeout time.Duration) *BackendClient {
	return &BackendClient{
		http:   NewHttpClient(baseURL, timeout),
		apiKey: apiKey,
	}
}

// BackendResponse is the backend's decoded JSON envelope. The backend
// always fills message on a meaningful reply; an empty or missing
// message marks the reply unusable regardless of status code.
type BackendResponse struct {
	StatusCode int
	Body       map[string]any
}

func (r *BackendResponse) Message() string {
	if r == nil || r.Body == nil {
		return ""
	}
	if msg, ok := r.Body["message"].(string); ok {
		return msg
	}
	return ""
}

func (r *BackendResponse) Success() bool {
	if r == nil || r.Body == nil {
		return false
	}
	if s, ok := r.Body["success"].(bool); ok {
		return s
	}
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Field returns a payload key from the envelope, e.g. "user" or
// "timeslots".
func (r *BackendResponse) Field(key string) (any, bool) {
	if r == nil || r.Body == nil {
		return nil, false
	}
	v, ok := r.Body[key]
	return v, ok
}

// DecodeField re-marshals one envelope key into a typed struct.
func (r *BackendResponse) DecodeField(key string, target any) error {
	raw, ok := r.Field(key)
	if !ok {
		return errFieldMissing(key)
	}
	return remarshal(raw, target)
}

func (c *BackendClient) GET(ctx context.Context, path, token string) (*BackendResponse, error) {
	resp, err := c.http.GET(ctx, path, c.headers(token))
	if err != nil {
		return nil, err
	}
	return decodeBackend(resp)
}

func (c *BackendClient) POST(ctx context.Context, path, token string, body any) (*BackendResponse, error) {
	resp, err := c.http.POST(ctx, path, body, c.headers(token))
	if err != nil {
		return nil, err
	}
	return decodeBackend(resp)
}

func (c *BackendClient) PUT(ctx context.Context, path, token string, body any) (*BackendResponse, error) {
	resp, err := c.http.PUT(ctx, path, body, c.headers(token))
	if err != nil {
		return nil, err
	}
	return decodeBackend(resp)
}

func (c *BackendClient) headers(token string) map[string]string {
	h := map[string]string{
		"Api-Key": c.apiKey,
	}
	if token != "" {
		h["Authorization"] = token
	}
	return h
}

func decodeBackend(resp *Response) (*BackendResponse, error) {
	out := &BackendResponse{StatusCode: resp.StatusCode}
	if len(resp.Body) == 0 {
		return out, nil
	}
	// A body that is not a JSON object is treated the same as an empty
	// one; the caller sees message=="" and rejects the reply.
	var body map[string]any
	if err := resp.DecodeJSON(&body); err == nil {
		out.Body = body
	}
	return out, nil
}

func errFieldMissing(key string) error {
	return fmt.Errorf("backend response has no %q field", key)
}

func remarshal(raw, target any) error {
	data, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("failed to re-marshal backend field: %w", err)
	}
	if err := json.Unmarshal(data, target); err != nil {
		return fmt.Errorf("failed to decode backend field: %w", err)
	}
	return nil
}
