package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"sync"
	"time"

	"laundromat/pkg/logger"
)

// PhoneRateLimiter throttles OTP traffic per phone number so a single
// number cannot be flooded with verification codes. State is in-memory;
// each gateway instance enforces its own window.
type PhoneRateLimiter struct {
	mu       sync.Mutex
	requests map[string][]time.Time
	limit    int
	window   time.Duration
	log      *logger.Logger
	stopCh   chan struct{}
}

func NewPhoneRateLimiter(limit int, window time.Duration, log *logger.Logger) *PhoneRateLimiter {
	limiter := &PhoneRateLimiter{
		requests: make(map[string][]time.Time),
		limit:    limit,
		window:   window,
		log:      log,
		stopCh:   make(chan struct{}),
	}

	go limiter.cleanup()

	return limiter
}

func (rl *PhoneRateLimiter) cleanup() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.mu.Lock()
			for phone, timestamps := range rl.requests {
				if len(timestamps) == 0 || time.Since(timestamps[len(timestamps)-1]) > rl.window {
					delete(rl.requests, phone)
				}
			}
			rl.mu.Unlock()
		case <-rl.stopCh:
			return
		}
	}
}

func (rl *PhoneRateLimiter) Stop() {
	close(rl.stopCh)
}

func (rl *PhoneRateLimiter) Allow(phone string) bool {
	if phone == "" {
		return true
	}

	now := time.Now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	valid := rl.requests[phone][:0:0]
	for _, ts := range rl.requests[phone] {
		if now.Sub(ts) < rl.window {
			valid = append(valid, ts)
		}
	}

	if len(valid) >= rl.limit {
		rl.requests[phone] = valid
		return false
	}

	rl.requests[phone] = append(valid, now)
	return true
}

// PhoneRateLimit guards OTP endpoints. The phone is read from the JSON
// body and the body re-attached so the handler can decode it again.
func PhoneRateLimit(limiter *PhoneRateLimiter, paths ...string) func(http.Handler) http.Handler {
	guarded := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		guarded[p] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := guarded[r.URL.Path]; !ok {
				next.ServeHTTP(w, r)
				return
			}

			phone, restored := peekPhone(r)
			r.Body = restored

			if !limiter.Allow(phone) {
				limiter.log.Warn("Rate limit exceeded",
					"request_id", requestIDFrom(r.Context()),
					"phone", phone,
					"path", r.URL.Path,
				)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				_, _ = w.Write([]byte(`{"success":false,"message":"تعداد درخواست‌ها بیش از حد مجاز است"}`))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func peekPhone(r *http.Request) (string, io.ReadCloser) {
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<16))
	_ = r.Body.Close()
	if err != nil {
		return "", io.NopCloser(bytes.NewReader(nil))
	}

	var payload struct {
		Phone string `json:"phone"`
	}
	_ = json.Unmarshal(body, &payload)

	return payload.Phone, io.NopCloser(bytes.NewReader(body))
}
