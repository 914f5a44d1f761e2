package gateway

import (
	"context"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"

	"laundromat/pkg/client"
	"laundromat/pkg/httpx"
	"laundromat/pkg/logger"
)

const probeTimeout = 2 * time.Second

// HealthHandler answers liveness and readiness probes. Liveness is
// unconditional; readiness pings the stores the gateway depends on.
type HealthHandler struct {
	client *client.Client
	log    *logger.Logger
}

func NewHealthHandler(c *client.Client, log *logger.Logger) *HealthHandler {
	return &HealthHandler{
		client: c,
		log:    log,
	}
}

func (h *HealthHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/health", h.Health)
	router.GET("/ready", h.Ready)
}

func (h *HealthHandler) Health(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	_ = httpx.WriteJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), probeTimeout)
	defer cancel()

	checks := map[string]string{}
	ready := true

	if h.client.Redis != nil {
		if err := h.client.Redis.Ping(ctx).Err(); err != nil {
			h.log.Error("Redis readiness check failed", "error", err)
			checks["redis"] = "down"
			ready = false
		} else {
			checks["redis"] = "ok"
		}
	}

	if h.client.Mongo != nil {
		if err := h.client.Mongo.Ping(ctx, nil); err != nil {
			h.log.Error("Mongo readiness check failed", "error", err)
			checks["mongo"] = "down"
			ready = false
		} else {
			checks["mongo"] = "ok"
		}
	}

	status := http.StatusOK
	label := "ready"
	if !ready {
		status = http.StatusServiceUnavailable
		label = "not ready"
	}
	_ = httpx.WriteJSON(w, status, map[string]any{
		"status": label,
		"checks": checks,
	})
}
