package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/peerlaunch/launchpad_api/middleware"
	"github.com/peerlaunch/launchpad_api/services/rpc"
)

type HealthStatus struct {
	Status     string            `json:"status"`
	Timestamp  int64             `json:"timestamp"`
	Components map[string]string `json:"components"`
}

// HealthHandler answers both the /health route and the healthCheck procedure.
type HealthHandler struct {
	components map[string]Pinger
}

func NewHealthHandler(components map[string]Pinger) *HealthHandler {
	return &HealthHandler{components: components}
}

// @Summary Health check
// @Description Probe the database and the other backing services
// @Tags health
// @Produce json
// @Success 200 {object} shared.Response{data=handlers.HealthStatus}
// @Failure 503 {object} shared.Response{data=handlers.HealthStatus}
// @Failure 504 {object} middleware.TimeoutBody
// @Router /health [get]
func (h *HealthHandler) Health(c *fiber.Ctx) (middleware.Operation, error) {
	c.Set(fiber.HeaderCacheControl, "no-store")

	return func(ctx context.Context) (*middleware.Reply, error) {
		status := h.probe(ctx)
		if status.Status != "ok" {
			return &middleware.Reply{Status: http.StatusServiceUnavailable, Message: "Degraded", Data: status}, nil
		}
		return &middleware.Reply{Status: http.StatusOK, Data: status}, nil
	}, nil
}

func (h *HealthHandler) probe(ctx context.Context) *HealthStatus {
	status := &HealthStatus{Status: "ok", Timestamp: time.Now().Unix(), Components: map[string]string{}}
	for name, p := range h.components {
		if err := p.Ping(ctx); err != nil {
			status.Components[name] = err.Error()
			status.Status = "degraded"
			continue
		}
		status.Components[name] = "ok"
	}
	return status
}

// @Summary healthCheck procedure
// @Tags rpc
// @Produce json
// @Success 200 {string} string "OK"
// @Router /rpc/healthCheck [post]
func (h *HealthHandler) HealthCheck(ctx context.Context, call *rpc.Call) (interface{}, error) {
	return "OK", nil
}

func (h *HealthHandler) Register(r *rpc.Router) {
	r.Register("healthCheck", h.HealthCheck)
}
