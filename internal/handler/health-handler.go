package handler

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/utils"
)

// Pinger checks the storage backend. Nil means the server runs on the
// in-memory stores and is always ready.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	storage Pinger
}

func NewHealthHandler(storage Pinger) *HealthHandler {
	return &HealthHandler{storage: storage}
}

// Ping answers a basic liveness probe. GET /ping
func (h *HealthHandler) Ping(ctx context.Context, c *app.RequestContext) {
	c.JSON(200, utils.H{
		"status":  "ok",
		"message": "pong",
	})
}

// Liveness reports the process is up. GET /health/live
func (h *HealthHandler) Liveness(ctx context.Context, c *app.RequestContext) {
	c.JSON(200, utils.H{
		"status": "alive",
	})
}

// Readiness reports whether the storage backend answers. GET /health/ready
func (h *HealthHandler) Readiness(ctx context.Context, c *app.RequestContext) {
	if h.storage != nil {
		if err := h.storage.Ping(ctx); err != nil {
			c.JSON(503, utils.H{
				"status":  "not_ready",
				"storage": "unhealthy",
				"error":   err.Error(),
			})
			return
		}
	}
	c.JSON(200, utils.H{
		"status":  "ready",
		"storage": "healthy",
	})
}
