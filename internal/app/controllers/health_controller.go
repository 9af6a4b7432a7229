package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yigit/studentrecords/internal/pkg/logger"
)

// Pinger reports whether a backing store is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a function to Pinger
type PingFunc func(ctx context.Context) error

// Ping calls f
func (f PingFunc) Ping(ctx context.Context) error {
	return f(ctx)
}

// HealthController answers liveness probes
type HealthController struct {
	pingers map[string]Pinger
}

// NewHealthController creates a new HealthController checking the given stores
func NewHealthController(pingers map[string]Pinger) *HealthController {
	return &HealthController{
		pingers: pingers,
	}
}

// Health reports {"status":"ok"} when every store answers
func (c *HealthController) Health(ctx *gin.Context) {
	checkCtx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	for name, p := range c.pingers {
		if err := p.Ping(checkCtx); err != nil {
			logger.Warn().Err(err).Str("dependency", name).Msg("Health check failed")
			ctx.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "dependency": name})
			return
		}
	}

	ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
}
