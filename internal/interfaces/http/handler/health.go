package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Pinger reports whether a dependency is reachable
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthHandler answers liveness and readiness checks
type HealthHandler struct {
	BaseHandler
	checks  map[string]Pinger
	timeout time.Duration
}

// NewHealthHandler creates a health handler checking every named dependency
func NewHealthHandler(checks map[string]Pinger) *HealthHandler {
	return &HealthHandler{checks: checks, timeout: 2 * time.Second}
}

// Live godoc
// @Summary      Liveness check
// @Tags         health
// @Produce      json
// @Success      200 {object} map[string]string
// @Router       /health/live [get]
func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Ready godoc
// @Summary      Readiness check
// @Description  Ping every dependency; one failure makes the service unhealthy
// @Tags         health
// @Produce      json
// @Success      200 {object} map[string]any
// @Failure      503 {object} map[string]any
// @Router       /health [get]
func (h *HealthHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	status := http.StatusOK
	results := make(map[string]string, len(h.checks))
	for name, check := range h.checks {
		if err := check.PingContext(ctx); err != nil {
			results[name] = err.Error()
			status = http.StatusServiceUnavailable
			continue
		}
		results[name] = "ok"
	}

	overall := "healthy"
	if status != http.StatusOK {
		overall = "unhealthy"
	}
	c.JSON(status, gin.H{"status": overall, "checks": results})
}
