package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ravkun27/nftix/internal/dto"
	"github.com/ravkun27/nftix/pkg/response"
)

// HealthCheck reports whether a dependency is usable
type HealthCheck func(ctx context.Context) error

// SystemHandler serves health, readiness and the about page
type SystemHandler struct {
	service string
	checks  map[string]HealthCheck
}

// NewSystemHandler creates a new SystemHandler. checks run on /ready.
func NewSystemHandler(serviceName string, checks map[string]HealthCheck) *SystemHandler {
	if checks == nil {
		checks = map[string]HealthCheck{}
	}
	return &SystemHandler{service: serviceName, checks: checks}
}

// Health handles GET /health
func (h *SystemHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": h.service,
	})
}

// Ready handles GET /ready
func (h *SystemHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	results := make(gin.H, len(h.checks))
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			results[name] = err.Error()
			status = http.StatusServiceUnavailable
			continue
		}
		results[name] = "ok"
	}

	state := "ready"
	if status != http.StatusOK {
		state = "not ready"
	}
	c.JSON(status, gin.H{
		"status": state,
		"checks": results,
	})
}

// About handles GET /about
func (h *SystemHandler) About(c *gin.Context) {
	response.Success(c, dto.About())
}
