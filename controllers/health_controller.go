package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthCheck reports whether one dependency is reachable.
type HealthCheck func(ctx context.Context) error

type HealthController struct {
	service string
	checks  map[string]HealthCheck
}

func NewHealthController(service string, checks map[string]HealthCheck) *HealthController {
	return &HealthController{service: service, checks: checks}
}

// Health is 200 when every dependency answers, 503 otherwise.
func (hc *HealthController) Health(ctx *gin.Context) {
	checkCtx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	deps := make(map[string]string, len(hc.checks))
	for name, check := range hc.checks {
		if err := check(checkCtx); err != nil {
			deps[name] = err.Error()
			status = http.StatusServiceUnavailable
			continue
		}
		deps[name] = "ok"
	}

	state := "healthy"
	if status != http.StatusOK {
		state = "degraded"
	}
	ctx.JSON(status, gin.H{"status": state, "service": hc.service, "dependencies": deps})
}
