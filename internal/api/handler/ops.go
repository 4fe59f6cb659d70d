package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/pollentracker/pollentracker/internal/api/models"
	"github.com/pollentracker/pollentracker/internal/api/response"
)

// ReadinessCheck reports whether a dependency is ready to serve.
type ReadinessCheck func(ctx context.Context) error

// OpsHandler handles operational endpoints.
type OpsHandler struct {
	version   string
	buildTime string
	checks    map[string]ReadinessCheck
}

// NewOpsHandler creates a new OpsHandler. checks maps dependency names
// to their readiness probes; a nil map is allowed.
func NewOpsHandler(version, buildTime string, checks map[string]ReadinessCheck) *OpsHandler {
	return &OpsHandler{
		version:   version,
		buildTime: buildTime,
		checks:    checks,
	}
}

// HealthCheck handles GET /v1/ops/health - liveness check.
func (h *OpsHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	health := models.Health{
		Status: models.HealthStatusOK,
		Time:   models.Timestamp(time.Now()),
		Details: map[string]interface{}{
			"version":   h.version,
			"buildTime": h.buildTime,
		},
	}
	response.JSON(w, r, http.StatusOK, health)
}

// ReadinessCheck handles GET /v1/ops/ready - readiness check.
func (h *OpsHandler) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	health := models.Health{
		Status:  models.HealthStatusOK,
		Time:    models.Timestamp(time.Now()),
		Details: map[string]interface{}{},
	}

	status := http.StatusOK
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			health.Status = models.HealthStatusFail
			health.Details[name] = err.Error()
			status = http.StatusServiceUnavailable
			continue
		}
		health.Details[name] = "ok"
	}

	response.JSON(w, r, status, health)
}
