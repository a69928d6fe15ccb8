package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/vacae/vacae-backend/internal/api/models"
	"github.com/vacae/vacae-backend/internal/api/response"
)

// ReadinessChecker reports whether a dependency can serve traffic.
type ReadinessChecker interface {
	Ping(ctx context.Context) error
}

// OpsHandler handles operational endpoints.
type OpsHandler struct {
	version   string
	buildTime string
	database  ReadinessChecker
}

// NewOpsHandler creates a new OpsHandler. database may be nil when no
// readiness dependency is wired (tests).
func NewOpsHandler(version, buildTime string, database ReadinessChecker) *OpsHandler {
	return &OpsHandler{
		version:   version,
		buildTime: buildTime,
		database:  database,
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

// ReadinessCheck handles GET /v1/ops/ready - readiness check. Fails when the
// database is unreachable.
func (h *OpsHandler) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	status := models.HealthStatusOK
	httpStatus := http.StatusOK
	var subsystems []models.SubsystemStatus

	if h.database != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		dbStatus := models.HealthStatusOK
		var detail *string
		if err := h.database.Ping(ctx); err != nil {
			dbStatus = models.HealthStatusFail
			status = models.HealthStatusFail
			httpStatus = http.StatusServiceUnavailable
			msg := err.Error()
			detail = &msg
		}
		subsystems = append(subsystems, models.SubsystemStatus{
			Name:   "postgres",
			Status: dbStatus,
			Detail: detail,
		})
	}

	response.JSON(w, r, httpStatus, models.SystemStatus{
		Status:     status,
		Time:       models.Timestamp(time.Now()),
		Subsystems: subsystems,
	})
}
