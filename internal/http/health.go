package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/PotatoCodder/library-management-backend/internal/database"
)

const healthPingTimeout = 2 * time.Second

type HealthResponse struct {
	Status  string            `json:"status"`
	Time    string            `json:"time"`
	Version string            `json:"version,omitempty"`
	Checks  map[string]string `json:"checks"`
}

// HealthController reports readiness. Only a failing database makes the
// service unhealthy; task queue and scheduler state are informational.
type HealthController struct {
	db           *database.Database
	tasksEnabled bool
	maintenance  MaintenanceStatus
	version      string
}

func NewHealthController(db *database.Database, tasksEnabled bool, maintenance MaintenanceStatus, version string) *HealthController {
	return &HealthController{db: db, tasksEnabled: tasksEnabled, maintenance: maintenance, version: version}
}

func (h *HealthController) checkMaintenance() string {
	switch {
	case h.maintenance == nil:
		return "disabled"
	case !h.maintenance.IsRunning():
		return "stopped"
	default:
		return "next run " + h.maintenance.NextRun().Format(time.RFC3339)
	}
}

func (h *HealthController) checkDatabase(ctx context.Context) (string, bool) {
	if h.db == nil {
		return "not configured", true
	}
	ctx, cancel := context.WithTimeout(ctx, healthPingTimeout)
	defer cancel()
	if err := h.db.Ping(ctx); err != nil {
		return "error: " + err.Error(), false
	}
	return "ok", true
}

func (h *HealthController) Status(c *gin.Context) {
	dbCheck, healthy := h.checkDatabase(c.Request.Context())

	tasksCheck := "disabled"
	if h.tasksEnabled {
		tasksCheck = "enabled"
	}

	resp := HealthResponse{
		Status:  "healthy",
		Time:    time.Now().Format(time.RFC3339),
		Version: h.version,
		Checks: map[string]string{
			"database":    dbCheck,
			"tasks":       tasksCheck,
			"maintenance": h.checkMaintenance(),
		},
	}
	code := http.StatusOK
	if !healthy {
		resp.Status = "unhealthy"
		code = http.StatusServiceUnavailable
	}
	c.IndentedJSON(code, resp)
}

// Ping answers liveness checks without touching the database.
func (h *HealthController) Ping(c *gin.Context) {
	respondSuccess(c, "pong")
}
