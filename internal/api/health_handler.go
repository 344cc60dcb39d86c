package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/asdscreen/asd-screening-api/internal/places"
)

// Pinger reports whether a dependency is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler reports database and places provider health
type HealthHandler struct {
	db      Pinger
	monitor *places.HealthMonitor
}

// NewHealthHandler creates a health handler. monitor may be nil.
func NewHealthHandler(db Pinger, monitor *places.HealthMonitor) *HealthHandler {
	return &HealthHandler{db: db, monitor: monitor}
}

// GetHealth returns 503 when the database is unreachable. An unhealthy
// places provider is reported but does not fail the check.
func (h *HealthHandler) GetHealth(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	response := gin.H{
		"timestamp": time.Now().UTC(),
	}

	healthy := true
	if err := h.db.Ping(ctx); err != nil {
		healthy = false
		response["database"] = gin.H{"healthy": false, "error": err.Error()}
	} else {
		response["database"] = gin.H{"healthy": true}
	}

	if h.monitor != nil {
		response["places"] = h.monitor.GetHealthStatus()
	}
	response["healthy"] = healthy

	if !healthy {
		c.JSON(http.StatusServiceUnavailable, response)
		return
	}
	c.JSON(http.StatusOK, response)
}
