package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthStatus is the body served by the health endpoint.
type HealthStatus struct {
	Status      string    `json:"status"`
	Datastore   string    `json:"datastore"`
	LastChecked time.Time `json:"last_checked"`
	Uptime      string    `json:"uptime"`
	Version     string    `json:"version"`
}

const Version = "1.0.0"

var startTime = time.Now()

// HealthCheckHandler reports liveness together with the datastore status.
// ping may be nil when the service runs without a database.
func HealthCheckHandler(ping func(ctx context.Context) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := HealthStatus{
			Status:      "ok",
			Datastore:   "memory",
			LastChecked: time.Now(),
			Uptime:      time.Since(startTime).Round(time.Second).String(),
			Version:     Version,
		}

		code := http.StatusOK
		if ping != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()

			status.Datastore = "ok"
			if err := ping(ctx); err != nil {
				status.Status = "degraded"
				status.Datastore = "unreachable"
				code = http.StatusServiceUnavailable
			}
		}

		c.JSON(code, status)
	}
}
