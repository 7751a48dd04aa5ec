package healthcheck

import (
	"context"
	"net/http"
	"time"

	"github.com/MyelinBots/statbot-go/internal/services/reconcile"
	"github.com/gin-gonic/gin"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

// StatusFunc reports the last reconciliation run, nil before the first one.
type StatusFunc func() *reconcile.Status

// HealthCheckHandler answers 200 while the database is reachable and
// includes the last global xp sync.
func HealthCheckHandler(db Pinger, status StatusFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		body := gin.H{"status": "ok"}
		if status != nil {
			if st := status(); st != nil {
				body["last_sync"] = st
			}
		}

		if err := db.Ping(ctx); err != nil {
			body["status"] = "unavailable"
			body["error"] = "database unreachable"
			c.JSON(http.StatusServiceUnavailable, body)
			return
		}
		c.JSON(http.StatusOK, body)
	}
}
