package controllers

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Pinger reports whether the database is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type HealthController struct {
	db Pinger
}

func NewHealthController(db Pinger) *HealthController {
	return &HealthController{db: db}
}

// Health GET /api/health
func (hc *HealthController) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	now := time.Now().UTC().Format(time.RFC3339)
	if hc.db != nil {
		if err := hc.db.PingContext(ctx); err != nil {
			log.Printf("[health] database ping failed: %v", err)
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "error",
				"timestamp": now,
				"database":  "disconnected",
			})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": now,
		"database":  "connected",
	})
}
