package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/monocle-dev/taskboard/db"
	"github.com/monocle-dev/taskboard/internal/health"
)

func HealthCheck(c *gin.Context) {
	database := "ok"
	status := http.StatusOK

	if err := health.CheckDatabase(c.Request.Context(), db.DB, 0); err != nil {
		log.Printf("Health check failed: %v", err)
		database = "unavailable"
		status = http.StatusServiceUnavailable
	}

	c.JSON(status, gin.H{
		"status":    http.StatusText(status),
		"database":  database,
		"message":   "Taskboard is running",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}
