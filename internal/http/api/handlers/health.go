package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/router-for-me/calculator-api/internal/calculator"
	"github.com/router-for-me/calculator-api/internal/db"
	"github.com/router-for-me/calculator-api/internal/settings"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// HealthHandler serves service metadata and liveness probes.
type HealthHandler struct {
	db *gorm.DB
}

// NewHealthHandler constructs a HealthHandler.
func NewHealthHandler(conn *gorm.DB) *HealthHandler {
	return &HealthHandler{db: conn}
}

// Info describes the service and its endpoints.
func (h *HealthHandler) Info(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Welcome to " + settings.ServiceName + " with User Authentication",
		"version": settings.ServiceVersion,
		"features": []string{
			"User Registration & Authentication",
			"JWT Token-based Security",
			"Calculator Operations (add, subtract, multiply, divide)",
			"Calculation History Tracking",
		},
		"operations": calculator.Operations,
		"endpoints": gin.H{
			"auth":       []string{"/users", "/login", "/me"},
			"calculator": []string{"/calculator", "/calculator/history"},
			"ops":        []string{"/health", "/metrics"},
		},
	})
}

// Health reports whether the database is reachable.
func (h *HealthHandler) Health(c *gin.Context) {
	if errPing := db.Ping(c.Request.Context(), h.db); errPing != nil {
		log.WithError(errPing).Warn("health: database ping failed")
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "database": "unreachable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":   "healthy",
		"service":  settings.ServiceName,
		"version":  settings.ServiceVersion,
		"database": db.DialectName(h.db),
	})
}
