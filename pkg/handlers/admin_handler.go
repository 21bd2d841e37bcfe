package handlers

import (
	"net/http"
	"sync/atomic"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	config "github.com/dev-shahrooz/Smart-Pricing/configs"
)

// AdminHandler toggles maintenance mode and reports health.
type AdminHandler struct {
	AdminUsername string
	AdminPassword string

	maintenance atomic.Bool
	logger      *zap.Logger
}

// NewAdminHandler creates an AdminHandler.
func NewAdminHandler(cfg *config.Config, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{
		AdminUsername: cfg.AdminUsername,
		AdminPassword: cfg.AdminPassword,
		logger:        logger,
	}
}

// AdminCredentials is the request body of the maintenance endpoints.
type AdminCredentials struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// StartMaintenance enables maintenance mode.
func (h *AdminHandler) StartMaintenance(c *gin.Context) {
	h.setMaintenance(c, true)
}

// StopMaintenance disables maintenance mode.
func (h *AdminHandler) StopMaintenance(c *gin.Context) {
	h.setMaintenance(c, false)
}

func (h *AdminHandler) setMaintenance(c *gin.Context, on bool) {
	var input AdminCredentials
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Username and password are required"})
		return
	}
	// unset admin credentials disable the endpoints
	if h.AdminUsername == "" || input.Username != h.AdminUsername || input.Password != h.AdminPassword {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Invalid credentials"})
		return
	}

	h.maintenance.Store(on)
	h.logger.Info("maintenance mode changed", zap.Bool("enabled", on))
	msg := "Maintenance mode stopped"
	if on {
		msg = "Maintenance mode started"
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": msg})
}

// InMaintenance reports whether maintenance mode is on.
func (h *AdminHandler) InMaintenance() bool {
	return h.maintenance.Load()
}

// MaintenanceGate answers 503 while maintenance mode is on.
func (h *AdminHandler) MaintenanceGate() gin.HandlerFunc {
	return func(c *gin.Context) {
		if h.InMaintenance() {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"success": false, "error": "Server is in maintenance mode"})
			return
		}
		c.Next()
	}
}

// GetHealthStatus returns the maintenance flag.
func (h *AdminHandler) GetHealthStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"isMaintenanceMode": h.maintenance.Load()})
}

// HealthCheck answers external health checkers such as load balancers.
func (h *AdminHandler) HealthCheck(c *gin.Context) {
	if h.maintenance.Load() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "message": "Server is in maintenance mode"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
