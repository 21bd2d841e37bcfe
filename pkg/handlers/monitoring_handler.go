package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dev-shahrooz/Smart-Pricing/pkg/services"
)

// MonitoringHandler serves the request dashboard.
type MonitoringHandler struct {
	Service *services.MonitoringService
}

// NewMonitoringHandler creates a MonitoringHandler.
func NewMonitoringHandler(service *services.MonitoringService) *MonitoringHandler {
	return &MonitoringHandler{Service: service}
}

// periodHours maps the period query value to hours; unknown values mean 24h.
func periodHours(period string) int {
	switch period {
	case "1h":
		return 1
	case "7d":
		return 24 * 7
	default:
		return 24
	}
}

// GetLogs returns aggregated request data for ?period=1h|24h|7d.
func (h *MonitoringHandler) GetLogs(c *gin.Context) {
	data := h.Service.GetDashboardData(periodHours(c.DefaultQuery("period", "24h")))
	c.JSON(http.StatusOK, data)
}
