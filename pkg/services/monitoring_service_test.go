package services

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestMonitoringServiceCapacity(t *testing.T) {
	s := NewMonitoringService(zap.NewNop(), 3)
	for i := 0; i < 5; i++ {
		s.LogRequest(LogEntry{Path: "/p", StatusCode: 200 + i})
	}
	require.Len(t, s.logs, 3)
	assert.Equal(t, 202, s.logs[0].StatusCode)
	assert.Equal(t, 204, s.logs[2].StatusCode)
}

func TestGetDashboardData(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC)
	s := NewMonitoringService(zap.NewNop(), 100)
	s.now = fixedClock(now)

	s.LogRequest(LogEntry{Timestamp: now.Add(-30 * time.Hour), Path: "/old", StatusCode: 500})
	s.LogRequest(LogEntry{Timestamp: now.Add(-2 * time.Hour), Path: "/api/v1/pricing/quote", StatusCode: 200, ResponseTime: 10 * time.Millisecond})
	s.LogRequest(LogEntry{Timestamp: now.Add(-90 * time.Minute), Path: "/api/v1/pricing/quote", StatusCode: 400, ResponseTime: 30 * time.Millisecond})
	s.LogRequest(LogEntry{Timestamp: now.Add(-10 * time.Minute), Path: "/api/v1/fx/forecast", StatusCode: 500, ResponseTime: 5 * time.Millisecond})

	data := s.GetDashboardData(24)

	require.Len(t, data.RequestsOverTime, 24)
	assert.Equal(t, "12:00", data.RequestsOverTime[23].Time)
	assert.Equal(t, 1, data.RequestsOverTime[23].Requests)
	assert.Equal(t, 1, data.RequestsOverTime[22].Requests)
	assert.Equal(t, 1, data.RequestsOverTime[21].Requests)

	assert.Equal(t, map[string]int{"/api/v1/pricing/quote": 2, "/api/v1/fx/forecast": 1}, data.Endpoints)
	assert.Equal(t, []StatusClassCount{
		{Name: "2xx Success", Value: 1},
		{Name: "4xx Client Error", Value: 1},
		{Name: "5xx Server Error", Value: 1},
	}, data.StatusCodes)
	assert.Equal(t, []EndpointLatency{
		{Endpoint: "/api/v1/fx/forecast", ResponseTime: 5},
		{Endpoint: "/api/v1/pricing/quote", ResponseTime: 20},
	}, data.AvgResponseTimes)

	require.Len(t, data.RecentErrors, 1)
	assert.Equal(t, "/api/v1/fx/forecast", data.RecentErrors[0].Path)
}

func TestGetDashboardDataDefaultsPeriod(t *testing.T) {
	s := NewMonitoringService(nil, 0)
	assert.Len(t, s.GetDashboardData(0).RequestsOverTime, 24)
	assert.Equal(t, DefaultMonitoringCapacity, s.capacity)
}

func TestLoggingMiddlewareSkipsInternalRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	s := NewMonitoringService(zap.NewNop(), 10)

	r := gin.New()
	r.Use(s.LoggingMiddleware())
	r.GET("/api/v1/bom/products", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/api/v1/monitoring/logs", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.POST("/api/v1/admin/maintenance/start", func(c *gin.Context) { c.Status(http.StatusUnauthorized) })

	for _, req := range []*http.Request{
		httptest.NewRequest(http.MethodGet, "/api/v1/bom/products", nil),
		httptest.NewRequest(http.MethodGet, "/api/v1/monitoring/logs", nil),
		httptest.NewRequest(http.MethodPost, "/api/v1/admin/maintenance/start", nil),
		httptest.NewRequest(http.MethodGet, "/missing", nil),
	} {
		r.ServeHTTP(httptest.NewRecorder(), req)
	}

	require.Len(t, s.logs, 2)
	assert.Equal(t, "/api/v1/bom/products", s.logs[0].Path)
	assert.Equal(t, http.StatusOK, s.logs[0].StatusCode)
	assert.Equal(t, "/missing", s.logs[1].Path)
	assert.Equal(t, http.StatusNotFound, s.logs[1].StatusCode)
}
