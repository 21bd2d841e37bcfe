package services

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// DefaultMonitoringCapacity is how many request entries are retained.
const DefaultMonitoringCapacity = 10000

// LogEntry is one recorded request.
type LogEntry struct {
	Timestamp    time.Time     `json:"timestamp"`
	Path         string        `json:"path"`
	Method       string        `json:"method"`
	StatusCode   int           `json:"status_code"`
	ResponseTime time.Duration `json:"response_time_ns"`
}

// MonitoringService records API requests for the monitoring dashboard.
type MonitoringService struct {
	logger   *zap.Logger
	capacity int
	now      func() time.Time

	mu   sync.RWMutex
	logs []LogEntry
}

// NewMonitoringService keeps at most capacity entries, dropping the oldest first.
func NewMonitoringService(logger *zap.Logger, capacity int) *MonitoringService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if capacity <= 0 {
		capacity = DefaultMonitoringCapacity
	}
	return &MonitoringService{
		logger:   logger,
		capacity: capacity,
		now:      time.Now,
		logs:     make([]LogEntry, 0),
	}
}

// LogRequest records one request.
func (s *MonitoringService) LogRequest(entry LogEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logs = append(s.logs, entry)
	if over := len(s.logs) - s.capacity; over > 0 {
		s.logs = append(s.logs[:0], s.logs[over:]...)
	}
}

// LoggingMiddleware records and logs every request outside the admin and monitoring routes.
func (s *MonitoringService) LoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := s.now()

		c.Next()

		path := c.Request.URL.Path
		if strings.HasPrefix(path, "/api/v1/admin") || strings.HasPrefix(path, "/api/v1/monitoring") {
			return
		}

		entry := LogEntry{
			Timestamp:    start,
			Path:         path,
			Method:       c.Request.Method,
			StatusCode:   c.Writer.Status(),
			ResponseTime: s.now().Sub(start),
		}
		s.LogRequest(entry)
		s.logger.Info("request",
			zap.String("method", entry.Method),
			zap.String("path", entry.Path),
			zap.Int("status", entry.StatusCode),
			zap.Duration("latency", entry.ResponseTime),
		)
	}
}

// HourlyCount requests started within one clock hour.
type HourlyCount struct {
	Time     string `json:"time"`
	Requests int    `json:"requests"`
}

// StatusClassCount requests per status class.
type StatusClassCount struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// EndpointLatency average latency per path in milliseconds.
type EndpointLatency struct {
	Endpoint     string `json:"endpoint"`
	ResponseTime int64  `json:"responseTime"`
}

// DashboardData is the aggregated view over a recent period.
type DashboardData struct {
	RequestsOverTime []HourlyCount      `json:"requestsOverTime"`
	Endpoints        map[string]int     `json:"endpoints"`
	StatusCodes      []StatusClassCount `json:"statusCodes"`
	AvgResponseTimes []EndpointLatency  `json:"avgResponseTimes"`
	RecentErrors     []LogEntry         `json:"recentErrors"`
}

// GetDashboardData aggregates the entries of the last periodHours hours.
func (s *MonitoringService) GetDashboardData(periodHours int) DashboardData {
	if periodHours <= 0 {
		periodHours = 24
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	now := s.now().UTC()
	since := now.Add(-time.Duration(periodHours) * time.Hour)

	filtered := make([]LogEntry, 0)
	for _, entry := range s.logs {
		if entry.Timestamp.After(since) {
			filtered = append(filtered, entry)
		}
	}

	// hourly buckets, oldest first
	overTime := make([]HourlyCount, periodHours)
	bucketIndex := make(map[time.Time]int, periodHours)
	for i := 0; i < periodHours; i++ {
		t := now.Add(-time.Duration(periodHours-1-i) * time.Hour).Truncate(time.Hour)
		bucketIndex[t] = i
		overTime[i] = HourlyCount{Time: t.Format("15:00")}
	}

	endpoints := make(map[string]int)
	classes := map[string]int{"2xx Success": 0, "4xx Client Error": 0, "5xx Server Error": 0}
	latencySum := make(map[string]time.Duration)
	for _, entry := range filtered {
		if i, ok := bucketIndex[entry.Timestamp.UTC().Truncate(time.Hour)]; ok {
			overTime[i].Requests++
		}
		endpoints[entry.Path]++
		latencySum[entry.Path] += entry.ResponseTime
		switch {
		case entry.StatusCode >= 200 && entry.StatusCode < 300:
			classes["2xx Success"]++
		case entry.StatusCode >= 400 && entry.StatusCode < 500:
			classes["4xx Client Error"]++
		case entry.StatusCode >= 500:
			classes["5xx Server Error"]++
		}
	}

	statusCodes := make([]StatusClassCount, 0, len(classes))
	for name, value := range classes {
		statusCodes = append(statusCodes, StatusClassCount{Name: name, Value: value})
	}
	sort.Slice(statusCodes, func(i, j int) bool { return statusCodes[i].Name < statusCodes[j].Name })

	latencies := make([]EndpointLatency, 0, len(latencySum))
	for path, total := range latencySum {
		latencies = append(latencies, EndpointLatency{
			Endpoint:     path,
			ResponseTime: total.Milliseconds() / int64(endpoints[path]),
		})
	}
	sort.Slice(latencies, func(i, j int) bool { return latencies[i].Endpoint < latencies[j].Endpoint })

	recentErrors := make([]LogEntry, 0)
	for i := len(filtered) - 1; i >= 0 && len(recentErrors) < 10; i-- {
		if filtered[i].StatusCode >= 500 {
			recentErrors = append(recentErrors, filtered[i])
		}
	}

	return DashboardData{
		RequestsOverTime: overTime,
		Endpoints:        endpoints,
		StatusCodes:      statusCodes,
		AvgResponseTimes: latencies,
		RecentErrors:     recentErrors,
	}
}
