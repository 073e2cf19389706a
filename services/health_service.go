package services

import (
	"context"
	"runtime"
	"time"

	"attendqr_go/database"

	"github.com/gofiber/fiber/v2"
)

// HealthService aggregates dependency probes into one report.
type HealthService struct {
	serviceName string
	version     string
	startTime   time.Time
}

type HealthReport struct {
	Status       string                      `json:"status"` // healthy, degraded, unhealthy
	Service      string                      `json:"service"`
	Version      string                      `json:"version"`
	Timestamp    time.Time                   `json:"timestamp"`
	UptimeSecs   int64                       `json:"uptime_seconds"`
	Goroutines   int                         `json:"goroutines"`
	Dependencies map[string]DependencyStatus `json:"dependencies"`
}

type DependencyStatus struct {
	Status  string `json:"status"` // up, down, disabled
	Latency string `json:"latency,omitempty"`
	Error   string `json:"error,omitempty"`
}

func NewHealthService(serviceName, version string) *HealthService {
	if serviceName == "" {
		serviceName = "attendqr"
	}
	if version == "" {
		version = "dev"
	}
	return &HealthService{
		serviceName: serviceName,
		version:     version,
		startTime:   time.Now(),
	}
}

// GetHealthReport probes the database and Redis. The service is unhealthy when
// the database is down and only degraded when Redis is.
func (s *HealthService) GetHealthReport() HealthReport {
	report := HealthReport{
		Service:      s.serviceName,
		Version:      s.version,
		Timestamp:    time.Now().UTC(),
		UptimeSecs:   int64(time.Since(s.startTime).Seconds()),
		Goroutines:   runtime.NumGoroutine(),
		Dependencies: map[string]DependencyStatus{},
	}

	report.Dependencies["database"] = s.probeDatabase()
	report.Dependencies["redis"] = s.probeRedis()

	switch {
	case report.Dependencies["database"].Status == "down":
		report.Status = "unhealthy"
	case report.Dependencies["redis"].Status == "down":
		report.Status = "degraded"
	default:
		report.Status = "healthy"
	}
	return report
}

// HTTPStatusForOverall maps the overall status onto an HTTP code.
func (s *HealthService) HTTPStatusForOverall(status string) int {
	if status == "unhealthy" {
		return fiber.StatusServiceUnavailable
	}
	return fiber.StatusOK
}

func (s *HealthService) probeDatabase() DependencyStatus {
	if database.DB == nil {
		return DependencyStatus{Status: "down", Error: "not initialized"}
	}
	sqlDB, err := database.DB.DB()
	if err != nil {
		return DependencyStatus{Status: "down", Error: err.Error()}
	}
	start := time.Now()
	if err := sqlDB.Ping(); err != nil {
		return DependencyStatus{Status: "down", Error: err.Error()}
	}
	return DependencyStatus{Status: "up", Latency: time.Since(start).String()}
}

func (s *HealthService) probeRedis() DependencyStatus {
	rc := database.GetRedisClient()
	if rc == nil {
		return DependencyStatus{Status: "disabled"}
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	start := time.Now()
	if err := rc.Ping(ctx).Err(); err != nil {
		return DependencyStatus{Status: "down", Error: err.Error()}
	}
	return DependencyStatus{Status: "up", Latency: time.Since(start).String()}
}
