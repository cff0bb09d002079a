package services

import (
	"context"
	"log/slog"
	"runtime"
	"time"
)

// HealthService provides health check functionality
type HealthService struct {
	version   string
	dashboard *DashboardService
	startTime time.Time
	logger    *slog.Logger
}

// HealthStatus represents the health status response
type HealthStatus struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	Runtime   map[string]interface{} `json:"runtime,omitempty"`
	Dashboard map[string]interface{} `json:"dashboard,omitempty"`
}

// NewHealthService creates a new health service
func NewHealthService(version string, dashboard *DashboardService, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &HealthService{
		version:   version,
		dashboard: dashboard,
		startTime: time.Now(),
		logger:    logger.With(slog.String("component", "health_service")),
	}
}

// Health returns the liveness view: the process is up and serving.
func (h *HealthService) Health(ctx context.Context) HealthStatus {
	return HealthStatus{
		Status:    "ok",
		Timestamp: time.Now().UTC(),
		Version:   h.version,
		Runtime: map[string]interface{}{
			"go_version":     runtime.Version(),
			"goroutines":     runtime.NumGoroutine(),
			"uptime_seconds": time.Since(h.startTime).Seconds(),
		},
	}
}

// Readiness reports whether the dashboard can serve data: it is ready once
// at least one refresh cycle has succeeded.
func (h *HealthService) Readiness(ctx context.Context) HealthStatus {
	status := h.Health(ctx)
	status.Dashboard = map[string]interface{}{
		"snapshot_available": false,
	}

	if last, ok := h.dashboard.LastRefresh(); ok {
		status.Dashboard["snapshot_available"] = true
		status.Dashboard["last_refresh"] = last
		status.Dashboard["last_refresh_age_seconds"] = time.Since(last).Seconds()
	} else {
		status.Status = "not_ready"
	}

	return status
}
