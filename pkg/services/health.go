package services

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"time"

	"gorm.io/gorm"
)

type HealthStatus string

const (
	HealthStatusHealthy   HealthStatus = "healthy"
	HealthStatusDegraded  HealthStatus = "degraded"
	HealthStatusUnhealthy HealthStatus = "unhealthy"
)

const memoryUnhealthyPercent = 90.0

type HealthCheckResult struct {
	Status       HealthStatus   `json:"status"`
	Message      string         `json:"message,omitempty"`
	ResponseTime int64          `json:"responseTime,omitempty"`
	Details      map[string]any `json:"details,omitempty"`
}

type HealthChecks struct {
	Database *HealthCheckResult `json:"database,omitempty"`
	Memory   *HealthCheckResult `json:"memory"`
	Disk     *HealthCheckResult `json:"disk"`
}

type HealthReport struct {
	Status    HealthStatus `json:"status"`
	Timestamp time.Time    `json:"timestamp"`
	Uptime    int64        `json:"uptime"`
	Version   string       `json:"version"`
	Checks    HealthChecks `json:"checks"`
}

type MemoryStats struct {
	HeapAlloc uint64
	HeapSys   uint64
	Sys       uint64
}

type HealthService struct {
	db        *gorm.DB
	version   string
	startedAt time.Time
	readMem   func() MemoryStats
}

// NewHealthService builds the probes. A nil db skips the database check.
func NewHealthService(db *gorm.DB, version string) *HealthService {
	return &HealthService{
		db:        db,
		version:   version,
		startedAt: time.Now(),
		readMem:   readRuntimeMemory,
	}
}

func readRuntimeMemory() MemoryStats {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return MemoryStats{HeapAlloc: m.HeapAlloc, HeapSys: m.HeapSys, Sys: m.Sys}
}

func (s *HealthService) Uptime() time.Duration {
	return time.Since(s.startedAt)
}

// CheckDatabase returns nil when no database is configured.
func (s *HealthService) CheckDatabase(ctx context.Context) *HealthCheckResult {
	if s.db == nil {
		return nil
	}

	start := time.Now()
	sqlDB, err := s.db.DB()
	if err == nil {
		err = sqlDB.PingContext(ctx)
	}
	if err == nil {
		var count int64
		err = s.db.WithContext(ctx).Table("examples").Count(&count).Error
	}
	elapsed := time.Since(start).Milliseconds()

	if err != nil {
		return &HealthCheckResult{
			Status:  HealthStatusUnhealthy,
			Message: err.Error(),
			Details: map[string]any{"error": err.Error()},
		}
	}
	return &HealthCheckResult{
		Status:       HealthStatusHealthy,
		ResponseTime: elapsed,
		Details: map[string]any{
			"connection": "established",
			"queryTime":  fmt.Sprintf("%dms", elapsed),
		},
	}
}

func (s *HealthService) CheckMemory() *HealthCheckResult {
	m := s.readMem()

	percent := 0.0
	if m.HeapSys > 0 {
		percent = float64(m.HeapAlloc) / float64(m.HeapSys) * 100
	}
	details := map[string]any{
		"heapUsed":     formatMB(m.HeapAlloc),
		"heapTotal":    formatMB(m.HeapSys),
		"sys":          formatMB(m.Sys),
		"usagePercent": fmt.Sprintf("%.2f%%", percent),
	}

	if percent > memoryUnhealthyPercent {
		return &HealthCheckResult{
			Status:  HealthStatusUnhealthy,
			Message: fmt.Sprintf("High memory usage: %.2f%%", percent),
			Details: details,
		}
	}
	return &HealthCheckResult{Status: HealthStatusHealthy, Details: details}
}

// CheckDisk verifies the working directory is writable.
func (s *HealthService) CheckDisk() *HealthCheckResult {
	f, err := os.CreateTemp("", "scaffold-health-*")
	if err != nil {
		return &HealthCheckResult{
			Status:  HealthStatusDegraded,
			Message: "Temporary directory is not writable",
			Details: map[string]any{"error": err.Error()},
		}
	}
	name := f.Name()
	_ = f.Close()
	_ = os.Remove(name)

	return &HealthCheckResult{
		Status:  HealthStatusHealthy,
		Details: map[string]any{"check": "basic", "message": "Disk write check passed"},
	}
}

func (s *HealthService) PerformHealthCheck(ctx context.Context) *HealthReport {
	checks := HealthChecks{
		Database: s.CheckDatabase(ctx),
		Memory:   s.CheckMemory(),
		Disk:     s.CheckDisk(),
	}

	return &HealthReport{
		Status:    overallStatus(checks.Database, checks.Memory, checks.Disk),
		Timestamp: time.Now().UTC(),
		Uptime:    s.Uptime().Milliseconds(),
		Version:   s.version,
		Checks:    checks,
	}
}

func overallStatus(results ...*HealthCheckResult) HealthStatus {
	status := HealthStatusHealthy
	for _, r := range results {
		if r == nil {
			continue
		}
		switch r.Status {
		case HealthStatusUnhealthy:
			return HealthStatusUnhealthy
		case HealthStatusDegraded:
			status = HealthStatusDegraded
		}
	}
	return status
}

func formatMB(b uint64) string {
	return fmt.Sprintf("%.2f MB", float64(b)/1024/1024)
}
