package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/masteryyh/scaffold/pkg/services"
	"github.com/masteryyh/scaffold/pkg/utils/response"
)

type HealthRoutes struct {
	service *services.HealthService
}

func NewHealthRoutes(service *services.HealthService) *HealthRoutes {
	return &HealthRoutes{service: service}
}

func (r *HealthRoutes) RegisterRoutes(router *gin.RouterGroup) {
	healthGroup := router.Group("/health")
	{
		healthGroup.GET("", r.Basic)
		healthGroup.GET("/detailed", r.Detailed)
		healthGroup.GET("/database", r.Database)
		healthGroup.GET("/memory", r.Memory)
		healthGroup.GET("/ready", r.Ready)
		healthGroup.GET("/live", r.Live)
	}
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

func (r *HealthRoutes) Basic(c *gin.Context) {
	response.OK(c, gin.H{"status": "ok", "timestamp": now()})
}

// Detailed answers 503 only when a check is unhealthy; degraded is still 200.
func (r *HealthRoutes) Detailed(c *gin.Context) {
	report := r.service.PerformHealthCheck(c.Request.Context())
	status := http.StatusOK
	if report.Status == services.HealthStatusUnhealthy {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, report)
}

func (r *HealthRoutes) Database(c *gin.Context) {
	result := r.service.CheckDatabase(c.Request.Context())
	if result == nil {
		response.OK(c, gin.H{
			"status":    "skipped",
			"message":   "Database check skipped - no database configured",
			"timestamp": now(),
		})
		return
	}
	response.OK(c, gin.H{"status": result.Status, "timestamp": now(), "database": result})
}

func (r *HealthRoutes) Memory(c *gin.Context) {
	result := r.service.CheckMemory()
	response.OK(c, gin.H{"status": result.Status, "timestamp": now(), "memory": result})
}

func (r *HealthRoutes) Ready(c *gin.Context) {
	report := r.service.PerformHealthCheck(c.Request.Context())
	response.OK(c, gin.H{
		"ready":     report.Status == services.HealthStatusHealthy,
		"status":    report.Status,
		"timestamp": now(),
	})
}

func (r *HealthRoutes) Live(c *gin.Context) {
	response.OK(c, gin.H{
		"alive":     true,
		"timestamp": now(),
		"uptime":    r.service.Uptime().Seconds(),
	})
}
