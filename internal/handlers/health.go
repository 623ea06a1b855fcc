package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lexypaul13/DegenTrader-sub000/internal/services"
)

// HealthHandler handles health check endpoints
type HealthHandler struct {
	healthChecker *services.HealthChecker
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(healthChecker *services.HealthChecker) *HealthHandler {
	return &HealthHandler{
		healthChecker: healthChecker,
	}
}

// HealthResponse represents the overall health response
type HealthResponse struct {
	Status    services.HealthStatus            `json:"status"`
	Timestamp time.Time                        `json:"timestamp"`
	Services  map[string]*services.HealthCheck `json:"services"`
	Version   string                           `json:"version,omitempty"`
}

// GetHealth returns the overall health status
func (h *HealthHandler) GetHealth(c *gin.Context) {
	serviceChecks := h.healthChecker.GetDetailedHealth()

	overallStatus := services.HealthStatusHealthy
	for _, check := range serviceChecks {
		if check.Status == services.HealthStatusUnhealthy {
			overallStatus = services.HealthStatusUnhealthy
			break
		} else if check.Status == services.HealthStatusDegraded && overallStatus == services.HealthStatusHealthy {
			overallStatus = services.HealthStatusDegraded
		}
	}

	response := HealthResponse{
		Status:    overallStatus,
		Timestamp: time.Now(),
		Services:  serviceChecks,
		Version:   "1.0.0",
	}

	statusCode := http.StatusOK
	if overallStatus == services.HealthStatusUnhealthy {
		statusCode = http.StatusServiceUnavailable
	}

	c.JSON(statusCode, response)
}

// GetLiveness returns a simple liveness check
func (h *HealthHandler) GetLiveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "alive",
		"timestamp": time.Now(),
	})
}

// GetReadiness returns readiness status. The ledger cannot operate without
// its store, so an unhealthy store means not ready; a degraded provider
// still serves cached data.
func (h *HealthHandler) GetReadiness(c *gin.Context) {
	storeHealth := h.healthChecker.CheckStore()

	if storeHealth.Status == services.HealthStatusUnhealthy {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":    "not_ready",
			"message":   "storage not available",
			"timestamp": time.Now(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    "ready",
		"timestamp": time.Now(),
	})
}

// GetStoreHealth returns detailed storage health information
func (h *HealthHandler) GetStoreHealth(c *gin.Context) {
	healthCheck := h.healthChecker.CheckStore()

	statusCode := http.StatusOK
	if healthCheck.Status == services.HealthStatusUnhealthy {
		statusCode = http.StatusServiceUnavailable
	}

	c.JSON(statusCode, healthCheck)
}

// GetProviderHealth returns detailed market data provider health information
func (h *HealthHandler) GetProviderHealth(c *gin.Context) {
	c.JSON(http.StatusOK, h.healthChecker.CheckProvider())
}
