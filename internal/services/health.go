package services

import (
	"context"
	"fmt"
	"time"

	"github.com/lexypaul13/DegenTrader-sub000/internal/providers"
	"github.com/lexypaul13/DegenTrader-sub000/pkg/store"
)

// HealthStatus represents the health status of a dependency
type HealthStatus string

const (
	HealthStatusHealthy   HealthStatus = "healthy"
	HealthStatusUnhealthy HealthStatus = "unhealthy"
	HealthStatusDegraded  HealthStatus = "degraded"
)

// HealthCheck represents a health check result
type HealthCheck struct {
	Service      string        `json:"service"`
	Status       HealthStatus  `json:"status"`
	Message      string        `json:"message,omitempty"`
	ResponseTime time.Duration `json:"response_time"`
	Timestamp    time.Time     `json:"timestamp"`
}

// HealthChecker probes the core's external collaborators: the durable store
// and the trending provider.
type HealthChecker struct {
	store    store.Store
	trending providers.TrendingProvider
	timeout  time.Duration
}

// NewHealthChecker creates a health checker over the given collaborators.
func NewHealthChecker(storage store.Store, trending providers.TrendingProvider) *HealthChecker {
	return &HealthChecker{
		store:    storage,
		trending: trending,
		timeout:  5 * time.Second,
	}
}

// CheckStore verifies the durable store can round-trip a probe key.
func (hc *HealthChecker) CheckStore() *HealthCheck {
	start := time.Now()
	check := &HealthCheck{
		Service:   "store",
		Timestamp: start,
	}

	probe := []byte(fmt.Sprintf("%d", start.UnixNano()))
	if err := hc.store.Save("health_probe", probe); err != nil {
		check.Status = HealthStatusUnhealthy
		check.Message = fmt.Sprintf("save failed: %v", err)
		check.ResponseTime = time.Since(start)
		return check
	}

	loaded, err := hc.store.Load("health_probe")
	switch {
	case err != nil:
		check.Status = HealthStatusUnhealthy
		check.Message = fmt.Sprintf("load failed: %v", err)
	case string(loaded) != string(probe):
		check.Status = HealthStatusDegraded
		check.Message = "probe round-trip mismatch"
	default:
		check.Status = HealthStatusHealthy
		check.Message = "round-trip ok"
	}

	check.ResponseTime = time.Since(start)
	return check
}

// CheckProvider verifies the trending provider answers within the timeout.
// Degraded rather than unhealthy: the core keeps serving its last snapshot
// when the provider is down.
func (hc *HealthChecker) CheckProvider() *HealthCheck {
	start := time.Now()
	check := &HealthCheck{
		Service:   "trending_provider",
		Timestamp: start,
	}

	ctx, cancel := context.WithTimeout(context.Background(), hc.timeout)
	defer cancel()

	tokens, err := hc.trending.FetchTrending(ctx)
	if err != nil {
		check.Status = HealthStatusDegraded
		check.Message = fmt.Sprintf("fetch failed: %v", err)
		check.ResponseTime = time.Since(start)
		return check
	}

	check.Status = HealthStatusHealthy
	check.Message = fmt.Sprintf("fetched %d tokens", len(tokens))
	check.ResponseTime = time.Since(start)
	return check
}

// GetDetailedHealth returns all dependency checks keyed by name.
func (hc *HealthChecker) GetDetailedHealth() map[string]*HealthCheck {
	return map[string]*HealthCheck{
		"store":             hc.CheckStore(),
		"trending_provider": hc.CheckProvider(),
	}
}
