package driving

import (
	"context"
	"time"

	"github.com/custodia-labs/policyqa/internal/core/domain"
)

// SystemStats bundles the statistics exposed by the stats endpoint.
type SystemStats struct {
	// Index describes the vector index.
	Index domain.IndexStats

	// Performance summarises request handling.
	Performance PerformanceStats

	// Cache summarises the answer cache.
	Cache CacheStats
}

// PerformanceStats summarises request timing.
type PerformanceStats struct {
	// TotalRequests is the number of recorded requests.
	TotalRequests int

	// AvgResponseTime is the mean duration over the retained window.
	AvgResponseTime time.Duration

	// MinResponseTime is the fastest retained request.
	MinResponseTime time.Duration

	// MaxResponseTime is the slowest retained request.
	MaxResponseTime time.Duration

	// ErrorRate is errors divided by total requests.
	ErrorRate float64

	// Uptime is the time since the monitor was created.
	Uptime time.Duration
}

// CacheStats summarises the answer cache.
type CacheStats struct {
	// Entries is the number of live cached answers.
	Entries int

	// Hits counts cache hits since startup.
	Hits uint64

	// Misses counts cache misses since startup.
	Misses uint64
}

// AdminService exposes operational endpoints.
type AdminService interface {
	// Stats returns index, performance and cache statistics. Index stats
	// report zero values when the backend is unavailable.
	Stats(ctx context.Context) (SystemStats, error)

	// ClearIndex deletes all records from the vector index.
	ClearIndex(ctx context.Context) error

	// Report aggregates the query log over the past week.
	Report(ctx context.Context) (domain.QueryReport, error)
}
