package services

import (
	"context"
	"errors"
	"time"

	"github.com/custodia-labs/policyqa/internal/core/domain"
	"github.com/custodia-labs/policyqa/internal/core/ports/driven"
	"github.com/custodia-labs/policyqa/internal/core/ports/driving"
	"github.com/custodia-labs/policyqa/internal/logger"
)

// Ensure AdminOrchestrator implements the interface.
var _ driving.AdminService = (*AdminOrchestrator)(nil)

// DefaultReportWindow is the aggregation span of the usage report.
const DefaultReportWindow = 7 * 24 * time.Hour

// AdminOrchestrator serves the operational endpoints: statistics, index
// clearing and usage reports.
type AdminOrchestrator struct {
	index    driven.VectorIndex
	monitor  *PerformanceMonitor
	cache    *AnswerCache
	queryLog driven.QueryLogStore
}

// NewAdminOrchestrator creates a new admin orchestrator. monitor, cache
// and queryLog are optional.
func NewAdminOrchestrator(
	index driven.VectorIndex,
	monitor *PerformanceMonitor,
	cache *AnswerCache,
	queryLog driven.QueryLogStore,
) *AdminOrchestrator {
	return &AdminOrchestrator{
		index:    index,
		monitor:  monitor,
		cache:    cache,
		queryLog: queryLog,
	}
}

// Stats returns index, performance and cache statistics. An unavailable
// index backend yields zero index stats, not an error, so the endpoint
// stays useful in degraded mode.
func (o *AdminOrchestrator) Stats(ctx context.Context) (driving.SystemStats, error) {
	var stats driving.SystemStats

	indexStats, err := o.index.Stats(ctx)
	if err != nil {
		if !errors.Is(err, domain.ErrVectorIndexUnavailable) {
			return driving.SystemStats{}, err
		}
		logger.Debug("index stats unavailable: %v", err)
	} else {
		stats.Index = indexStats
	}

	if o.monitor != nil {
		stats.Performance = o.monitor.Stats()
	}
	if o.cache != nil {
		stats.Cache = o.cache.Stats()
	}
	return stats, nil
}

// ClearIndex deletes all records from the vector index.
func (o *AdminOrchestrator) ClearIndex(ctx context.Context) error {
	return o.index.Clear(ctx)
}

// Report aggregates the query log over the past week.
func (o *AdminOrchestrator) Report(ctx context.Context) (domain.QueryReport, error) {
	if o.queryLog == nil {
		return domain.QueryReport{
			ByIntent: map[string]int{},
			Window:   DefaultReportWindow,
		}, nil
	}
	return o.queryLog.Report(ctx, DefaultReportWindow)
}
