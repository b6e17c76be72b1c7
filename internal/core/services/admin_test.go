package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/policyqa/internal/adapters/driven/vectorindex/memory"
	"github.com/custodia-labs/policyqa/internal/adapters/driven/vectorindex/pinecone"
	"github.com/custodia-labs/policyqa/internal/core/domain"
)

func TestStats_CombinesSources(t *testing.T) {
	idx := memory.New()
	ctx := context.Background()
	require.NoError(t, idx.EnsureExists(ctx, 128))
	require.NoError(t, idx.Upsert(ctx, []domain.IndexedRecord{
		{ID: "chunk-1", Vector: make([]float32, 128)},
	}))

	monitor := NewPerformanceMonitor()
	monitor.Record(50*time.Millisecond, false)
	cache := NewAnswerCache(time.Hour)
	cache.Put("k", []string{"a"})

	admin := NewAdminOrchestrator(idx, monitor, cache, nil)

	stats, err := admin.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Index.TotalVectorCount)
	assert.Equal(t, 128, stats.Index.Dimension)
	assert.Equal(t, 1, stats.Performance.TotalRequests)
	assert.Equal(t, 1, stats.Cache.Entries)
}

func TestStats_UnavailableIndexYieldsZeroes(t *testing.T) {
	disabled := pinecone.New(pinecone.Config{})
	admin := NewAdminOrchestrator(disabled, nil, nil, nil)

	stats, err := admin.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Index.TotalVectorCount)
}

func TestClearIndex(t *testing.T) {
	idx := memory.New()
	ctx := context.Background()
	require.NoError(t, idx.EnsureExists(ctx, 2))
	require.NoError(t, idx.Upsert(ctx, []domain.IndexedRecord{
		{ID: "chunk-1", Vector: []float32{1, 0}},
	}))

	admin := NewAdminOrchestrator(idx, nil, nil, nil)
	require.NoError(t, admin.ClearIndex(ctx))

	stats, err := idx.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.TotalVectorCount)
}

func TestReport_AggregatesQueryLog(t *testing.T) {
	queryLog := &fakeQueryLog{}
	ctx := context.Background()
	require.NoError(t, queryLog.Append(ctx, domain.QueryLogEntry{Intent: domain.IntentFindPeriod}))
	require.NoError(t, queryLog.Append(ctx, domain.QueryLogEntry{Intent: domain.IntentFindPeriod}))

	admin := NewAdminOrchestrator(memory.New(), nil, nil, queryLog)

	report, err := admin.Report(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, report.TotalQueries)
	assert.Equal(t, 2, report.ByIntent[domain.IntentFindPeriod])
	assert.Equal(t, DefaultReportWindow, report.Window)
}

func TestReport_NoStoreConfigured(t *testing.T) {
	admin := NewAdminOrchestrator(memory.New(), nil, nil, nil)

	report, err := admin.Report(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, report.TotalQueries)
}
