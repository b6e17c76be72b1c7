package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/policyqa/internal/adapters/driven/embedding/surrogate"
	"github.com/custodia-labs/policyqa/internal/adapters/driven/vectorindex/memory"
	"github.com/custodia-labs/policyqa/internal/core/domain"
)

func testChunks(texts ...string) []domain.Chunk {
	chunks := make([]domain.Chunk, len(texts))
	for i, text := range texts {
		chunks[i] = domain.Chunk{
			Text:          text,
			SourceID:      "doc",
			Ordinal:       i,
			TotalInSource: len(texts),
			TokenCount:    domain.EstimateTokens(text),
		}
	}
	return chunks
}

func TestIndex_WritesRecords(t *testing.T) {
	idx := memory.New()
	svc := NewIndexerService(surrogate.New(), idx)
	ctx := context.Background()

	written, err := svc.Index(ctx, testChunks("grace period clause", "waiting period clause"))
	require.NoError(t, err)
	assert.Equal(t, 2, written)

	stats, err := idx.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalVectorCount)
	assert.Equal(t, surrogate.Dimension, stats.Dimension)
}

func TestIndex_ReindexingIsIdempotent(t *testing.T) {
	idx := memory.New()
	svc := NewIndexerService(surrogate.New(), idx)
	ctx := context.Background()
	chunks := testChunks("grace period clause", "waiting period clause")

	_, err := svc.Index(ctx, chunks)
	require.NoError(t, err)
	_, err = svc.Index(ctx, chunks)
	require.NoError(t, err)

	stats, err := idx.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalVectorCount)
}

func TestIndex_EmptyChunks(t *testing.T) {
	svc := NewIndexerService(surrogate.New(), memory.New())

	written, err := svc.Index(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 0, written)
}

func TestSearch_FindsIndexedChunk(t *testing.T) {
	idx := memory.New()
	svc := NewIndexerService(surrogate.New(), idx)
	ctx := context.Background()

	_, err := svc.Index(ctx, testChunks("the grace period is thirty days"))
	require.NoError(t, err)

	// The surrogate embeds identical text identically, so searching with
	// the exact chunk text must return it with perfect similarity.
	results, err := svc.Search(ctx, "the grace period is thirty days", 5)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.InDelta(t, 1.0, results[0].Score, 1e-6)
	assert.Equal(t, "the grace period is thirty days", results[0].Text)
}

func TestIndex_DimensionConflictIsFatal(t *testing.T) {
	idx := memory.New()
	require.NoError(t, idx.EnsureExists(context.Background(), 384))

	svc := NewIndexerService(surrogate.New(), idx)

	_, err := svc.Index(context.Background(), testChunks("clause"))
	assert.ErrorIs(t, err, domain.ErrDimensionMismatch)
}
