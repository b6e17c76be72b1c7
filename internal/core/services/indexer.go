package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/policyqa/internal/core/domain"
	"github.com/custodia-labs/policyqa/internal/core/ports/driven"
	"github.com/custodia-labs/policyqa/internal/logger"
)

// IndexerService embeds chunks and writes them to the vector index as
// one batch per document.
type IndexerService struct {
	embedder driven.EmbeddingService
	index    driven.VectorIndex
}

// NewIndexerService creates a new indexer service.
func NewIndexerService(embedder driven.EmbeddingService, index driven.VectorIndex) *IndexerService {
	return &IndexerService{embedder: embedder, index: index}
}

// Index embeds and upserts the chunks, returning the number of records
// written. Record IDs derive from chunk content, so re-indexing the same
// document overwrites rather than duplicates.
func (s *IndexerService) Index(ctx context.Context, chunks []domain.Chunk) (int, error) {
	if len(chunks) == 0 {
		return 0, nil
	}

	if err := s.index.EnsureExists(ctx, s.embedder.Dimensions()); err != nil {
		return 0, err
	}

	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Text
	}

	vectors, err := s.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return 0, err
	}
	if len(vectors) != len(chunks) {
		return 0, fmt.Errorf("%w: got %d vectors for %d chunks",
			domain.ErrEmbeddingUnavailable, len(vectors), len(chunks))
	}

	records := make([]domain.IndexedRecord, len(chunks))
	for i, chunk := range chunks {
		if len(vectors[i]) != s.embedder.Dimensions() {
			return 0, fmt.Errorf("%w: vector %d has dimension %d, expected %d",
				domain.ErrDimensionMismatch, i, len(vectors[i]), s.embedder.Dimensions())
		}
		records[i] = domain.NewIndexedRecord(chunk, vectors[i])
	}

	if err := s.index.Upsert(ctx, records); err != nil {
		return 0, err
	}

	logger.Info("indexed %d records (model %s)", len(records), s.embedder.ModelName())
	return len(records), nil
}

// Search embeds the query text and returns up to topK nearest records.
func (s *IndexerService) Search(ctx context.Context, query string, topK int) ([]domain.SearchResult, error) {
	vector, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, err
	}
	return s.index.Search(ctx, vector, topK)
}
