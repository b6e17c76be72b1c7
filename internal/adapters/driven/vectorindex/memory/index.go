// Package memory provides an in-process vector index using brute-force
// cosine similarity. It backs local development and the ask command,
// where standing up an external index would be overkill.
package memory

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/custodia-labs/policyqa/internal/core/domain"
	"github.com/custodia-labs/policyqa/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// Index stores records in memory, keyed by record ID.
type Index struct {
	mu        sync.RWMutex
	records   map[string]domain.IndexedRecord
	dimension int
}

// New creates an empty in-memory index.
func New() *Index {
	return &Index{records: make(map[string]domain.IndexedRecord)}
}

// EnsureExists pins the index dimension. Calling again with a different
// dimension returns domain.ErrDimensionMismatch.
func (idx *Index) EnsureExists(_ context.Context, dimension int) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	if idx.dimension != 0 && idx.dimension != dimension {
		return fmt.Errorf("%w: index has dimension %d, requested %d",
			domain.ErrDimensionMismatch, idx.dimension, dimension)
	}
	idx.dimension = dimension
	return nil
}

// Upsert writes records, overwriting any with the same ID. If no
// dimension has been pinned yet, the first record pins it.
func (idx *Index) Upsert(_ context.Context, records []domain.IndexedRecord) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	for _, rec := range records {
		if idx.dimension == 0 {
			idx.dimension = len(rec.Vector)
		}
		if len(rec.Vector) != idx.dimension {
			return fmt.Errorf("%w: record %s has dimension %d, index expects %d",
				domain.ErrDimensionMismatch, rec.ID, len(rec.Vector), idx.dimension)
		}
		idx.records[rec.ID] = rec
	}
	return nil
}

// Search returns up to topK records ordered descending by cosine
// similarity with the query vector.
func (idx *Index) Search(_ context.Context, vector []float32, topK int) ([]domain.SearchResult, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	results := make([]domain.SearchResult, 0, len(idx.records))
	for _, rec := range idx.records {
		score := cosineSimilarity(vector, rec.Vector)
		text, _ := rec.Metadata["text"].(string)
		results = append(results, domain.SearchResult{
			ID:       rec.ID,
			Score:    score,
			Text:     text,
			Metadata: rec.Metadata,
		})
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if topK > 0 && len(results) > topK {
		results = results[:topK]
	}
	return results, nil
}

// Clear deletes all records.
func (idx *Index) Clear(_ context.Context) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	idx.records = make(map[string]domain.IndexedRecord)
	return nil
}

// Stats describes the index.
func (idx *Index) Stats(_ context.Context) (domain.IndexStats, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return domain.IndexStats{
		TotalVectorCount: len(idx.records),
		Dimension:        idx.dimension,
	}, nil
}

// Close is a no-op for the in-memory index.
func (idx *Index) Close() error {
	return nil
}

// cosineSimilarity computes the cosine of the angle between two vectors.
// Mismatched lengths or zero vectors score 0.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
