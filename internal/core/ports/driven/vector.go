package driven

import (
	"context"

	"github.com/custodia-labs/policyqa/internal/core/domain"
)

// VectorIndex stores (vector, metadata) records and provides
// k-nearest-neighbour similarity search over them.
//
// Backend unavailability (missing credentials, network failure) degrades
// the component to a disabled state where every operation returns
// domain.ErrVectorIndexUnavailable rather than panicking, so callers can
// apply fallback logic uniformly.
type VectorIndex interface {
	// EnsureExists creates the backing index if absent. Idempotent.
	// A pre-existing index with a different dimension returns
	// domain.ErrDimensionMismatch, which is fatal configuration, not a
	// runtime-recoverable condition.
	EnsureExists(ctx context.Context, dimension int) error

	// Upsert writes records as one batch. Records sharing an ID are
	// overwritten. The batch is not transactional: partial failure may
	// leave a subset written. Callers treat an error as whole-batch
	// failure and may retry; IDs are content-derived so a retry is
	// idempotent.
	Upsert(ctx context.Context, records []domain.IndexedRecord) error

	// Search returns up to topK nearest neighbours ordered descending by
	// score. An empty index returns an empty slice, not an error.
	Search(ctx context.Context, vector []float32, topK int) ([]domain.SearchResult, error)

	// Clear deletes all records. Irreversible.
	Clear(ctx context.Context) error

	// Stats describes the backing index.
	Stats(ctx context.Context) (domain.IndexStats, error)

	// Close releases resources.
	Close() error
}
