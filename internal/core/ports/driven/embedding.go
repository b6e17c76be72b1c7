package driven

import "context"

// EmbeddingService generates vector embeddings from text.
//
// Note: This is separate from VectorIndex which stores and searches
// vectors. EmbeddingService generates vectors; VectorIndex stores them.
//
// Two interchangeable strategies exist, selected at deployment time and
// never mixed within one index lifetime:
//   - a remote semantic sentence encoder (default dimension 384)
//   - a deterministic hash surrogate for constrained environments
//     (dimension 128)
//
// The surrogate guarantees identical text produces identical vectors but
// provides no semantic similarity. That is a documented portability
// trade-off, not a bug.
type EmbeddingService interface {
	// Embed generates a vector embedding for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts. The result has
	// the same length and order as the input.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the embedding vector size (e.g., 128, 384).
	// This must match the VectorIndex configuration; a mismatch is a
	// fatal configuration error.
	Dimensions() int

	// ModelName returns the name of the embedding strategy or model.
	ModelName() string
}
