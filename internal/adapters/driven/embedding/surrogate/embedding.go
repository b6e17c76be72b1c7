// Package surrogate provides a deterministic hash-based embedding
// strategy for constrained deployment environments where no embedding
// model can run. Identical input text always maps to an identical
// vector, but the vectors carry no semantic similarity: near-duplicate
// texts may embed far apart. That is a documented portability trade-off,
// not a bug.
package surrogate

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strconv"

	"github.com/custodia-labs/policyqa/internal/core/ports/driven"
)

// Ensure Service implements the interface.
var _ driven.EmbeddingService = (*Service)(nil)

// Dimension is the fixed surrogate vector size.
const Dimension = 128

// Service generates hash-derived embeddings.
type Service struct{}

// New creates a new surrogate embedding service.
func New() *Service {
	return &Service{}
}

// Embed generates a vector embedding for the given text.
func (s *Service) Embed(_ context.Context, text string) ([]float32, error) {
	return textToVector(text), nil
}

// EmbedBatch generates embeddings for multiple texts. The result has the
// same length and order as the input.
func (s *Service) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vectors[i] = textToVector(text)
	}
	return vectors, nil
}

// Dimensions returns the embedding vector size.
func (s *Service) Dimensions() int {
	return Dimension
}

// ModelName returns the name of the embedding strategy.
func (s *Service) ModelName() string {
	return "hash-surrogate"
}

// textToVector hashes the text and maps hex digit pairs of the digest to
// floats in [0,1] by dividing by 255, zero-padded to the fixed dimension.
func textToVector(text string) []float32 {
	digest := hex.EncodeToString(sumBytes(text))

	vector := make([]float32, Dimension)
	idx := 0
	for i := 0; i+2 <= len(digest) && idx < Dimension; i += 2 {
		v, _ := strconv.ParseUint(digest[i:i+2], 16, 16)
		vector[idx] = float32(v) / 255.0
		idx++
	}
	return vector
}

func sumBytes(text string) []byte {
	sum := sha256.Sum256([]byte(text))
	return sum[:]
}
