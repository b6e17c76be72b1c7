package driven

import (
	"context"

	"github.com/custodia-labs/policyqa/internal/core/domain"
)

// PostProcessor transforms a normalised document into chunks.
// Processors run in a pipeline; each receives the chunks produced so far.
type PostProcessor interface {
	// Name returns the processor name for logging.
	Name() string

	// Process produces chunks for the document. Implementations that
	// create chunks ignore the input slice; filtering processors modify
	// it. Empty document content produces no chunks, not an error.
	Process(ctx context.Context, doc *domain.Document, chunks []domain.Chunk) ([]domain.Chunk, error)
}
