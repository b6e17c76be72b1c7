// Package chunker provides the default paragraph-based chunking processor.
package chunker

import (
	"context"
	"strings"

	"github.com/custodia-labs/policyqa/internal/core/domain"
	"github.com/custodia-labs/policyqa/internal/core/ports/driven"
)

// DefaultMaxTokens is the default estimated-token budget per chunk.
const DefaultMaxTokens = 1000

// Ensure Processor implements the interface.
var _ driven.PostProcessor = (*Processor)(nil)

// Processor splits document content on paragraph boundaries and greedily
// accumulates paragraphs while the running token estimate stays within
// the budget. A single paragraph exceeding the budget is emitted as an
// oversized singleton chunk; splitting such paragraphs mid-sentence is a
// known limitation we deliberately avoid.
type Processor struct {
	maxTokens int
}

// Option configures the chunker processor.
type Option func(*Processor)

// WithMaxTokens sets the estimated-token budget per chunk.
func WithMaxTokens(max int) Option {
	return func(p *Processor) {
		if max > 0 {
			p.maxTokens = max
		}
	}
}

// New creates a new paragraph chunker with the given options.
func New(opts ...Option) *Processor {
	p := &Processor{
		maxTokens: DefaultMaxTokens,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "paragraph-chunker"
}

// Process splits the document content into chunks.
// Input chunks are ignored; this processor creates new chunks from
// document content. Empty content produces no chunks.
func (p *Processor) Process(_ context.Context, doc *domain.Document, _ []domain.Chunk) ([]domain.Chunk, error) {
	texts := p.split(doc.Content)
	if len(texts) == 0 {
		return nil, nil
	}

	chunks := make([]domain.Chunk, len(texts))
	for i, text := range texts {
		chunks[i] = domain.Chunk{
			Text:          text,
			SourceID:      doc.SourceID,
			Ordinal:       i,
			TotalInSource: len(texts),
			TokenCount:    domain.EstimateTokens(text),
			Metadata: map[string]any{
				"title": doc.Title,
			},
		}
	}
	return chunks, nil
}

// split implements the greedy paragraph accumulation policy.
func (p *Processor) split(content string) []string {
	var paragraphs []string
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			paragraphs = append(paragraphs, line)
		}
	}

	var chunks []string
	var current strings.Builder
	currentTokens := 0

	for _, para := range paragraphs {
		paraTokens := domain.EstimateTokens(para)

		if currentTokens+paraTokens > p.maxTokens && current.Len() > 0 {
			chunks = append(chunks, current.String())
			current.Reset()
			currentTokens = 0
		}

		if current.Len() > 0 {
			current.WriteString("\n")
		}
		current.WriteString(para)
		currentTokens += paraTokens
	}

	if current.Len() > 0 {
		chunks = append(chunks, current.String())
	}

	return chunks
}
