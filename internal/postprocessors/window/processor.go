// Package window provides an alternative word-window chunking processor
// with fixed overlap, suited to page-oriented sources where paragraph
// boundaries are unreliable.
package window

import (
	"context"
	"strings"

	"github.com/custodia-labs/policyqa/internal/core/domain"
	"github.com/custodia-labs/policyqa/internal/core/ports/driven"
)

// DefaultWindowWords is the default window size in words.
const DefaultWindowWords = 500

// DefaultOverlapWords is the default overlap between windows in words.
const DefaultOverlapWords = 50

// Ensure Processor implements the interface.
var _ driven.PostProcessor = (*Processor)(nil)

// Processor splits document content into fixed word windows with overlap.
type Processor struct {
	windowWords  int
	overlapWords int
}

// Option configures the window processor.
type Option func(*Processor)

// WithWindowWords sets the window size in words.
func WithWindowWords(n int) Option {
	return func(p *Processor) {
		if n > 0 {
			p.windowWords = n
		}
	}
}

// WithOverlapWords sets the overlap between windows in words.
func WithOverlapWords(n int) Option {
	return func(p *Processor) {
		if n >= 0 {
			p.overlapWords = n
		}
	}
}

// New creates a new window chunker with the given options.
func New(opts ...Option) *Processor {
	p := &Processor{
		windowWords:  DefaultWindowWords,
		overlapWords: DefaultOverlapWords,
	}
	for _, opt := range opts {
		opt(p)
	}
	// Overlap must leave forward progress.
	if p.overlapWords >= p.windowWords {
		p.overlapWords = p.windowWords / 10
	}
	return p
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "window-chunker"
}

// Process splits the document content into overlapping word windows.
// Input chunks are ignored; empty content produces no chunks.
func (p *Processor) Process(_ context.Context, doc *domain.Document, _ []domain.Chunk) ([]domain.Chunk, error) {
	words := strings.Fields(doc.Content)
	if len(words) == 0 {
		return nil, nil
	}

	var texts []string
	step := p.windowWords - p.overlapWords
	for start := 0; start < len(words); start += step {
		end := start + p.windowWords
		if end > len(words) {
			end = len(words)
		}
		texts = append(texts, strings.Join(words[start:end], " "))
		if end == len(words) {
			break
		}
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
