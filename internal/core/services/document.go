// Package services contains the core business logic, wired to driven
// ports by dependency injection.
package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/policyqa/internal/core/domain"
	"github.com/custodia-labs/policyqa/internal/core/ports/driven"
	"github.com/custodia-labs/policyqa/internal/logger"
	"github.com/custodia-labs/policyqa/internal/normalisers"
	"github.com/custodia-labs/policyqa/internal/postprocessors"
)

// DocumentService turns a document URL into text chunks: fetch,
// normalise by MIME type, then run the chunking pipeline.
type DocumentService struct {
	fetcher  driven.DocumentFetcher
	registry *normalisers.Registry
	pipeline *postprocessors.Pipeline
}

// NewDocumentService creates a new document service.
func NewDocumentService(
	fetcher driven.DocumentFetcher,
	registry *normalisers.Registry,
	pipeline *postprocessors.Pipeline,
) *DocumentService {
	return &DocumentService{
		fetcher:  fetcher,
		registry: registry,
		pipeline: pipeline,
	}
}

// Process downloads the document at url and returns its chunks.
// A document that yields no usable text returns domain.ErrNoChunks.
func (s *DocumentService) Process(ctx context.Context, url string) ([]domain.Chunk, error) {
	logger.Debug("fetching document: %s", url)

	raw, err := s.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}

	normaliser, err := s.registry.ForMIMEType(raw.MIMEType)
	if err != nil {
		return nil, fmt.Errorf("no normaliser for %q: %w", raw.MIMEType, err)
	}

	result, err := normaliser.Normalise(ctx, raw)
	if err != nil {
		return nil, err
	}

	chunks, err := s.pipeline.Process(ctx, &result.Document)
	if err != nil {
		return nil, err
	}
	if len(chunks) == 0 {
		return nil, fmt.Errorf("%s: %w", url, domain.ErrNoChunks)
	}

	logger.Info("document %s: %d chunks", url, len(chunks))
	return chunks, nil
}
