package postprocessors

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/policyqa/internal/core/domain"
	"github.com/custodia-labs/policyqa/internal/postprocessors/chunker"
)

type failingProcessor struct{}

func (failingProcessor) Name() string { return "failing" }
func (failingProcessor) Process(context.Context, *domain.Document, []domain.Chunk) ([]domain.Chunk, error) {
	return nil, errors.New("boom")
}

func TestPipeline_NilDocument(t *testing.T) {
	p := NewPipeline(chunker.New())
	_, err := p.Process(context.Background(), nil)
	assert.Error(t, err)
}

func TestPipeline_RunsProcessors(t *testing.T) {
	p := NewPipeline(chunker.New())
	doc := &domain.Document{SourceID: "src", Content: "some policy text"}

	chunks, err := p.Process(context.Background(), doc)
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, "some policy text", chunks[0].Text)
}

func TestPipeline_ProcessorErrorNamed(t *testing.T) {
	p := NewPipeline(failingProcessor{})
	_, err := p.Process(context.Background(), &domain.Document{Content: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failing")
}

func TestPipeline_Add(t *testing.T) {
	p := NewPipeline()
	assert.Equal(t, 0, p.Len())
	p.Add(chunker.New())
	assert.Equal(t, 1, p.Len())
}
