package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDownloadError(t *testing.T) {
	err := &DownloadError{URL: "https://example.com/p.pdf", StatusCode: 404}
	assert.Contains(t, err.Error(), "404")
	assert.Contains(t, err.Error(), "https://example.com/p.pdf")

	var de *DownloadError
	wrapped := fmt.Errorf("processing document: %w", err)
	require.True(t, errors.As(wrapped, &de))
	assert.Equal(t, 404, de.StatusCode)
}

func TestDownloadError_Transport(t *testing.T) {
	cause := errors.New("connection refused")
	err := &DownloadError{URL: "https://example.com", Err: cause}
	assert.Contains(t, err.Error(), "connection refused")
	assert.ErrorIs(t, err, cause)
}

func TestParseError(t *testing.T) {
	cause := errors.New("not a zip archive")
	err := &ParseError{Format: "docx", Err: cause}
	assert.Contains(t, err.Error(), "docx")
	assert.ErrorIs(t, err, cause)

	var pe *ParseError
	wrapped := fmt.Errorf("normalise: %w", err)
	require.True(t, errors.As(wrapped, &pe))
	assert.Equal(t, "docx", pe.Format)
}

func TestSentinelErrors_Distinct(t *testing.T) {
	sentinels := []error{
		ErrInvalidInput,
		ErrUnauthorized,
		ErrNoChunks,
		ErrLLMUnavailable,
		ErrLLMMalformedOutput,
		ErrEmbeddingUnavailable,
		ErrVectorIndexUnavailable,
		ErrDimensionMismatch,
	}
	for i, a := range sentinels {
		for j, b := range sentinels {
			if i == j {
				continue
			}
			assert.NotErrorIs(t, a, b)
		}
	}
}
