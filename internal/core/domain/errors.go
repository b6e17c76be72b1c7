package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnauthorized indicates a missing or invalid bearer token.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrNoChunks indicates a document yielded no usable text chunks.
	ErrNoChunks = errors.New("document produced no chunks")

	// ErrLLMUnavailable indicates the LLM service is not configured or
	// unreachable. Callers degrade to deterministic fallbacks.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrLLMMalformedOutput indicates the LLM returned text that failed
	// structured-output parsing. Callers degrade to fallbacks.
	ErrLLMMalformedOutput = errors.New("LLM output not parseable")

	// ErrEmbeddingUnavailable indicates the embedding service is not
	// configured or unreachable. Degraded mode, not fatal.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrVectorIndexUnavailable indicates the vector index backend is
	// not configured or unreachable.
	ErrVectorIndexUnavailable = errors.New("vector index unavailable")

	// ErrDimensionMismatch indicates a pre-existing index was created
	// with a different vector dimension. This is a fatal configuration
	// error, never recovered at runtime.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")
)

// DownloadError indicates the source document could not be fetched.
// Fatal to the request; callers must not retry automatically.
type DownloadError struct {
	// URL is the document location.
	URL string

	// StatusCode is the HTTP status, 0 on transport failure.
	StatusCode int

	// Err is the underlying cause, nil for plain non-200 responses.
	Err error
}

func (e *DownloadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("download %s: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("download %s: status %d", e.URL, e.StatusCode)
}

func (e *DownloadError) Unwrap() error { return e.Err }

// ParseError indicates an unsupported or corrupt document format.
// Fatal to the request; callers must not retry automatically.
type ParseError struct {
	// Format is the inferred document format ("pdf", "docx", "email", ...).
	Format string

	// Err is the underlying cause.
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s document: %v", e.Format, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
