package domain

import "time"

// RawDocument represents opaque bytes fetched from a source URL.
// It is the fetcher's output before normalisation.
type RawDocument struct {
	// SourceID identifies the originating document, typically the URL.
	SourceID string

	// URI is the original location the bytes were fetched from.
	URI string

	// MIMEType is the content type inferred from the URL extension
	// (e.g., "application/pdf").
	MIMEType string

	// Content is the raw bytes.
	Content []byte

	// Metadata contains fetcher-specific key-value pairs.
	Metadata map[string]any
}

// Document represents a normalised document with extracted text content.
// It is the canonical representation after normalisation, before chunking.
type Document struct {
	// ID is the unique identifier for the document.
	ID string

	// SourceID identifies the originating source, typically the URL.
	SourceID string

	// URI is the original location (URL).
	URI string

	// Title is the human-readable title.
	Title string

	// Content is the full text content after normalisation.
	Content string

	// Metadata contains arbitrary key-value pairs.
	Metadata map[string]any

	// CreatedAt is when the document was processed.
	CreatedAt time.Time
}

// Chunk is a bounded-size contiguous span of a document's text, tagged
// with position metadata. Chunks are immutable once produced.
type Chunk struct {
	// Text is the chunk content.
	Text string

	// SourceID identifies the document this chunk belongs to.
	SourceID string

	// Ordinal is the 0-based position within the source document.
	// Ordinals are unique and strictly increasing within a SourceID.
	Ordinal int

	// TotalInSource is the number of chunks produced for the source.
	TotalInSource int

	// TokenCount is an estimated token count, not an exact one.
	TokenCount int

	// Metadata contains chunk-specific key-value pairs.
	Metadata map[string]any
}

// EstimateTokens approximates the token count of a text using a simple
// word-count heuristic (roughly 3 words per 4 tokens). It deliberately
// avoids a real tokenizer dependency; the estimate only needs to be
// consistent, not exact.
func EstimateTokens(text string) int {
	words := 0
	inWord := false
	for _, r := range text {
		switch r {
		case ' ', '\t', '\n', '\r':
			inWord = false
		default:
			if !inWord {
				words++
			}
			inWord = true
		}
	}
	return (words*4 + 2) / 3
}
