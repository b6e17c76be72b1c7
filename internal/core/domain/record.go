package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// MetadataTextLimit bounds the chunk text stored as record metadata.
// The full text lives only in the source document; the index keeps a
// truncated copy for answer synthesis.
const MetadataTextLimit = 1000

// IndexedRecord is a (vector, metadata) pair owned by the vector index.
// Records are never mutated, only replaced (same ID) or deleted.
type IndexedRecord struct {
	// ID is derived from the chunk content hash plus its ordinal,
	// so re-indexing the same document yields the same IDs.
	ID string

	// Vector is the embedding. Its length must equal the dimension the
	// index was created with.
	Vector []float32

	// Metadata is a subset of the chunk fields. The text value is
	// truncated to MetadataTextLimit bytes.
	Metadata map[string]any
}

// SearchResult is a similarity hit, produced fresh per query and ordered
// descending by score. Higher score means more similar for the cosine
// metric. No tie-break ordering is guaranteed.
type SearchResult struct {
	// ID is the matched record.
	ID string

	// Score is the similarity score.
	Score float64

	// Text is the (possibly truncated) chunk text from metadata.
	Text string

	// Metadata is the stored record metadata.
	Metadata map[string]any
}

// IndexStats describes the backing vector index.
type IndexStats struct {
	// TotalVectorCount is the number of stored records.
	TotalVectorCount int

	// Dimension is the index vector dimension.
	Dimension int

	// Fullness is the backend capacity fraction in [0,1], if reported.
	Fullness float64
}

// RecordID derives a stable record identifier from the full chunk text
// and its ordinal. Hashing the complete content rather than a text prefix
// avoids collisions between chunks that open with identical boilerplate.
func RecordID(text string, ordinal int) string {
	sum := sha256.Sum256([]byte(text))
	return fmt.Sprintf("chunk-%s-%d", hex.EncodeToString(sum[:8]), ordinal)
}

// NewIndexedRecord builds an IndexedRecord for a chunk and its embedding.
func NewIndexedRecord(chunk Chunk, vector []float32) IndexedRecord {
	text := chunk.Text
	if len(text) > MetadataTextLimit {
		text = text[:MetadataTextLimit]
	}
	return IndexedRecord{
		ID:     RecordID(chunk.Text, chunk.Ordinal),
		Vector: vector,
		Metadata: map[string]any{
			"text":         text,
			"source":       chunk.SourceID,
			"ordinal":      chunk.Ordinal,
			"total_chunks": chunk.TotalInSource,
			"token_count":  chunk.TokenCount,
		},
	}
}
