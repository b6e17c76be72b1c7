package driven

import (
	"context"
	"time"

	"github.com/custodia-labs/policyqa/internal/core/domain"
)

// QueryLogStore records answered questions for aggregated reporting.
type QueryLogStore interface {
	// Append stores one log entry.
	Append(ctx context.Context, entry domain.QueryLogEntry) error

	// Report aggregates entries newer than now minus window.
	Report(ctx context.Context, window time.Duration) (domain.QueryReport, error)

	// Close releases resources.
	Close() error
}
