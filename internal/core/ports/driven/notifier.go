package driven

import (
	"context"
	"time"
)

// ResultNotifier delivers a completed answer batch to a downstream
// webhook. Delivery is at-most-once and best-effort: the request path
// schedules it without awaiting completion, failures are logged and never
// retried or propagated.
type ResultNotifier interface {
	// Notify posts the answers. The implementation applies its own
	// bounded timeout.
	Notify(ctx context.Context, timestamp time.Time, answers []string) error
}
