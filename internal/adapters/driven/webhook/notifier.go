// Package webhook delivers completed answer batches to a configured
// callback URL.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/custodia-labs/policyqa/internal/core/ports/driven"
)

// Ensure Notifier implements the interface.
var _ driven.ResultNotifier = (*Notifier)(nil)

// DefaultTimeout bounds a delivery attempt. There are no retries.
const DefaultTimeout = 10 * time.Second

// Config holds configuration for the webhook notifier.
type Config struct {
	// URL is the callback endpoint (required).
	URL string

	// Timeout bounds a single delivery attempt (default: 10s).
	Timeout time.Duration
}

// Notifier posts answer batches to a webhook URL.
type Notifier struct {
	client *http.Client
	url    string
}

// payload is the delivery wire format.
type payload struct {
	Timestamp string   `json:"timestamp"`
	Answers   []string `json:"answers"`
	Count     int      `json:"count"`
}

// New creates a new webhook notifier.
func New(cfg Config) (*Notifier, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("webhook: URL is required")
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &Notifier{
		client: &http.Client{Timeout: cfg.Timeout},
		url:    cfg.URL,
	}, nil
}

// Notify posts the answers as JSON. A non-2xx status is an error; the
// caller decides whether to log or drop it.
func (n *Notifier) Notify(ctx context.Context, timestamp time.Time, answers []string) error {
	body, err := json.Marshal(payload{
		Timestamp: timestamp.UTC().Format(time.RFC3339),
		Answers:   answers,
		Count:     len(answers),
	})
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("deliver webhook: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("deliver webhook: status %d", resp.StatusCode)
	}
	return nil
}
