package services

import (
	"context"
	"sync"
	"time"

	"github.com/custodia-labs/policyqa/internal/core/domain"
	"github.com/custodia-labs/policyqa/internal/core/ports/driven"
)

// fakeLLM returns a canned response or error.
type fakeLLM struct {
	response string
	err      error
	calls    int
}

func (f *fakeLLM) Generate(ctx context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	f.calls++
	return f.response, f.err
}

func (f *fakeLLM) Chat(ctx context.Context, messages []driven.ChatMessage, opts driven.ChatOptions) (string, error) {
	f.calls++
	return f.response, f.err
}

func (f *fakeLLM) ModelName() string { return "fake" }

// fakeFetcher serves a fixed body as plain text for any URL.
type fakeFetcher struct {
	body string
	err  error
}

func (f *fakeFetcher) Fetch(_ context.Context, url string) (*domain.RawDocument, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &domain.RawDocument{
		SourceID: url,
		URI:      url,
		MIMEType: "text/plain",
		Content:  []byte(f.body),
	}, nil
}

// fakeNotifier records deliveries and signals each one.
type fakeNotifier struct {
	mu        sync.Mutex
	delivered [][]string
	signal    chan struct{}
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{signal: make(chan struct{}, 8)}
}

func (f *fakeNotifier) Notify(_ context.Context, _ time.Time, answers []string) error {
	f.mu.Lock()
	f.delivered = append(f.delivered, answers)
	f.mu.Unlock()
	f.signal <- struct{}{}
	return nil
}

func (f *fakeNotifier) deliveries() [][]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([][]string(nil), f.delivered...)
}

// fakeQueryLog records appended entries in memory.
type fakeQueryLog struct {
	mu      sync.Mutex
	entries []domain.QueryLogEntry
}

func (f *fakeQueryLog) Append(_ context.Context, entry domain.QueryLogEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, entry)
	return nil
}

func (f *fakeQueryLog) Report(_ context.Context, window time.Duration) (domain.QueryReport, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	report := domain.QueryReport{ByIntent: make(map[string]int), Window: window}
	for _, entry := range f.entries {
		report.ByIntent[entry.Intent]++
		report.TotalQueries++
	}
	return report, nil
}

func (f *fakeQueryLog) Close() error { return nil }

func (f *fakeQueryLog) logged() []domain.QueryLogEntry {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.QueryLogEntry(nil), f.entries...)
}
