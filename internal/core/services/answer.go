package services

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/policyqa/internal/core/domain"
	"github.com/custodia-labs/policyqa/internal/core/ports/driven"
	"github.com/custodia-labs/policyqa/internal/core/ports/driving"
	"github.com/custodia-labs/policyqa/internal/logger"
)

// Ensure AnswerOrchestrator implements the interface.
var _ driving.AnswerService = (*AnswerOrchestrator)(nil)

const (
	// maxConcurrentQuestions bounds the per-request question fan-out.
	maxConcurrentQuestions = 5

	// searchTopK is how many neighbours feed answer synthesis.
	searchTopK = 5

	// notifyTimeout bounds the detached webhook delivery.
	notifyTimeout = 10 * time.Second
)

// AnswerOrchestrator runs the full pipeline: document processing,
// indexing, retrieval and answer synthesis. The cache, monitor, query
// log and notifier are optional; a nil value disables that concern.
type AnswerOrchestrator struct {
	docs        *DocumentService
	indexer     *IndexerService
	interpreter *QueryInterpreter
	synthesizer *AnswerSynthesizer
	cache       *AnswerCache
	monitor     *PerformanceMonitor
	queryLog    driven.QueryLogStore
	notifier    driven.ResultNotifier
}

// AnswerOption configures the orchestrator.
type AnswerOption func(*AnswerOrchestrator)

// WithCache enables answer caching.
func WithCache(cache *AnswerCache) AnswerOption {
	return func(o *AnswerOrchestrator) { o.cache = cache }
}

// WithMonitor enables request timing collection.
func WithMonitor(monitor *PerformanceMonitor) AnswerOption {
	return func(o *AnswerOrchestrator) { o.monitor = monitor }
}

// WithQueryLog enables query logging for reports.
func WithQueryLog(store driven.QueryLogStore) AnswerOption {
	return func(o *AnswerOrchestrator) { o.queryLog = store }
}

// WithNotifier enables webhook delivery of completed batches.
func WithNotifier(notifier driven.ResultNotifier) AnswerOption {
	return func(o *AnswerOrchestrator) { o.notifier = notifier }
}

// NewAnswerOrchestrator creates a new answer orchestrator.
func NewAnswerOrchestrator(
	docs *DocumentService,
	indexer *IndexerService,
	interpreter *QueryInterpreter,
	synthesizer *AnswerSynthesizer,
	opts ...AnswerOption,
) *AnswerOrchestrator {
	o := &AnswerOrchestrator{
		docs:        docs,
		indexer:     indexer,
		interpreter: interpreter,
		synthesizer: synthesizer,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// AnswerQuestions downloads and indexes the document, then answers each
// question. The returned slice matches the input order.
func (o *AnswerOrchestrator) AnswerQuestions(ctx context.Context, documentURL string, questions []string) ([]string, error) {
	started := time.Now()
	answers, err := o.answerQuestions(ctx, documentURL, questions)
	if o.monitor != nil {
		o.monitor.Record(time.Since(started), err != nil)
	}
	if err != nil {
		return nil, err
	}

	if o.notifier != nil {
		// Detached delivery: at-most-once, never awaited, failure logged
		// only.
		go func(answers []string) {
			nctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
			defer cancel()
			if err := o.notifier.Notify(nctx, time.Now(), answers); err != nil {
				logger.Warn("webhook delivery failed: %v", err)
			}
		}(answers)
	}

	return answers, nil
}

func (o *AnswerOrchestrator) answerQuestions(ctx context.Context, documentURL string, questions []string) ([]string, error) {
	cacheKey := CacheKey(documentURL, questions)
	if o.cache != nil {
		if answers, ok := o.cache.Get(cacheKey); ok {
			logger.Debug("answer cache hit for %s", documentURL)
			return answers, nil
		}
	}

	chunks, err := o.docs.Process(ctx, documentURL)
	if err != nil {
		return nil, err
	}

	if _, err := o.indexer.Index(ctx, chunks); err != nil {
		return nil, err
	}

	answers := make([]string, len(questions))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentQuestions)
	for i, question := range questions {
		g.Go(func() error {
			answers[i] = o.answerOne(gctx, question)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if o.cache != nil {
		o.cache.Put(cacheKey, answers)
	}
	return answers, nil
}

// answerOne resolves a single question. Retrieval failures degrade to
// the no-information answer rather than failing the batch.
func (o *AnswerOrchestrator) answerOne(ctx context.Context, question string) string {
	parsed := o.interpreter.Parse(ctx, question)

	results, err := o.indexer.Search(ctx, question, searchTopK)
	if err != nil {
		logger.Warn("search failed for question %q: %v", question, err)
		results = nil
	}

	texts := make([]string, 0, len(results))
	for _, result := range results {
		if result.Text != "" {
			texts = append(texts, result.Text)
		}
	}

	answer := o.synthesizer.GenerateAnswer(ctx, question, texts)

	if o.queryLog != nil {
		entry := domain.QueryLogEntry{
			Timestamp: time.Now(),
			Question:  question,
			Intent:    parsed.Intent,
			Answer:    answer,
		}
		if err := o.queryLog.Append(ctx, entry); err != nil {
			logger.Warn("query log append failed: %v", err)
		}
	}

	return answer
}

// AnswerSingle processes one question against the document and evaluates
// the best matching clause.
func (o *AnswerOrchestrator) AnswerSingle(ctx context.Context, documentURL, question string) (domain.SingleAnswer, error) {
	started := time.Now()

	chunks, err := o.docs.Process(ctx, documentURL)
	if err != nil {
		return domain.SingleAnswer{}, err
	}
	if _, err := o.indexer.Index(ctx, chunks); err != nil {
		return domain.SingleAnswer{}, err
	}

	results, err := o.indexer.Search(ctx, question, 1)
	if err != nil {
		logger.Warn("search failed for question %q: %v", question, err)
		results = nil
	}
	if len(results) == 0 || results[0].Text == "" {
		return domain.SingleAnswer{
			Answer:         NoInformationAnswer,
			Explanation:    "No indexed clause matched the question.",
			ProcessingTime: time.Since(started),
		}, nil
	}

	eval := o.synthesizer.EvaluateClause(ctx, question, results[0].Text)
	return domain.SingleAnswer{
		Answer:         eval.DirectAnswer,
		Explanation:    eval.Explanation,
		ProcessingTime: time.Since(started),
	}, nil
}
