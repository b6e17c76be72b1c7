package cli

import (
	"time"

	"github.com/custodia-labs/policyqa/internal/adapters/driven/embedding/remote"
	"github.com/custodia-labs/policyqa/internal/adapters/driven/embedding/surrogate"
	"github.com/custodia-labs/policyqa/internal/adapters/driven/httpfetch"
	"github.com/custodia-labs/policyqa/internal/adapters/driven/llm/groq"
	"github.com/custodia-labs/policyqa/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/policyqa/internal/adapters/driven/vectorindex/memory"
	"github.com/custodia-labs/policyqa/internal/adapters/driven/vectorindex/pinecone"
	"github.com/custodia-labs/policyqa/internal/adapters/driven/webhook"
	"github.com/custodia-labs/policyqa/internal/config"
	"github.com/custodia-labs/policyqa/internal/core/ports/driven"
	"github.com/custodia-labs/policyqa/internal/core/services"
	"github.com/custodia-labs/policyqa/internal/logger"
	"github.com/custodia-labs/policyqa/internal/normalisers"
	"github.com/custodia-labs/policyqa/internal/postprocessors"
	"github.com/custodia-labs/policyqa/internal/postprocessors/chunker"
	"github.com/custodia-labs/policyqa/internal/postprocessors/window"
)

// app wires configuration into the service graph. Missing credentials
// select degraded substitutes (in-memory index, surrogate embeddings,
// no LLM) so every command remains usable.
type app struct {
	cfg      *config.Config
	answers  *services.AnswerOrchestrator
	admin    *services.AdminOrchestrator
	index    driven.VectorIndex
	queryLog driven.QueryLogStore
}

func newApp() (*app, error) {
	cfg, err := config.Load(configDir)
	if err != nil {
		return nil, err
	}
	cfg.Warn()

	embedder := buildEmbedder(cfg)
	index := buildIndex(cfg)
	llm := buildLLM(cfg)

	docs := services.NewDocumentService(
		httpfetch.New(),
		normalisers.DefaultRegistry(),
		postprocessors.NewPipeline(buildChunker(cfg)),
	)
	indexer := services.NewIndexerService(embedder, index)
	interpreter := services.NewQueryInterpreter(llm)
	synthesizer := services.NewAnswerSynthesizer(llm)

	monitor := services.NewPerformanceMonitor()
	cache := services.NewAnswerCache(time.Hour)

	opts := []services.AnswerOption{
		services.WithMonitor(monitor),
		services.WithCache(cache),
	}

	var queryLog driven.QueryLogStore
	if store, err := sqlite.NewStore(cfg.DataDir); err != nil {
		logger.Warn("query log disabled: %v", err)
	} else {
		queryLog = store
		opts = append(opts, services.WithQueryLog(store))
	}

	if cfg.Webhook.URL != "" {
		notifier, err := webhook.New(webhook.Config{URL: cfg.Webhook.URL})
		if err != nil {
			logger.Warn("webhook delivery disabled: %v", err)
		} else {
			opts = append(opts, services.WithNotifier(notifier))
		}
	}

	return &app{
		cfg:      cfg,
		answers:  services.NewAnswerOrchestrator(docs, indexer, interpreter, synthesizer, opts...),
		admin:    services.NewAdminOrchestrator(index, monitor, cache, queryLog),
		index:    index,
		queryLog: queryLog,
	}, nil
}

func (a *app) close() {
	if a.queryLog != nil {
		if err := a.queryLog.Close(); err != nil {
			logger.Warn("closing query log: %v", err)
		}
	}
	if err := a.index.Close(); err != nil {
		logger.Warn("closing vector index: %v", err)
	}
}

func buildChunker(cfg *config.Config) driven.PostProcessor {
	if cfg.Chunking.Strategy == config.ChunkingWindow {
		var opts []window.Option
		if cfg.Chunking.WindowWords > 0 {
			opts = append(opts, window.WithWindowWords(cfg.Chunking.WindowWords))
		}
		if cfg.Chunking.OverlapWords > 0 {
			opts = append(opts, window.WithOverlapWords(cfg.Chunking.OverlapWords))
		}
		return window.New(opts...)
	}
	return chunker.New(chunker.WithMaxTokens(cfg.Chunking.MaxTokens))
}

func buildEmbedder(cfg *config.Config) driven.EmbeddingService {
	if cfg.Embedding.Strategy == config.StrategyRemote && cfg.Embedding.BaseURL != "" {
		svc, err := remote.New(remote.Config{
			BaseURL: cfg.Embedding.BaseURL,
			APIKey:  cfg.Embedding.APIKey,
			Model:   cfg.Embedding.Model,
		})
		if err == nil {
			logger.Info("embedding strategy: remote (%s)", svc.ModelName())
			return svc
		}
		logger.Warn("remote embedding unavailable, using surrogate: %v", err)
	}
	logger.Info("embedding strategy: hash surrogate")
	return surrogate.New()
}

func buildIndex(cfg *config.Config) driven.VectorIndex {
	if cfg.Pinecone.APIKey == "" {
		return memory.New()
	}
	return pinecone.New(pinecone.Config{
		APIKey:    cfg.Pinecone.APIKey,
		IndexName: cfg.Pinecone.IndexName,
		Cloud:     cfg.Pinecone.Cloud,
		Region:    cfg.Pinecone.Region,
	})
}

func buildLLM(cfg *config.Config) driven.LLMService {
	if cfg.Groq.APIKey == "" {
		return nil
	}
	svc, err := groq.New(groq.Config{
		APIKey: cfg.Groq.APIKey,
		Model:  cfg.Groq.Model,
	})
	if err != nil {
		logger.Warn("LLM disabled: %v", err)
		return nil
	}
	return svc
}
