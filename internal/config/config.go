// Package config loads service configuration from a TOML file with
// environment variable overrides. Missing credentials degrade the
// affected component and log a warning; they never abort startup.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/custodia-labs/policyqa/internal/logger"
)

// Embedding strategy names.
const (
	StrategySurrogate = "surrogate"
	StrategyRemote    = "remote"
)

// Chunking strategy names.
const (
	ChunkingParagraph = "paragraph"
	ChunkingWindow    = "window"
)

// Config is the full service configuration.
type Config struct {
	Server    ServerConfig    `toml:"server"`
	Groq      GroqConfig      `toml:"groq"`
	Pinecone  PineconeConfig  `toml:"pinecone"`
	Embedding EmbeddingConfig `toml:"embedding"`
	Chunking  ChunkingConfig  `toml:"chunking"`
	Webhook   WebhookConfig   `toml:"webhook"`

	// DataDir holds the query log database. Empty uses
	// ~/.policyqa/data.
	DataDir string `toml:"data_dir"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	// Port is the listen port (default: 8000).
	Port int `toml:"port"`

	// AuthToken is the bearer token protecting the mutating endpoints.
	AuthToken string `toml:"auth_token"`
}

// GroqConfig configures the LLM service.
type GroqConfig struct {
	APIKey string `toml:"api_key"`
	Model  string `toml:"model"`
}

// PineconeConfig configures the vector index.
type PineconeConfig struct {
	APIKey    string `toml:"api_key"`
	IndexName string `toml:"index_name"`
	Cloud     string `toml:"cloud"`
	Region    string `toml:"region"`
}

// EmbeddingConfig selects and configures the embedding strategy.
type EmbeddingConfig struct {
	// Strategy is "surrogate" or "remote" (default: surrogate).
	Strategy string `toml:"strategy"`

	// BaseURL, APIKey and Model configure the remote strategy.
	BaseURL string `toml:"base_url"`
	APIKey  string `toml:"api_key"`
	Model   string `toml:"model"`
}

// ChunkingConfig selects and configures the chunking policy.
type ChunkingConfig struct {
	// Strategy is "paragraph" or "window" (default: paragraph).
	Strategy string `toml:"strategy"`

	// MaxTokens is the paragraph policy's token budget per chunk.
	MaxTokens int `toml:"max_tokens"`

	// WindowWords and OverlapWords configure the window policy.
	WindowWords  int `toml:"window_words"`
	OverlapWords int `toml:"overlap_words"`
}

// WebhookConfig configures result delivery.
type WebhookConfig struct {
	// URL is the callback endpoint. Empty disables delivery.
	URL string `toml:"url"`
}

// Load reads the configuration file and applies environment overrides.
// If configDir is empty, defaults to ~/.policyqa. A missing file is not
// an error; the defaults plus environment apply.
func Load(configDir string) (*Config, error) {
	cfg := &Config{
		Server:    ServerConfig{Port: 8000},
		Embedding: EmbeddingConfig{Strategy: StrategySurrogate},
		Chunking:  ChunkingConfig{Strategy: ChunkingParagraph},
	}

	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		configDir = filepath.Join(home, ".policyqa")
	}

	path := filepath.Join(configDir, "config.toml")
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	case os.IsNotExist(err):
		// No config file yet - that's fine, env and defaults apply.
	default:
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	cfg.applyEnv()
	return cfg, nil
}

// applyEnv overlays environment variables onto the loaded file values.
func (c *Config) applyEnv() {
	if v := os.Getenv("PORT"); v != "" {
		var port int
		if _, err := fmt.Sscanf(v, "%d", &port); err == nil && port > 0 {
			c.Server.Port = port
		}
	}
	overlay(&c.Server.AuthToken, "POLICYQA_AUTH_TOKEN")
	overlay(&c.Groq.APIKey, "GROQ_API_KEY")
	overlay(&c.Groq.Model, "GROQ_MODEL")
	overlay(&c.Pinecone.APIKey, "PINECONE_API_KEY")
	overlay(&c.Pinecone.IndexName, "PINECONE_INDEX_NAME")
	overlay(&c.Pinecone.Region, "PINECONE_ENVIRONMENT")
	overlay(&c.Chunking.Strategy, "CHUNKING_STRATEGY")
	overlay(&c.Embedding.Strategy, "EMBEDDING_STRATEGY")
	overlay(&c.Embedding.BaseURL, "EMBEDDING_BASE_URL")
	overlay(&c.Embedding.APIKey, "EMBEDDING_API_KEY")
	overlay(&c.Embedding.Model, "EMBEDDING_MODEL")
	overlay(&c.Webhook.URL, "WEBHOOK_URL")
	overlay(&c.DataDir, "POLICYQA_DATA_DIR")
}

func overlay(target *string, envKey string) {
	if v := os.Getenv(envKey); v != "" {
		*target = v
	}
}

// Warn logs degraded-mode warnings for absent credentials. It never
// fails; the service runs with fallbacks.
func (c *Config) Warn() {
	if c.Groq.APIKey == "" {
		logger.Warn("GROQ_API_KEY not set; answers use deterministic fallback heuristics")
	}
	if c.Pinecone.APIKey == "" {
		logger.Warn("PINECONE_API_KEY not set; using in-memory vector index")
	}
	if c.Server.AuthToken == "" {
		logger.Warn("POLICYQA_AUTH_TOKEN not set; protected endpoints will reject all requests")
	}
	if c.Embedding.Strategy == StrategyRemote && c.Embedding.BaseURL == "" {
		logger.Warn("remote embedding strategy selected without EMBEDDING_BASE_URL; falling back to surrogate")
	}
}

// Addr returns the HTTP listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}
