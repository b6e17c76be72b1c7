// Package pinecone provides a vector index adapter backed by the
// Pinecone REST API. Index management goes through the control plane;
// record operations go through the per-index data plane host.
//
// Missing credentials put the adapter in a disabled state where every
// operation returns domain.ErrVectorIndexUnavailable, keeping the rest
// of the pipeline functional for fallback answering.
package pinecone

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/custodia-labs/policyqa/internal/core/domain"
	"github.com/custodia-labs/policyqa/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// Default configuration values.
const (
	DefaultControlPlaneURL = "https://api.pinecone.io"
	DefaultIndexName       = "policy-documents"
	DefaultMetric          = "cosine"
	DefaultCloud           = "aws"
	DefaultRegion          = "us-east-1"
	DefaultTimeout         = 30 * time.Second
)

// Config holds configuration for the Pinecone index.
type Config struct {
	// APIKey is the Pinecone API key. Empty disables the adapter.
	APIKey string

	// IndexName is the index to create or attach to
	// (default: policy-documents).
	IndexName string

	// Cloud and Region select the serverless placement
	// (defaults: aws, us-east-1).
	Cloud  string
	Region string

	// ControlPlaneURL overrides the management API base URL.
	ControlPlaneURL string

	// Timeout is the per-request timeout (default: 30s).
	Timeout time.Duration
}

// Index talks to a single Pinecone index. One instance is shared across
// concurrent requests, so the lazily resolved host is mutex-guarded.
type Index struct {
	client     *http.Client
	apiKey     string
	indexName  string
	cloud      string
	region     string
	controlURL string
	disabled   bool

	mu   sync.RWMutex
	host string
}

// Control plane wire formats.

type createIndexRequest struct {
	Name      string    `json:"name"`
	Dimension int       `json:"dimension"`
	Metric    string    `json:"metric"`
	Spec      indexSpec `json:"spec"`
}

type indexSpec struct {
	Serverless serverlessSpec `json:"serverless"`
}

type serverlessSpec struct {
	Cloud  string `json:"cloud"`
	Region string `json:"region"`
}

type describeIndexResponse struct {
	Name      string `json:"name"`
	Dimension int    `json:"dimension"`
	Host      string `json:"host"`
	Status    struct {
		Ready bool   `json:"ready"`
		State string `json:"state"`
	} `json:"status"`
}

// Data plane wire formats.

type upsertRequest struct {
	Vectors []vectorRecord `json:"vectors"`
}

type vectorRecord struct {
	ID       string         `json:"id"`
	Values   []float32      `json:"values"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

type queryRequest struct {
	Vector          []float32 `json:"vector"`
	TopK            int       `json:"topK"`
	IncludeMetadata bool      `json:"includeMetadata"`
}

type queryResponse struct {
	Matches []struct {
		ID       string         `json:"id"`
		Score    float64        `json:"score"`
		Metadata map[string]any `json:"metadata"`
	} `json:"matches"`
}

type deleteRequest struct {
	DeleteAll bool `json:"deleteAll"`
}

type statsResponse struct {
	TotalVectorCount int     `json:"totalVectorCount"`
	Dimension        int     `json:"dimension"`
	IndexFullness    float64 `json:"indexFullness"`
}

// New creates a Pinecone index client. A missing API key yields a
// disabled client rather than an error.
func New(cfg Config) *Index {
	if cfg.IndexName == "" {
		cfg.IndexName = DefaultIndexName
	}
	if cfg.Cloud == "" {
		cfg.Cloud = DefaultCloud
	}
	if cfg.Region == "" {
		cfg.Region = DefaultRegion
	}
	if cfg.ControlPlaneURL == "" {
		cfg.ControlPlaneURL = DefaultControlPlaneURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &Index{
		client:     &http.Client{Timeout: cfg.Timeout},
		apiKey:     cfg.APIKey,
		indexName:  cfg.IndexName,
		cloud:      cfg.Cloud,
		region:     cfg.Region,
		controlURL: cfg.ControlPlaneURL,
		disabled:   cfg.APIKey == "",
	}
}

// Disabled reports whether the adapter lacks credentials.
func (idx *Index) Disabled() bool {
	return idx.disabled
}

// EnsureExists creates the index if absent and resolves the data plane
// host. A pre-existing index with a different dimension returns
// domain.ErrDimensionMismatch.
func (idx *Index) EnsureExists(ctx context.Context, dimension int) error {
	if idx.disabled {
		return fmt.Errorf("%w: no API key configured", domain.ErrVectorIndexUnavailable)
	}

	desc, err := idx.describeIndex(ctx)
	if err == nil {
		if desc.Dimension != dimension {
			return fmt.Errorf("%w: index %q has dimension %d, requested %d",
				domain.ErrDimensionMismatch, idx.indexName, desc.Dimension, dimension)
		}
		idx.setHost(normaliseHost(desc.Host))
		return nil
	}

	if err := idx.createIndex(ctx, dimension); err != nil {
		return err
	}

	desc, err = idx.describeIndex(ctx)
	if err != nil {
		return err
	}
	idx.setHost(normaliseHost(desc.Host))
	return nil
}

func (idx *Index) setHost(host string) {
	idx.mu.Lock()
	idx.host = host
	idx.mu.Unlock()
}

func (idx *Index) resolvedHost() string {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.host
}

// Upsert writes records as one batch.
func (idx *Index) Upsert(ctx context.Context, records []domain.IndexedRecord) error {
	if idx.disabled {
		return fmt.Errorf("%w: no API key configured", domain.ErrVectorIndexUnavailable)
	}
	if len(records) == 0 {
		return nil
	}

	vectors := make([]vectorRecord, len(records))
	for i, rec := range records {
		vectors[i] = vectorRecord{ID: rec.ID, Values: rec.Vector, Metadata: rec.Metadata}
	}

	return idx.postData(ctx, "/vectors/upsert", upsertRequest{Vectors: vectors}, nil)
}

// Search returns up to topK nearest neighbours ordered descending by score.
func (idx *Index) Search(ctx context.Context, vector []float32, topK int) ([]domain.SearchResult, error) {
	if idx.disabled {
		return nil, fmt.Errorf("%w: no API key configured", domain.ErrVectorIndexUnavailable)
	}

	var resp queryResponse
	err := idx.postData(ctx, "/query", queryRequest{
		Vector:          vector,
		TopK:            topK,
		IncludeMetadata: true,
	}, &resp)
	if err != nil {
		return nil, err
	}

	results := make([]domain.SearchResult, 0, len(resp.Matches))
	for _, match := range resp.Matches {
		text, _ := match.Metadata["text"].(string)
		results = append(results, domain.SearchResult{
			ID:       match.ID,
			Score:    match.Score,
			Text:     text,
			Metadata: match.Metadata,
		})
	}
	return results, nil
}

// Clear deletes all records from the index.
func (idx *Index) Clear(ctx context.Context) error {
	if idx.disabled {
		return fmt.Errorf("%w: no API key configured", domain.ErrVectorIndexUnavailable)
	}
	return idx.postData(ctx, "/vectors/delete", deleteRequest{DeleteAll: true}, nil)
}

// Stats describes the index.
func (idx *Index) Stats(ctx context.Context) (domain.IndexStats, error) {
	if idx.disabled {
		return domain.IndexStats{}, fmt.Errorf("%w: no API key configured", domain.ErrVectorIndexUnavailable)
	}

	var resp statsResponse
	if err := idx.postData(ctx, "/describe_index_stats", struct{}{}, &resp); err != nil {
		return domain.IndexStats{}, err
	}
	return domain.IndexStats{
		TotalVectorCount: resp.TotalVectorCount,
		Dimension:        resp.Dimension,
		Fullness:         resp.IndexFullness,
	}, nil
}

// Close releases resources.
func (idx *Index) Close() error {
	idx.client.CloseIdleConnections()
	return nil
}

func (idx *Index) describeIndex(ctx context.Context) (*describeIndexResponse, error) {
	req, err := http.NewRequestWithContext(
		ctx, http.MethodGet, idx.controlURL+"/indexes/"+idx.indexName, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Api-Key", idx.apiKey)

	resp, err := idx.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrVectorIndexUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: describe index: status %d",
			domain.ErrVectorIndexUnavailable, resp.StatusCode)
	}

	var desc describeIndexResponse
	if err := json.NewDecoder(resp.Body).Decode(&desc); err != nil {
		return nil, fmt.Errorf("%w: decode describe response: %v",
			domain.ErrVectorIndexUnavailable, err)
	}
	return &desc, nil
}

func (idx *Index) createIndex(ctx context.Context, dimension int) error {
	body, err := json.Marshal(createIndexRequest{
		Name:      idx.indexName,
		Dimension: dimension,
		Metric:    DefaultMetric,
		Spec: indexSpec{
			Serverless: serverlessSpec{Cloud: idx.cloud, Region: idx.region},
		},
	})
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, idx.controlURL+"/indexes", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Api-Key", idx.apiKey)

	resp, err := idx.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrVectorIndexUnavailable, err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	// 409 means the index appeared between describe and create.
	if resp.StatusCode != http.StatusCreated &&
		resp.StatusCode != http.StatusOK &&
		resp.StatusCode != http.StatusConflict {
		return fmt.Errorf("%w: create index: status %d",
			domain.ErrVectorIndexUnavailable, resp.StatusCode)
	}
	return nil
}

func (idx *Index) postData(ctx context.Context, path string, payload any, out any) error {
	host := idx.resolvedHost()
	if host == "" {
		return fmt.Errorf("%w: index host not resolved", domain.ErrVectorIndexUnavailable)
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, host+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Api-Key", idx.apiKey)

	resp, err := idx.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrVectorIndexUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: %s: status %d",
			domain.ErrVectorIndexUnavailable, path, resp.StatusCode)
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode %s response: %v",
			domain.ErrVectorIndexUnavailable, path, err)
	}
	return nil
}

// normaliseHost prepends https:// to the bare hostnames the control
// plane returns. Hosts carrying an explicit scheme pass through.
func normaliseHost(host string) string {
	if host == "" || strings.Contains(host, "://") {
		return host
	}
	return "https://" + host
}
