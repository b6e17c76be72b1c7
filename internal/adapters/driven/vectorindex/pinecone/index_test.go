package pinecone

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/policyqa/internal/core/domain"
)

// fakeBackend serves both the control plane and the data plane from one
// httptest server, pointing the resolved host back at itself.
type fakeBackend struct {
	srv       *httptest.Server
	dimension int
	upserts   [][]vectorRecord
	cleared   bool
}

func newFakeBackend(t *testing.T, dimension int) *fakeBackend {
	t.Helper()
	fb := &fakeBackend{dimension: dimension}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /indexes/{name}", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "secret", r.Header.Get("Api-Key"))
		json.NewEncoder(w).Encode(map[string]any{
			"name":      r.PathValue("name"),
			"dimension": fb.dimension,
			"host":      fb.srv.URL,
			"status":    map[string]any{"ready": true},
		})
	})
	mux.HandleFunc("POST /vectors/upsert", func(w http.ResponseWriter, r *http.Request) {
		var req upsertRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		fb.upserts = append(fb.upserts, req.Vectors)
		json.NewEncoder(w).Encode(map[string]any{"upsertedCount": len(req.Vectors)})
	})
	mux.HandleFunc("POST /query", func(w http.ResponseWriter, r *http.Request) {
		var req queryRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.True(t, req.IncludeMetadata)
		json.NewEncoder(w).Encode(map[string]any{
			"matches": []map[string]any{
				{"id": "chunk-aa-0", "score": 0.91, "metadata": map[string]any{"text": "thirty days grace"}},
				{"id": "chunk-bb-1", "score": 0.42, "metadata": map[string]any{"text": "waiting period"}},
			},
		})
	})
	mux.HandleFunc("POST /vectors/delete", func(w http.ResponseWriter, r *http.Request) {
		var req deleteRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.True(t, req.DeleteAll)
		fb.cleared = true
		w.Write([]byte(`{}`))
	})
	mux.HandleFunc("POST /describe_index_stats", func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"totalVectorCount": 7,
			"dimension":        fb.dimension,
			"indexFullness":    0.01,
		})
	})

	fb.srv = httptest.NewServer(mux)
	t.Cleanup(fb.srv.Close)
	return fb
}

func (fb *fakeBackend) newIndex() *Index {
	return New(Config{APIKey: "secret", ControlPlaneURL: fb.srv.URL})
}

func TestDisabled_AllOperationsUnavailable(t *testing.T) {
	idx := New(Config{})
	ctx := context.Background()

	assert.True(t, idx.Disabled())
	assert.ErrorIs(t, idx.EnsureExists(ctx, 128), domain.ErrVectorIndexUnavailable)
	assert.ErrorIs(t, idx.Upsert(ctx, []domain.IndexedRecord{{ID: "x"}}), domain.ErrVectorIndexUnavailable)

	_, err := idx.Search(ctx, []float32{1}, 5)
	assert.ErrorIs(t, err, domain.ErrVectorIndexUnavailable)
	assert.ErrorIs(t, idx.Clear(ctx), domain.ErrVectorIndexUnavailable)

	_, err = idx.Stats(ctx)
	assert.ErrorIs(t, err, domain.ErrVectorIndexUnavailable)
}

func TestEnsureExists_ResolvesHost(t *testing.T) {
	fb := newFakeBackend(t, 128)
	idx := fb.newIndex()

	require.NoError(t, idx.EnsureExists(context.Background(), 128))
	assert.Equal(t, fb.srv.URL, idx.resolvedHost())
}

// One client is shared across concurrent requests, each of which calls
// EnsureExists before touching the data plane. Re-resolving the host
// must not race in-flight searches; run with -race.
func TestEnsureExists_ConcurrentWithSearch(t *testing.T) {
	fb := newFakeBackend(t, 2)
	idx := fb.newIndex()
	ctx := context.Background()
	require.NoError(t, idx.EnsureExists(ctx, 2))

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			assert.NoError(t, idx.EnsureExists(ctx, 2))
		}()
		go func() {
			defer wg.Done()
			_, err := idx.Search(ctx, []float32{0.5, 0.5}, 5)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
}

func TestEnsureExists_DimensionMismatch(t *testing.T) {
	fb := newFakeBackend(t, 384)
	idx := fb.newIndex()

	err := idx.EnsureExists(context.Background(), 128)
	assert.ErrorIs(t, err, domain.ErrDimensionMismatch)
}

func TestUpsert_SingleBatch(t *testing.T) {
	fb := newFakeBackend(t, 2)
	idx := fb.newIndex()
	ctx := context.Background()
	require.NoError(t, idx.EnsureExists(ctx, 2))

	records := []domain.IndexedRecord{
		{ID: "chunk-aa-0", Vector: []float32{0.1, 0.2}, Metadata: map[string]any{"text": "a"}},
		{ID: "chunk-bb-1", Vector: []float32{0.3, 0.4}, Metadata: map[string]any{"text": "b"}},
	}
	require.NoError(t, idx.Upsert(ctx, records))

	require.Len(t, fb.upserts, 1)
	require.Len(t, fb.upserts[0], 2)
	assert.Equal(t, "chunk-aa-0", fb.upserts[0][0].ID)
}

func TestUpsert_EmptyBatchIsNoop(t *testing.T) {
	fb := newFakeBackend(t, 2)
	idx := fb.newIndex()
	ctx := context.Background()
	require.NoError(t, idx.EnsureExists(ctx, 2))

	require.NoError(t, idx.Upsert(ctx, nil))
	assert.Empty(t, fb.upserts)
}

func TestSearch_MapsMatches(t *testing.T) {
	fb := newFakeBackend(t, 2)
	idx := fb.newIndex()
	ctx := context.Background()
	require.NoError(t, idx.EnsureExists(ctx, 2))

	results, err := idx.Search(ctx, []float32{0.5, 0.5}, 5)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "chunk-aa-0", results[0].ID)
	assert.Equal(t, 0.91, results[0].Score)
	assert.Equal(t, "thirty days grace", results[0].Text)
}

func TestClearAndStats(t *testing.T) {
	fb := newFakeBackend(t, 2)
	idx := fb.newIndex()
	ctx := context.Background()
	require.NoError(t, idx.EnsureExists(ctx, 2))

	require.NoError(t, idx.Clear(ctx))
	assert.True(t, fb.cleared)

	stats, err := idx.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 7, stats.TotalVectorCount)
	assert.Equal(t, 2, stats.Dimension)
	assert.Equal(t, 0.01, stats.Fullness)
}

func TestDataPlane_WithoutEnsureExists(t *testing.T) {
	idx := New(Config{APIKey: "secret"})

	err := idx.Upsert(context.Background(), []domain.IndexedRecord{{ID: "x"}})
	assert.ErrorIs(t, err, domain.ErrVectorIndexUnavailable)
}

func TestNormaliseHost(t *testing.T) {
	assert.Equal(t, "https://idx.svc.pinecone.io", normaliseHost("idx.svc.pinecone.io"))
	assert.Equal(t, "http://127.0.0.1:8080", normaliseHost("http://127.0.0.1:8080"))
	assert.Equal(t, "", normaliseHost(""))
}
