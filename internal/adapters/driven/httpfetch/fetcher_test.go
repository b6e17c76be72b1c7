package httpfetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/policyqa/internal/core/domain"
)

func TestFetch_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("policy content"))
	}))
	defer srv.Close()

	raw, err := New().Fetch(context.Background(), srv.URL+"/policy.txt")
	require.NoError(t, err)

	assert.Equal(t, []byte("policy content"), raw.Content)
	assert.Equal(t, "text/plain", raw.MIMEType)
	assert.Equal(t, srv.URL+"/policy.txt", raw.SourceID)
}

func TestFetch_Non200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := New().Fetch(context.Background(), srv.URL+"/missing.pdf")
	require.Error(t, err)

	var de *domain.DownloadError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, http.StatusNotFound, de.StatusCode)
}

func TestFetch_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))
	srv.Close() // refuse connections

	_, err := New().Fetch(context.Background(), srv.URL)
	require.Error(t, err)

	var de *domain.DownloadError
	require.True(t, errors.As(err, &de))
	assert.Zero(t, de.StatusCode)
	assert.Error(t, de.Err)
}

func TestMIMETypeForURL(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://example.com/policy.pdf", "application/pdf"},
		{"https://example.com/policy.PDF?sig=abc", "application/pdf"},
		{"https://example.com/terms.docx", "application/vnd.openxmlformats-officedocument.wordprocessingml.document"},
		{"https://example.com/terms.doc", "application/vnd.openxmlformats-officedocument.wordprocessingml.document"},
		{"https://example.com/note.txt", "text/plain"},
		{"https://example.com/message", "message/rfc822"},
		{"https://example.com/file.xyz", "message/rfc822"},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.want, MIMETypeForURL(tt.url))
		})
	}
}
