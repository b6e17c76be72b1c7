// Package httpfetch provides a DocumentFetcher that downloads documents
// over HTTP and infers their format from the URL file extension.
package httpfetch

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/custodia-labs/policyqa/internal/core/domain"
	"github.com/custodia-labs/policyqa/internal/core/ports/driven"
)

// Ensure Fetcher implements the interface.
var _ driven.DocumentFetcher = (*Fetcher)(nil)

// DefaultTimeout is the document download timeout.
const DefaultTimeout = 60 * time.Second

// MaxDocumentBytes bounds the downloaded document size (32 MiB).
const MaxDocumentBytes = 32 << 20

// Fetcher downloads documents over HTTP.
type Fetcher struct {
	client *http.Client
}

// Option configures the fetcher.
type Option func(*Fetcher)

// WithHTTPClient overrides the HTTP client. Useful for testing.
func WithHTTPClient(c *http.Client) Option {
	return func(f *Fetcher) {
		f.client = c
	}
}

// New creates a new HTTP fetcher.
func New(opts ...Option) *Fetcher {
	f := &Fetcher{
		client: &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch downloads the document at rawURL. Non-200 responses and transport
// failures return a *domain.DownloadError; the caller must not retry
// automatically.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*domain.RawDocument, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return nil, &domain.DownloadError{URL: rawURL, Err: err}
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &domain.DownloadError{URL: rawURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &domain.DownloadError{URL: rawURL, StatusCode: resp.StatusCode}
	}

	content, err := io.ReadAll(io.LimitReader(resp.Body, MaxDocumentBytes))
	if err != nil {
		return nil, &domain.DownloadError{URL: rawURL, Err: err}
	}

	return &domain.RawDocument{
		SourceID: rawURL,
		URI:      rawURL,
		MIMEType: MIMETypeForURL(rawURL),
		Content:  content,
	}, nil
}

// MIMETypeForURL infers the document MIME type from the URL path
// extension. Unrecognised extensions are treated as raw email/plain text
// content, matching the behaviour expected by the email normaliser.
func MIMETypeForURL(rawURL string) string {
	ext := ""
	if u, err := url.Parse(rawURL); err == nil {
		ext = strings.ToLower(path.Ext(u.Path))
	}

	switch ext {
	case ".pdf":
		return "application/pdf"
	case ".docx", ".doc":
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	case ".txt":
		return "text/plain"
	default:
		return "message/rfc822"
	}
}
