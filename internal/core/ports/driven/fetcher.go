package driven

import (
	"context"

	"github.com/custodia-labs/policyqa/internal/core/domain"
)

// DocumentFetcher downloads raw document bytes from a URL.
type DocumentFetcher interface {
	// Fetch retrieves the document at url. A non-200 response or a
	// transport failure returns a *domain.DownloadError. The MIME type
	// on the returned document is inferred from the URL file extension.
	Fetch(ctx context.Context, url string) (*domain.RawDocument, error)
}
