package normalisers

import (
	"github.com/custodia-labs/policyqa/internal/core/domain"
	"github.com/custodia-labs/policyqa/internal/core/ports/driven"
)

// Registry holds the available normalisers and selects one per document.
type Registry struct {
	normalisers []driven.Normaliser
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds a normaliser to the registry.
func (r *Registry) Register(n driven.Normaliser) {
	r.normalisers = append(r.normalisers, n)
}

// ForMIMEType returns the highest-priority normaliser supporting the MIME
// type, or domain.ErrInvalidInput when none matches.
func (r *Registry) ForMIMEType(mimeType string) (driven.Normaliser, error) {
	var best driven.Normaliser
	for _, n := range r.normalisers {
		if !supports(n, mimeType) {
			continue
		}
		if best == nil || n.Priority() > best.Priority() {
			best = n
		}
	}
	if best == nil {
		return nil, domain.ErrInvalidInput
	}
	return best, nil
}

func supports(n driven.Normaliser, mimeType string) bool {
	for _, m := range n.SupportedMIMETypes() {
		if m == mimeType {
			return true
		}
	}
	return false
}
