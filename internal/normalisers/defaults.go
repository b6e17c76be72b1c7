package normalisers

import (
	"github.com/custodia-labs/policyqa/internal/normalisers/docx"
	"github.com/custodia-labs/policyqa/internal/normalisers/eml"
	"github.com/custodia-labs/policyqa/internal/normalisers/pdf"
	"github.com/custodia-labs/policyqa/internal/normalisers/plaintext"
)

// DefaultRegistry returns a registry with all built-in normalisers.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(pdf.New())
	r.Register(docx.New())
	r.Register(eml.New())
	r.Register(plaintext.New())
	return r
}
