// Package eml provides a normaliser for email and unrecognised raw text
// content. Anything the fetcher cannot classify by extension lands here.
package eml

import (
	"bytes"
	"context"
	"io"
	"mime"
	"net/mail"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/policyqa/internal/core/domain"
	"github.com/custodia-labs/policyqa/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles email documents.
type Normaliser struct{}

// New creates a new email normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{
		"message/rfc822",
	}
}

// Priority returns the selection priority.
func (n *Normaliser) Priority() int {
	return 50 // Generic MIME normaliser
}

// Normalise extracts the message body. Well-formed messages are parsed
// with net/mail and the subject becomes the title; for anything else the
// leading header block up to the first blank line is stripped, matching
// how plain pasted email content usually arrives.
func (n *Normaliser) Normalise(_ context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	var body, subject string
	if msg, err := mail.ReadMessage(bytes.NewReader(raw.Content)); err == nil {
		content, err := io.ReadAll(msg.Body)
		if err != nil {
			return nil, &domain.ParseError{Format: "email", Err: err}
		}
		body = string(content)
		subject = decodeHeader(msg.Header.Get("Subject"))
	} else {
		body = stripHeaderBlock(string(raw.Content))
	}

	title := subject
	if title == "" {
		title = extractTitle(raw.URI)
	}

	doc := domain.Document{
		ID:        uuid.New().String(),
		SourceID:  raw.SourceID,
		URI:       raw.URI,
		Title:     title,
		Content:   strings.TrimSpace(body),
		Metadata:  map[string]any{},
		CreatedAt: time.Now(),
	}
	for k, v := range raw.Metadata {
		doc.Metadata[k] = v
	}
	doc.Metadata["mime_type"] = raw.MIMEType
	doc.Metadata["format"] = "email"
	if subject != "" {
		doc.Metadata["subject"] = subject
	}

	return &driven.NormaliseResult{Document: doc}, nil
}

// stripHeaderBlock drops the lines before the first blank line. Content
// without a blank line is returned unchanged.
func stripHeaderBlock(content string) string {
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			return strings.Join(lines[i+1:], "\n")
		}
	}
	return content
}

// decodeHeader decodes RFC 2047 encoded-word headers.
func decodeHeader(value string) string {
	dec := new(mime.WordDecoder)
	decoded, err := dec.DecodeHeader(value)
	if err != nil {
		return value
	}
	return decoded
}

// extractTitle extracts a human-readable title from a URI.
func extractTitle(uri string) string {
	filename := filepath.Base(strings.SplitN(uri, "?", 2)[0])
	ext := filepath.Ext(filename)
	if ext != "" {
		filename = strings.TrimSuffix(filename, ext)
	}
	filename = strings.ReplaceAll(filename, "_", " ")
	filename = strings.ReplaceAll(filename, "-", " ")
	return filename
}
