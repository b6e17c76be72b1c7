package eml

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/policyqa/internal/core/domain"
)

func TestNormalise_NilDocument(t *testing.T) {
	result, err := New().Normalise(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Nil(t, result)
}

func TestNormalise_WellFormedMessage(t *testing.T) {
	email := "From: broker@example.com\r\n" +
		"To: policyholder@example.com\r\n" +
		"Subject: Policy renewal terms\r\n" +
		"\r\n" +
		"Your grace period is thirty days from the due date.\r\n"

	raw := &domain.RawDocument{
		SourceID: "https://example.com/renewal.eml",
		URI:      "https://example.com/renewal.eml",
		MIMEType: "message/rfc822",
		Content:  []byte(email),
	}

	result, err := New().Normalise(context.Background(), raw)
	require.NoError(t, err)

	assert.Equal(t, "Your grace period is thirty days from the due date.", result.Document.Content)
	assert.Equal(t, "Policy renewal terms", result.Document.Title)
	assert.Equal(t, "email", result.Document.Metadata["format"])
}

func TestNormalise_HeaderBlockStripped(t *testing.T) {
	// Not RFC 822 parseable, but carries a leading header-looking block.
	content := "Some-Header value without colon format\nAnother line\n\nThe actual body text."

	raw := &domain.RawDocument{
		URI:     "https://example.com/message",
		Content: []byte(content),
	}

	result, err := New().Normalise(context.Background(), raw)
	require.NoError(t, err)
	assert.Equal(t, "The actual body text.", result.Document.Content)
}

func TestNormalise_NoBlankLineKeepsContent(t *testing.T) {
	content := "just a single line of policy text with no header block"

	raw := &domain.RawDocument{
		URI:     "https://example.com/note",
		Content: []byte(content),
	}

	result, err := New().Normalise(context.Background(), raw)
	require.NoError(t, err)
	assert.Equal(t, content, result.Document.Content)
}

func TestStripHeaderBlock(t *testing.T) {
	assert.Equal(t, "body", stripHeaderBlock("a\nb\n\nbody"))
	assert.Equal(t, "no headers here", stripHeaderBlock("no headers here"))
}
