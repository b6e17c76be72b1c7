// Package normalisers provides format-specific document normalisers and a
// registry that selects one by MIME type and priority.
//
// Supported formats: PDF, DOCX, email (RFC 822), plain text. The fetcher
// infers the MIME type from the URL file extension; anything it does not
// recognise is treated as raw email/plain text content.
package normalisers
