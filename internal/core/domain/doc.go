// Package domain contains the core business entities of the policy
// question-answering pipeline: raw and normalised documents, text chunks,
// indexed vector records, search results, parsed queries and clause
// evaluations. It has no dependencies on adapters or infrastructure.
package domain
