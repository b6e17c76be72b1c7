package driving

import (
	"context"

	"github.com/custodia-labs/policyqa/internal/core/domain"
)

// AnswerService runs the retrieval-and-answer pipeline.
type AnswerService interface {
	// AnswerQuestions downloads and indexes the document at documentURL,
	// then answers each question from the indexed content. The returned
	// slice matches the input order, one answer per question.
	//
	// Errors: *domain.DownloadError / *domain.ParseError when the
	// document cannot be processed, domain.ErrNoChunks when it yields no
	// text, domain.ErrVectorIndexUnavailable when indexing fails.
	AnswerQuestions(ctx context.Context, documentURL string, questions []string) ([]string, error)

	// AnswerSingle processes one question against the document and
	// evaluates the best matching clause.
	AnswerSingle(ctx context.Context, documentURL, question string) (domain.SingleAnswer, error)
}
