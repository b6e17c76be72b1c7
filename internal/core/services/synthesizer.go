package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/custodia-labs/policyqa/internal/core/domain"
	"github.com/custodia-labs/policyqa/internal/core/ports/driven"
	"github.com/custodia-labs/policyqa/internal/logger"
)

const (
	// NoInformationAnswer is the fixed sentence returned when no context
	// is available or nothing in the document addresses the question.
	NoInformationAnswer = "No relevant information found in the document."

	// maxContextTexts bounds how many retrieved texts feed the LLM.
	maxContextTexts = 5

	// clauseTruncateLen bounds the fallback direct answer.
	clauseTruncateLen = 200

	// answerTruncateLen bounds the fallback whole-text answer.
	answerTruncateLen = 500

	// clauseMatchThreshold is the word-overlap confidence above which the
	// fallback judges a clause to answer the question.
	clauseMatchThreshold = 0.3
)

const answerPrompt = `You are an insurance policy analyst. Answer the question using only the provided policy context. If the context does not contain the answer, reply exactly: %s

Context:
%s

Question: %s

Answer concisely in one or two sentences.`

const evaluatePrompt = `You are an insurance policy analyst. Judge whether the clause answers the question.

Question: %s

Clause: %s

Respond with only a JSON object of this exact shape:
{"answer": "yes" or "no", "direct_answer": "...", "explanation": "...", "confidence": 0.0}`

// AnswerSynthesizer produces answer text from retrieved policy clauses.
// The LLM path is optional; a nil or failing LLM degrades to
// deterministic text heuristics and never surfaces an error.
type AnswerSynthesizer struct {
	llm driven.LLMService
}

// NewAnswerSynthesizer creates a new answer synthesizer. llm may be nil.
func NewAnswerSynthesizer(llm driven.LLMService) *AnswerSynthesizer {
	return &AnswerSynthesizer{llm: llm}
}

// GenerateAnswer answers the question from the retrieved texts. Empty
// input returns the fixed no-information sentence.
func (s *AnswerSynthesizer) GenerateAnswer(ctx context.Context, question string, relevantTexts []string) string {
	if len(relevantTexts) == 0 {
		return NoInformationAnswer
	}

	texts := relevantTexts
	if len(texts) > maxContextTexts {
		texts = texts[:maxContextTexts]
	}

	if s.llm != nil {
		prompt := fmt.Sprintf(answerPrompt, NoInformationAnswer, strings.Join(texts, "\n\n"), question)
		answer, err := s.llm.Generate(ctx, prompt, driven.GenerateOptions{MaxTokens: 512})
		if err == nil && answer != "" {
			return answer
		}
		logger.Debug("answer generation fell back to heuristics: %v", err)
	}

	return fallbackAnswer(question, strings.Join(texts, " "))
}

// EvaluateClause judges whether a single clause answers the question.
func (s *AnswerSynthesizer) EvaluateClause(ctx context.Context, question, clause string) domain.ClauseEvaluation {
	if s.llm != nil {
		eval, err := s.evaluateLLM(ctx, question, clause)
		if err == nil {
			return eval
		}
		logger.Debug("clause evaluation fell back to heuristics: %v", err)
	}
	return fallbackEvaluate(question, clause)
}

func (s *AnswerSynthesizer) evaluateLLM(ctx context.Context, question, clause string) (domain.ClauseEvaluation, error) {
	prompt := fmt.Sprintf(evaluatePrompt, question, clause)
	raw, err := s.llm.Generate(ctx, prompt, driven.GenerateOptions{MaxTokens: 512})
	if err != nil {
		return domain.ClauseEvaluation{}, err
	}

	var eval domain.ClauseEvaluation
	if err := json.Unmarshal([]byte(extractJSON(raw)), &eval); err != nil {
		return domain.ClauseEvaluation{}, domain.ErrLLMMalformedOutput
	}
	if eval.Answer != "yes" && eval.Answer != "no" {
		return domain.ClauseEvaluation{}, domain.ErrLLMMalformedOutput
	}
	// Models occasionally report confidences outside [0, 1].
	if eval.Confidence < 0 {
		eval.Confidence = 0
	}
	if eval.Confidence > 1 {
		eval.Confidence = 1
	}
	return eval, nil
}

// fallbackAnswer picks up to three sentences containing a question word,
// or falls back to a truncated prefix of the context.
func fallbackAnswer(question, context string) string {
	questionWords := wordSet(question)

	var matched []string
	for _, sentence := range strings.Split(context, ".") {
		sentence = strings.TrimSpace(sentence)
		if sentence == "" {
			continue
		}
		if overlap(wordSet(sentence), questionWords) > 0 {
			matched = append(matched, sentence)
			if len(matched) == 3 {
				break
			}
		}
	}
	if len(matched) > 0 {
		return strings.Join(matched, ". ") + "."
	}

	if len(context) > answerTruncateLen {
		return context[:answerTruncateLen] + "..."
	}
	return context
}

// fallbackEvaluate scores a clause by word-set overlap with the question.
func fallbackEvaluate(question, clause string) domain.ClauseEvaluation {
	questionWords := wordSet(question)
	clauseWords := wordSet(clause)

	confidence := 0.0
	if len(questionWords) > 0 {
		confidence = float64(overlap(clauseWords, questionWords)) / float64(len(questionWords))
	}
	if confidence > 1 {
		confidence = 1
	}

	if confidence > clauseMatchThreshold {
		direct := clause
		if len(direct) > clauseTruncateLen {
			direct = direct[:clauseTruncateLen] + "..."
		}
		return domain.ClauseEvaluation{
			Answer:       "yes",
			DirectAnswer: direct,
			Explanation:  "Clause shares key terms with the question.",
			Confidence:   confidence,
		}
	}
	return domain.ClauseEvaluation{
		Answer:       "no",
		DirectAnswer: NoInformationAnswer,
		Explanation:  "Clause does not share enough terms with the question.",
		Confidence:   confidence,
	}
}

func wordSet(text string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, word := range strings.Fields(strings.ToLower(text)) {
		word = strings.Trim(word, ".,;:?!\"'()")
		if word != "" {
			set[word] = struct{}{}
		}
	}
	return set
}

func overlap(a, b map[string]struct{}) int {
	count := 0
	for word := range a {
		if _, ok := b[word]; ok {
			count++
		}
	}
	return count
}
