package services

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/custodia-labs/policyqa/internal/core/domain"
	"github.com/custodia-labs/policyqa/internal/core/ports/driven"
	"github.com/custodia-labs/policyqa/internal/logger"
)

// entityVocabulary is the fixed insurance vocabulary scanned by the
// keyword fallback, in match order.
var entityVocabulary = []string{
	"grace period",
	"waiting period",
	"premium",
	"coverage",
	"hospital",
	"maternity",
	"claim",
	"ncd",
	"deductible",
	"exclusion",
	"benefit",
	"policy",
	"term",
	"renewal",
	"cancellation",
}

// intentGroups maps keyword groups to intents, checked in order. The
// first group with any keyword present in the question wins.
var intentGroups = []struct {
	intent   string
	keywords []string
}{
	{domain.IntentFindPeriod, []string{"grace", "waiting", "period"}},
	{domain.IntentFindPaymentInfo, []string{"premium", "payment"}},
	{domain.IntentFindCoverage, []string{"coverage", "cover", "benefit"}},
	{domain.IntentFindClaimInfo, []string{"claim", "ncd", "discount"}},
}

const interpretPrompt = `Parse this insurance policy question into structured JSON.

Question: %s

Respond with only a JSON object of this exact shape:
{"intent": "...", "entities": ["..."], "conditions": ["..."]}

intent is one of: find_period, find_payment_info, find_coverage, find_claim_info, general_query.
entities are the key policy terms mentioned. conditions are specific requirements stated in the question.`

// QueryInterpreter turns a free-text question into a structured
// ParsedQuery. The LLM path is optional; a nil or failing LLM degrades
// to the deterministic keyword fallback and never surfaces an error.
type QueryInterpreter struct {
	llm driven.LLMService
}

// NewQueryInterpreter creates a new query interpreter. llm may be nil.
func NewQueryInterpreter(llm driven.LLMService) *QueryInterpreter {
	return &QueryInterpreter{llm: llm}
}

// Parse interprets the question.
func (s *QueryInterpreter) Parse(ctx context.Context, question string) domain.ParsedQuery {
	if s.llm != nil {
		parsed, err := s.parseLLM(ctx, question)
		if err == nil {
			return parsed
		}
		logger.Debug("query interpretation fell back to keywords: %v", err)
	}
	return parseKeywords(question)
}

func (s *QueryInterpreter) parseLLM(ctx context.Context, question string) (domain.ParsedQuery, error) {
	prompt := strings.Replace(interpretPrompt, "%s", question, 1)
	raw, err := s.llm.Generate(ctx, prompt, driven.GenerateOptions{MaxTokens: 256})
	if err != nil {
		return domain.ParsedQuery{}, err
	}

	var parsed domain.ParsedQuery
	if err := json.Unmarshal([]byte(extractJSON(raw)), &parsed); err != nil {
		return domain.ParsedQuery{}, domain.ErrLLMMalformedOutput
	}
	if parsed.Intent == "" {
		return domain.ParsedQuery{}, domain.ErrLLMMalformedOutput
	}
	return parsed, nil
}

// parseKeywords is the deterministic fallback: scan the fixed vocabulary
// for entities and pick the intent from priority-ordered keyword groups.
func parseKeywords(question string) domain.ParsedQuery {
	lower := strings.ToLower(question)

	var entities []string
	for _, term := range entityVocabulary {
		if strings.Contains(lower, term) {
			entities = append(entities, term)
		}
	}

	intent := domain.IntentGeneralQuery
	for _, group := range intentGroups {
		if containsAny(lower, group.keywords) {
			intent = group.intent
			break
		}
	}

	return domain.ParsedQuery{
		Intent:     intent,
		Entities:   entities,
		Conditions: []string{},
	}
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

// extractJSON trims text surrounding the outermost JSON object, since
// models often wrap the object in prose or code fences.
func extractJSON(raw string) string {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end == -1 || end < start {
		return raw
	}
	return raw[start : end+1]
}
