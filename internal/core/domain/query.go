package domain

import "time"

// Query intents recognised by the interpreter. The LLM path may return
// free-form intents; the keyword fallback always returns one of these.
const (
	IntentFindPeriod      = "find_period"
	IntentFindPaymentInfo = "find_payment_info"
	IntentFindCoverage    = "find_coverage"
	IntentFindClaimInfo   = "find_claim_info"
	IntentGeneralQuery    = "general_query"
)

// ParsedQuery is the structured interpretation of a free-text question.
// It is ephemeral, derived per question.
type ParsedQuery struct {
	// Intent is the main purpose of the query.
	Intent string `json:"intent"`

	// Entities are the key terms mentioned, in match order.
	Entities []string `json:"entities"`

	// Conditions are specific requirements attached to the query.
	// Always empty when produced by the keyword fallback.
	Conditions []string `json:"conditions"`
}

// ClauseEvaluation is the result of judging whether a policy clause
// answers a question.
type ClauseEvaluation struct {
	// Answer is "yes" or "no".
	Answer string `json:"answer"`

	// DirectAnswer is the specific answer extracted from the clause.
	DirectAnswer string `json:"direct_answer"`

	// Explanation states why the clause does or does not answer.
	Explanation string `json:"explanation"`

	// Confidence is in [0,1].
	Confidence float64 `json:"confidence"`
}

// SingleAnswer is the response of the single-question evaluation path.
type SingleAnswer struct {
	// Answer is the answer text.
	Answer string

	// Explanation states how the answer was derived.
	Explanation string

	// ProcessingTime is the request wall-clock duration.
	ProcessingTime time.Duration
}

// QueryLogEntry records one answered question for reporting.
type QueryLogEntry struct {
	// Timestamp is when the question was answered.
	Timestamp time.Time

	// Question is the user question.
	Question string

	// Intent is the interpreted intent.
	Intent string

	// Answer is the produced answer text.
	Answer string
}

// QueryReport aggregates the query log over a time window.
type QueryReport struct {
	// TotalQueries is the number of logged questions in the window.
	TotalQueries int

	// ByIntent counts questions per interpreted intent.
	ByIntent map[string]int

	// Window is the report time span.
	Window time.Duration
}
