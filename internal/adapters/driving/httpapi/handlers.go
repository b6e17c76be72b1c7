package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/custodia-labs/policyqa/internal/core/domain"
	"github.com/custodia-labs/policyqa/internal/logger"
)

// Request and response wire formats.

type runRequest struct {
	Documents string   `json:"documents"`
	Questions []string `json:"questions"`
}

type runResponse struct {
	Answers []string `json:"answers"`
}

type processSingleRequest struct {
	Documents string `json:"documents"`
	Question  string `json:"question"`
}

type processSingleResponse struct {
	Answer         string `json:"answer"`
	Explanation    string `json:"explanation"`
	ProcessingTime string `json:"processing_time"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"service": "policyqa",
		"status":  "running",
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	var req runRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Documents == "" || len(req.Questions) == 0 {
		writeError(w, http.StatusBadRequest, "documents and questions are required")
		return
	}

	answers, err := s.answers.AnswerQuestions(r.Context(), req.Documents, req.Questions)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, runResponse{Answers: answers})
}

func (s *Server) handleProcessSingle(w http.ResponseWriter, r *http.Request) {
	var req processSingleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Documents == "" || req.Question == "" {
		writeError(w, http.StatusBadRequest, "documents and question are required")
		return
	}

	answer, err := s.answers.AnswerSingle(r.Context(), req.Documents, req.Question)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, processSingleResponse{
		Answer:         answer.Answer,
		Explanation:    answer.Explanation,
		ProcessingTime: answer.ProcessingTime.String(),
	})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.admin.Stats(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"index": map[string]any{
			"total_vector_count": stats.Index.TotalVectorCount,
			"dimension":          stats.Index.Dimension,
			"fullness":           stats.Index.Fullness,
		},
		"performance": map[string]any{
			"total_requests":    stats.Performance.TotalRequests,
			"avg_response_time": stats.Performance.AvgResponseTime.String(),
			"min_response_time": stats.Performance.MinResponseTime.String(),
			"max_response_time": stats.Performance.MaxResponseTime.String(),
			"error_rate":        stats.Performance.ErrorRate,
			"uptime":            stats.Performance.Uptime.String(),
		},
		"cache": map[string]any{
			"entries": stats.Cache.Entries,
			"hits":    stats.Cache.Hits,
			"misses":  stats.Cache.Misses,
		},
	})
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	report, err := s.admin.Report(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"total_queries": report.TotalQueries,
		"by_intent":     report.ByIntent,
		"window":        report.Window.String(),
	})
}

func (s *Server) handleClearIndex(w http.ResponseWriter, r *http.Request) {
	if err := s.admin.ClearIndex(r.Context()); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

// writeDomainError maps typed domain errors to status codes. Client
// errors carry the cause; 500 bodies never leak internal detail.
func writeDomainError(w http.ResponseWriter, err error) {
	var dlErr *domain.DownloadError
	var parseErr *domain.ParseError

	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, "unauthorized")
	case errors.As(err, &dlErr):
		writeError(w, http.StatusBadRequest, dlErr.Error())
	case errors.As(err, &parseErr):
		writeError(w, http.StatusBadRequest, parseErr.Error())
	case errors.Is(err, domain.ErrNoChunks), errors.Is(err, domain.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		logger.Error("request failed: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error("encoding response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}
