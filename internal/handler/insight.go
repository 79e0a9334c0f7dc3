package handler

import (
	"net/http"

	"github.com/sakif/careercraft/internal/insight"
)

// InsightHandler serves the analysis endpoints backed by the canned
// Analyzer. The response shapes are stable so a real model can replace the
// analyzer later without touching clients.
type InsightHandler struct {
	analyzer *insight.Analyzer
}

func NewInsightHandler(analyzer *insight.Analyzer) *InsightHandler {
	return &InsightHandler{analyzer: analyzer}
}

// HandleAnalyzeResume returns a score, the inferred role and the gaps to
// work on.
//
// HTTP: GET /api/insights/resume
func (h *InsightHandler) HandleAnalyzeResume(w http.ResponseWriter, r *http.Request) {
	analysis, err := h.analyzer.AnalyzeResume(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, analysis)
}

// HandleMatchJobs returns job postings ranked by match percentage.
//
// HTTP: GET /api/insights/jobs
func (h *InsightHandler) HandleMatchJobs(w http.ResponseWriter, r *http.Request) {
	jobs, err := h.analyzer.MatchJobs(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, jobs)
}

// HandleSuggestReply returns a drafted reply for a community post.
//
// HTTP: GET /api/insights/suggest
func (h *InsightHandler) HandleSuggestReply(w http.ResponseWriter, r *http.Request) {
	suggestion, err := h.analyzer.SuggestReply(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"suggestion": suggestion})
}
