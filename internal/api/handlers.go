package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/hatchside/sightline/internal/arxiv"
	"github.com/hatchside/sightline/internal/rag"
)

type summarizeRequest struct {
	PaperURL string `json:"paper_url"`
}

type askRequest struct {
	PaperURL string `json:"paper_url"`
	Question string `json:"question"`
	Strategy string `json:"strategy"`
}

type askResponse struct {
	Answer string `json:"answer"`
}

func (s *Server) handleSummarize(w http.ResponseWriter, r *http.Request) {
	var req summarizeRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	paper, err := s.papers.Fetch(r.Context(), req.PaperURL)
	if err != nil {
		s.writeError(w, err)
		return
	}

	summary, err := s.summarizer.Summarize(r.Context(), paper)
	if err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	var req askRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	if req.Strategy == "" {
		req.Strategy = rag.StrategySimple
	}

	paper, err := s.papers.Fetch(r.Context(), req.PaperURL)
	if err != nil {
		s.writeError(w, err)
		return
	}

	answer, err := s.qa.Ask(r.Context(), paper, req.Question, req.Strategy)
	if err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, askResponse{Answer: answer})
}

// decodeJSON reads a size-capped JSON body into v, writing a 400 and
// returning false on failure.
func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}

// writeError maps core failures onto HTTP statuses: bad input to 400,
// everything else to 500.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, arxiv.ErrInvalidURL),
		errors.Is(err, arxiv.ErrNotFound),
		errors.Is(err, rag.ErrEmptyQuestion):
		jsonError(w, err.Error(), http.StatusBadRequest)
	default:
		s.log.Error("request failed", "error", err)
		jsonError(w, "error processing paper: "+err.Error(), http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, status int) {
	writeJSON(w, status, map[string]string{"error": msg})
}
