package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/hatchside/sightline/internal/arxiv"
	"github.com/hatchside/sightline/internal/config"
	"github.com/hatchside/sightline/internal/summarizer"
)

// PaperFetcher resolves a paper URL to a fully-populated Paper.
type PaperFetcher interface {
	Fetch(ctx context.Context, paperURL string) (*arxiv.Paper, error)
}

// QuestionAnswerer answers a question about a fetched paper.
type QuestionAnswerer interface {
	Ask(ctx context.Context, paper *arxiv.Paper, question, strategy string) (string, error)
}

// PaperSummarizer produces a structured summary of a fetched paper.
type PaperSummarizer interface {
	Summarize(ctx context.Context, paper *arxiv.Paper) (summarizer.Summary, error)
}

// Server is the HTTP API server for sightline.
type Server struct {
	router     chi.Router
	papers     PaperFetcher
	qa         QuestionAnswerer
	summarizer PaperSummarizer
	log        *slog.Logger
	cfg        config.Config
}

// NewServer creates and configures the HTTP server.
func NewServer(papers PaperFetcher, qa QuestionAnswerer, sum PaperSummarizer, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		papers:     papers,
		qa:         qa,
		summarizer: sum,
		log:        log,
		cfg:        cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.cfg.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}))

	r.Get("/health", s.handleHealth)
	r.Post("/summarize", s.handleSummarize)
	r.Post("/ask", s.handleAsk)

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}
