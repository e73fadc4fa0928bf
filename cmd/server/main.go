package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/hatchside/sightline/internal/api"
	"github.com/hatchside/sightline/internal/arxiv"
	"github.com/hatchside/sightline/internal/chunker"
	"github.com/hatchside/sightline/internal/config"
	"github.com/hatchside/sightline/internal/llm"
	"github.com/hatchside/sightline/internal/rag"
	"github.com/hatchside/sightline/internal/summarizer"
)

func main() {
	_ = godotenv.Load()

	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	// Initialize clients.
	papers := arxiv.NewClient(cfg.ArxivBaseURL, cfg.PDFFallbackPdftotext)
	chat := llm.NewClient(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.ChatModel, cfg.LLMTimeout)
	embedder := llm.NewEmbedder(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.EmbeddingModel, cfg.LLMTimeout)

	qa := rag.NewPaperQA(chat, embedder, chunker.Config{
		ChunkSize:    cfg.QAChunkSize,
		ChunkOverlap: cfg.QAChunkOverlap,
		MinChunk:     10,
	}, cfg.TopK, cfg.RRFConstant, log)

	sum := summarizer.New(chat, chunker.Config{
		ChunkSize:    cfg.SummaryChunkSize,
		ChunkOverlap: cfg.SummaryChunkOverlap,
		MinChunk:     10,
	}, cfg.MaxConcurrentSummaries, log)

	srv := api.NewServer(papers, qa, sum, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 300 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)

		chat.Close()
		embedder.Close()
	}()

	log.Info("starting sightline", "port", cfg.Port)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
