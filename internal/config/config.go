package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port string

	// OpenAI-compatible API
	OpenAIAPIKey   string
	OpenAIBaseURL  string
	ChatModel      string
	EmbeddingModel string
	LLMTimeout     time.Duration

	// arXiv metadata endpoint
	ArxivBaseURL string

	// Chunking for question answering
	QAChunkSize    int
	QAChunkOverlap int

	// Chunking for summarization (larger spans, fewer model calls)
	SummaryChunkSize    int
	SummaryChunkOverlap int

	// Retrieval
	TopK        int
	RRFConstant int

	// Summarizer concurrency
	MaxConcurrentSummaries int

	// HTTP
	AllowedOrigins []string
	MaxBodyBytes   int64

	// PDF
	PDFFallbackPdftotext bool
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8085"),

		OpenAIAPIKey:   os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL:  envOr("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		ChatModel:      envOr("CHAT_MODEL", "gpt-4o-mini"),
		EmbeddingModel: envOr("EMBEDDING_MODEL", "text-embedding-3-small"),
		LLMTimeout:     envDuration("LLM_TIMEOUT", 120*time.Second),

		ArxivBaseURL: envOr("ARXIV_BASE_URL", "https://export.arxiv.org/api/query"),

		QAChunkSize:    envInt("QA_CHUNK_SIZE", 250),
		QAChunkOverlap: envInt("QA_CHUNK_OVERLAP", 25),

		SummaryChunkSize:    envInt("SUMMARY_CHUNK_SIZE", 2000),
		SummaryChunkOverlap: envInt("SUMMARY_CHUNK_OVERLAP", 200),

		TopK:        envInt("TOP_K", 4),
		RRFConstant: envInt("RRF_CONSTANT", 60),

		MaxConcurrentSummaries: envInt("MAX_CONCURRENT_SUMMARIES", 5),

		AllowedOrigins: envList("ALLOWED_ORIGINS", []string{
			"http://localhost:3000",
			"http://localhost:8000",
		}),
		MaxBodyBytes: envInt64("MAX_BODY_BYTES", 1<<20), // 1MB

		PDFFallbackPdftotext: envBool("PDF_FALLBACK_PDFTOTEXT", true),
	}

	if cfg.QAChunkSize <= 0 {
		cfg.QAChunkSize = 250
	}
	if cfg.QAChunkOverlap < 0 {
		cfg.QAChunkOverlap = 25
	}
	if cfg.SummaryChunkSize <= 0 {
		cfg.SummaryChunkSize = 2000
	}
	if cfg.SummaryChunkOverlap < 0 {
		cfg.SummaryChunkOverlap = 200
	}
	if cfg.TopK <= 0 {
		cfg.TopK = 4
	}
	if cfg.RRFConstant <= 0 {
		cfg.RRFConstant = 60
	}
	if cfg.MaxConcurrentSummaries <= 0 {
		cfg.MaxConcurrentSummaries = 5
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = 1 << 20
	}
	if cfg.LLMTimeout <= 0 {
		cfg.LLMTimeout = 120 * time.Second
	}

	return cfg
}

func (c Config) Validate() error {
	if c.OpenAIAPIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY is required")
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envList(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		var out []string
		for _, p := range strings.Split(v, ",") {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return fallback
}
