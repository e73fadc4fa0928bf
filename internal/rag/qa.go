package rag

import (
	"context"
	"log/slog"
	"strings"

	"github.com/hatchside/sightline/internal/arxiv"
	"github.com/hatchside/sightline/internal/chunker"
	"github.com/hatchside/sightline/internal/vectorstore"
)

// PaperQA answers questions about one paper. Each Ask builds an ephemeral
// vector index over the paper's chunks, runs the selected strategy against
// it, and tears the index down before returning.
type PaperQA struct {
	llm      Generator
	embedder vectorstore.Embedder
	chunkCfg chunker.Config
	topK     int
	rrfK     int
	log      *slog.Logger
}

func NewPaperQA(llm Generator, embedder vectorstore.Embedder, chunkCfg chunker.Config, topK, rrfK int, log *slog.Logger) *PaperQA {
	if topK <= 0 {
		topK = 4
	}
	if rrfK <= 0 {
		rrfK = 60
	}
	return &PaperQA{
		llm:      llm,
		embedder: embedder,
		chunkCfg: chunkCfg,
		topK:     topK,
		rrfK:     rrfK,
		log:      log,
	}
}

// Ask answers a question about the paper using the named strategy.
func (q *PaperQA) Ask(ctx context.Context, paper *arxiv.Paper, question, strategy string) (string, error) {
	if strings.TrimSpace(question) == "" {
		return "", ErrEmptyQuestion
	}

	chunks := chunker.Split(paper.Text(), q.chunkCfg)

	store, err := vectorstore.Build(ctx, q.embedder, chunks)
	if err != nil {
		return "", err
	}
	defer store.Close()

	q.log.Info("answering question",
		"paper_id", paper.ID(),
		"strategy", strategy,
		"chunks", len(chunks),
	)

	strat := NewStrategy(strategy, Deps{
		LLM:         q.llm,
		Retriever:   store,
		TopK:        q.topK,
		RRFConstant: q.rrfK,
	})

	contextBlock, err := strat.RetrieveContext(ctx, question)
	if err != nil {
		return "", err
	}

	return NewAnswerer(q.llm).Answer(ctx, contextBlock, question)
}
