// Package rag implements retrieval-augmented question answering over one
// paper: query expansion, four interchangeable retrieval strategies, and
// answer generation grounded in the retrieved context.
package rag

import (
	"context"
	"strings"

	"github.com/hatchside/sightline/internal/chunker"
)

// Strategy names accepted on the ask endpoint.
const (
	StrategySimple     = "simple"
	StrategyMultiQuery = "multi_query"
	StrategyRAGFusion  = "rag_fusion"
	StrategyHyDE       = "hyde"
)

// Generator is the language-model dependency. Every call is one billed
// model invocation.
type Generator interface {
	Generate(ctx context.Context, system, user string, temperature float64) (string, error)
}

// Retriever answers "which chunks are most similar to this query" over a
// fixed chunk set, nearest first.
type Retriever interface {
	Retrieve(ctx context.Context, query string, k int) ([]chunker.Chunk, error)
}

// Strategy turns a question into a context block for answer generation.
type Strategy interface {
	RetrieveContext(ctx context.Context, question string) (string, error)
}

// Deps carries the collaborators shared by all strategies.
type Deps struct {
	LLM         Generator
	Retriever   Retriever
	TopK        int
	RRFConstant int
}

// NewStrategy selects a strategy by name. Unknown names get the simple
// strategy.
func NewStrategy(name string, deps Deps) Strategy {
	expander := &Expander{llm: deps.LLM}
	switch name {
	case StrategyMultiQuery:
		return &multiQueryStrategy{deps: deps, expander: expander}
	case StrategyRAGFusion:
		return &fusionStrategy{deps: deps, expander: expander}
	case StrategyHyDE:
		return &hydeStrategy{deps: deps, expander: expander}
	default:
		return &simpleStrategy{deps: deps}
	}
}

// joinChunks builds the context block: chunk texts joined by newlines.
func joinChunks(chunks []chunker.Chunk) string {
	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}
	return strings.Join(texts, "\n")
}
