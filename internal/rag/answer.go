package rag

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrEmptyQuestion is returned before any model call when the question
	// is empty or whitespace-only.
	ErrEmptyQuestion = errors.New("rag: question cannot be empty")

	// ErrNoContext is returned before any model call when retrieval produced
	// no context to ground an answer in.
	ErrNoContext = errors.New("rag: no relevant context retrieved")
)

const answerSystemPrompt = `You are an expert at answering questions about academic papers.
Use the following pieces of context to answer the question at the end.
If you don't know the answer, just say that you don't know, don't try to make up an answer.
If the question is not related to the paper, say that the question is not relevant to this paper.`

// Answerer generates the final answer from retrieved context.
type Answerer struct {
	llm Generator
}

func NewAnswerer(llm Generator) *Answerer {
	return &Answerer{llm: llm}
}

// Answer fills the answer template and invokes the model once, returning
// its text verbatim. An empty question or empty context fails before the
// model is called.
//
// TODO: add confidence and source sections to the answer.
func (a *Answerer) Answer(ctx context.Context, contextBlock, question string) (string, error) {
	if strings.TrimSpace(question) == "" {
		return "", ErrEmptyQuestion
	}
	if strings.TrimSpace(contextBlock) == "" {
		return "", ErrNoContext
	}

	user := fmt.Sprintf("Context:\n%s\n\nQuestion: %s\n\nAnswer:", contextBlock, question)
	answer, err := a.llm.Generate(ctx, answerSystemPrompt, user, 0)
	if err != nil {
		return "", fmt.Errorf("generate answer: %w", err)
	}
	return answer, nil
}
