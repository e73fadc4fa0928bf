package rag

import (
	"context"
	"fmt"
	"strings"
)

const expansionSystemPrompt = `You are an AI language model assistant.
Your task is to generate five different versions of the given user question to retrieve relevant documents from a vector database.
By generating multiple perspectives on the user question, your goal is to help the user overcome some of the limitations of the distance-based similarity search.
Provide these alternative questions separated by newlines.`

const hypotheticalSystemPrompt = `You are an AI academic research assistant.
Please write an academic passage to answer the following question.`

// Expander produces query variants via the language model.
type Expander struct {
	llm Generator
}

// Expand asks the model for five alternative phrasings of the question and
// splits its response on raw newlines. Lines are not trimmed: blank or
// whitespace-only variants are kept and embedded like any other query.
func (e *Expander) Expand(ctx context.Context, question string) ([]string, error) {
	response, err := e.llm.Generate(ctx, expansionSystemPrompt, "Original question: "+question, 0)
	if err != nil {
		return nil, fmt.Errorf("expand question: %w", err)
	}
	return strings.Split(response, "\n"), nil
}

// Hypothetical asks the model to write an academic passage answering the
// question. The passage is used as an embedding query, not as search text.
func (e *Expander) Hypothetical(ctx context.Context, question string) (string, error) {
	passage, err := e.llm.Generate(ctx, hypotheticalSystemPrompt, "Question: "+question, 0)
	if err != nil {
		return "", fmt.Errorf("generate hypothetical passage: %w", err)
	}
	return passage, nil
}
