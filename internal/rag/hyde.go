package rag

import "context"

// hydeStrategy (hypothetical document embedding) generates an academic
// passage answering the question and retrieves by the passage's embedding
// rather than the question's.
type hydeStrategy struct {
	deps     Deps
	expander *Expander
}

func (s *hydeStrategy) RetrieveContext(ctx context.Context, question string) (string, error) {
	passage, err := s.expander.Hypothetical(ctx, question)
	if err != nil {
		return "", err
	}

	chunks, err := s.deps.Retriever.Retrieve(ctx, passage, s.deps.TopK)
	if err != nil {
		return "", err
	}
	return joinChunks(chunks), nil
}
