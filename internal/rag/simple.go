package rag

import "context"

// simpleStrategy retrieves top-k chunks for the question as asked, in
// retriever order.
type simpleStrategy struct {
	deps Deps
}

func (s *simpleStrategy) RetrieveContext(ctx context.Context, question string) (string, error) {
	chunks, err := s.deps.Retriever.Retrieve(ctx, question, s.deps.TopK)
	if err != nil {
		return "", err
	}
	return joinChunks(chunks), nil
}
