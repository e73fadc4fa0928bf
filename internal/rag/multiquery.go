package rag

import (
	"context"

	"github.com/hatchside/sightline/internal/chunker"
)

// multiQueryStrategy retrieves top-k chunks per expansion variant and takes
// the union, de-duplicated by exact chunk text. A variant that retrieves
// nothing contributes nothing.
type multiQueryStrategy struct {
	deps     Deps
	expander *Expander
}

func (s *multiQueryStrategy) RetrieveContext(ctx context.Context, question string) (string, error) {
	variants, err := s.expander.Expand(ctx, question)
	if err != nil {
		return "", err
	}

	seen := make(map[string]struct{})
	var union []chunker.Chunk
	for _, variant := range variants {
		chunks, err := s.deps.Retriever.Retrieve(ctx, variant, s.deps.TopK)
		if err != nil {
			return "", err
		}
		for _, c := range chunks {
			if _, ok := seen[c.Text]; ok {
				continue
			}
			seen[c.Text] = struct{}{}
			union = append(union, c)
		}
	}

	return joinChunks(union), nil
}
