package rag

import (
	"context"
	"sort"

	"github.com/hatchside/sightline/internal/chunker"
)

// fusionStrategy retrieves top-k chunks per expansion variant and reranks
// the union with reciprocal rank fusion: each chunk scores the sum of
// 1/(rank+c) over the variant lists it appears in, rank 0-based. The
// smoothing constant c (default 60) de-emphasizes rank differences at low
// positions while still rewarding top ranks.
type fusionStrategy struct {
	deps     Deps
	expander *Expander
}

type fusedChunk struct {
	chunk chunker.Chunk
	score float64
}

func (s *fusionStrategy) RetrieveContext(ctx context.Context, question string) (string, error) {
	variants, err := s.expander.Expand(ctx, question)
	if err != nil {
		return "", err
	}

	lists := make([][]chunker.Chunk, 0, len(variants))
	for _, variant := range variants {
		chunks, err := s.deps.Retriever.Retrieve(ctx, variant, s.deps.TopK)
		if err != nil {
			return "", err
		}
		lists = append(lists, chunks)
	}

	fused := reciprocalRankFusion(lists, s.deps.RRFConstant)

	chunks := make([]chunker.Chunk, len(fused))
	for i, f := range fused {
		chunks[i] = f.chunk
	}
	return joinChunks(chunks), nil
}

// reciprocalRankFusion merges ranked lists, keyed by exact chunk text.
// The result is sorted by descending fused score; the sort is stable over
// first-seen order, so ties go to the chunk encountered first.
func reciprocalRankFusion(lists [][]chunker.Chunk, c int) []fusedChunk {
	index := make(map[string]int)
	var fused []fusedChunk

	for _, list := range lists {
		for rank, chunk := range list {
			i, ok := index[chunk.Text]
			if !ok {
				i = len(fused)
				index[chunk.Text] = i
				fused = append(fused, fusedChunk{chunk: chunk})
			}
			fused[i].score += 1.0 / float64(rank+c)
		}
	}

	sort.SliceStable(fused, func(i, j int) bool {
		return fused[i].score > fused[j].score
	})
	return fused
}
