// Package vectorstore provides an ephemeral in-memory similarity index over
// a fixed chunk set. A Store lives for a single request: build, retrieve,
// close. Nothing is persisted.
package vectorstore

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/hatchside/sightline/internal/chunker"
)

// ErrEmptyCorpus is returned when a store is built from zero chunks.
// Retrieval over nothing cannot ground an answer.
var ErrEmptyCorpus = errors.New("vectorstore: no chunks to index")

var errClosed = errors.New("vectorstore: store is closed")

// Embedder maps texts to fixed-dimensional vectors.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// Store is an in-memory cosine-similarity index, exclusively owned by the
// request that built it. Not safe for concurrent use.
type Store struct {
	emb     Embedder
	chunks  []chunker.Chunk
	vectors [][]float32
	closed  bool
}

// Build embeds all chunk texts in one batch and returns a ready index.
func Build(ctx context.Context, emb Embedder, chunks []chunker.Chunk) (*Store, error) {
	if len(chunks) == 0 {
		return nil, ErrEmptyCorpus
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}

	vectors, err := emb.Embed(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embed corpus: %w", err)
	}
	if len(vectors) != len(chunks) {
		return nil, fmt.Errorf("embedder returned %d vectors for %d chunks", len(vectors), len(chunks))
	}

	return &Store{
		emb:     emb,
		chunks:  chunks,
		vectors: vectors,
	}, nil
}

// Retrieve returns the k chunks most similar to query, nearest first.
// The query may be any text — a question, a paraphrase, or a hypothetical
// passage — it is embedded and matched, never searched literally.
func (s *Store) Retrieve(ctx context.Context, query string, k int) ([]chunker.Chunk, error) {
	if s.closed {
		return nil, errClosed
	}
	if k <= 0 {
		return nil, nil
	}

	qvecs, err := s.emb.Embed(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	if len(qvecs) == 0 {
		return nil, fmt.Errorf("embedder returned no vector for query")
	}
	qvec := qvecs[0]

	type scored struct {
		idx int
		sim float64
	}
	results := make([]scored, len(s.vectors))
	for i, v := range s.vectors {
		results[i] = scored{idx: i, sim: cosineSimilarity(qvec, v)}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].sim > results[j].sim
	})

	if k > len(results) {
		k = len(results)
	}
	out := make([]chunker.Chunk, k)
	for i := 0; i < k; i++ {
		out[i] = s.chunks[results[i].idx]
	}
	return out, nil
}

// Close releases the index. The owning request must call it on every exit
// path; the store must never be used afterwards.
func (s *Store) Close() {
	s.closed = true
	s.chunks = nil
	s.vectors = nil
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
