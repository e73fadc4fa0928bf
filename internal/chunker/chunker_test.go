package chunker

import (
	"strings"
	"testing"
)

func TestSplit_SmallTextFitsOneChunk(t *testing.T) {
	text := strings.Repeat("word ", 100)

	cfg := Config{ChunkSize: 500, ChunkOverlap: 50, MinChunk: 10}
	chunks := Split(text, cfg)

	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0].Index != 0 {
		t.Errorf("expected index 0, got %d", chunks[0].Index)
	}
	if chunks[0].Total != 1 {
		t.Errorf("expected total 1, got %d", chunks[0].Total)
	}
}

func TestSplit_LargeTextRequiresSplitting(t *testing.T) {
	// ~3000 words, well above a 500-token target.
	text := strings.Repeat("The quick brown fox jumps over the lazy dog. ", 300)

	cfg := Config{ChunkSize: 500, ChunkOverlap: 50, MinChunk: 10}
	chunks := Split(text, cfg)

	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	for i, c := range chunks {
		if c.Index != i {
			t.Errorf("chunk %d has index %d", i, c.Index)
		}
		if c.Total != len(chunks) {
			t.Errorf("chunk %d has total %d, want %d", i, c.Total, len(chunks))
		}
	}
}

func TestSplit_OrderingMatchesSource(t *testing.T) {
	var sb strings.Builder
	markers := []string{"alpha", "bravo", "charlie", "delta", "echo"}
	for _, m := range markers {
		sb.WriteString("Marker " + m + ". ")
		sb.WriteString(strings.Repeat("Padding sentence for bulk. ", 60))
		sb.WriteString("\n\n")
	}

	cfg := Config{ChunkSize: 120, ChunkOverlap: 0, MinChunk: 5}
	chunks := Split(sb.String(), cfg)

	joined := joinTexts(chunks)
	lastPos := -1
	for _, m := range markers {
		pos := strings.Index(joined, "Marker "+m)
		if pos < 0 {
			t.Fatalf("marker %q missing from chunked output", m)
		}
		if pos < lastPos {
			t.Errorf("marker %q appears out of source order", m)
		}
		lastPos = pos
	}
}

func TestSplit_RoundTripRetainsContent(t *testing.T) {
	// Every sentence from the source should survive chunking somewhere.
	sentences := []string{
		"Transformers rely entirely on attention mechanisms.",
		"Recurrence and convolutions are dispensed with completely.",
		"The encoder is composed of a stack of identical layers.",
		"Multi-head attention allows joint attention over subspaces.",
		"Positional encodings inject order information into the model.",
	}
	text := strings.Join(sentences, " ")

	cfg := Config{ChunkSize: 15, ChunkOverlap: 3, MinChunk: 1}
	chunks := Split(text, cfg)
	joined := joinTexts(chunks)

	for _, s := range sentences {
		if !strings.Contains(joined, s) {
			t.Errorf("sentence %q lost during chunking", s)
		}
	}
}

func TestSplit_OverlapCarriesTailIntoNextChunk(t *testing.T) {
	text := strings.Repeat("A steady stream of short sentences flows here. ", 100)

	cfg := Config{ChunkSize: 100, ChunkOverlap: 20, MinChunk: 5}
	chunks := Split(text, cfg)
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}

	first := strings.Fields(chunks[0].Text)
	tail := strings.Join(first[len(first)-3:], " ")
	if !strings.Contains(chunks[1].Text, tail) {
		t.Errorf("second chunk does not start with overlap from first; tail %q", tail)
	}
}

func TestSplit_EmptyText(t *testing.T) {
	if chunks := Split("", DefaultConfig()); len(chunks) != 0 {
		t.Errorf("expected no chunks for empty text, got %d", len(chunks))
	}
	if chunks := Split("   \n\n  ", DefaultConfig()); len(chunks) != 0 {
		t.Errorf("expected no chunks for whitespace text, got %d", len(chunks))
	}
}

func TestSplit_TinyFragmentsDropped(t *testing.T) {
	cfg := Config{ChunkSize: 100, ChunkOverlap: 0, MinChunk: 20}
	chunks := Split("just a few words", cfg)
	if len(chunks) != 0 {
		t.Errorf("expected fragment below MinChunk to be dropped, got %d chunks", len(chunks))
	}
}

func TestEstimateTokens(t *testing.T) {
	if got := EstimateTokens(""); got != 0 {
		t.Errorf("empty text: got %d, want 0", got)
	}
	if got := EstimateTokens("x"); got < 1 {
		t.Errorf("single char: got %d, want >= 1", got)
	}
	hundred := strings.Repeat("word ", 100)
	if got := EstimateTokens(hundred); got < 100 || got > 150 {
		t.Errorf("100 words: got %d tokens, want ~133", got)
	}
}

func joinTexts(chunks []Chunk) string {
	var sb strings.Builder
	for _, c := range chunks {
		sb.WriteString(c.Text)
		sb.WriteString(" ")
	}
	return sb.String()
}
