// Package summarizer produces schema-validated structured summaries of
// papers in two phases: independent per-chunk section summaries, then one
// synthesis call over the collected sections.
package summarizer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/hatchside/sightline/internal/arxiv"
	"github.com/hatchside/sightline/internal/chunker"
	"github.com/hatchside/sightline/internal/llm"
)

// ErrNoChunks is returned when a paper yields no text chunks; there is
// nothing to synthesize from, so no model call is made.
var ErrNoChunks = errors.New("summarizer: paper produced no chunks")

const sectionSystemPrompt = `You are an expert at analyzing sections of academic papers. Your task is to analyze a specific section of a paper and create a focused summary that captures the key information from that section.`

const sectionUserTemplate = `Please analyze the following section of the paper and create a focused summary.

Paper Title: %s
Section Content:
%s

Please provide a brief summary of this section, focusing on:
1. Main ideas and arguments presented
2. Key findings or methodological details
3. How this section contributes to the overall paper
4. Any significant equations, results, or conclusions

Make the summary clear and concise while preserving all important technical details.`

const synthesisSystemPrompt = `You are an expert at summarizing academic papers. Your task is to analyze academic papers and create comprehensive, well-structured summaries that capture the key aspects of the research.`

const synthesisUserTemplate = `Please analyze the following paper and create a comprehensive summary.

Paper Title: %s
Authors: %s
Abstract: %s

Summaries of All Sections:
%s

Respond with a single JSON object with exactly these fields:
- "title": the title of the paper (string)
- "authors": list of paper authors (array of strings)
- "abstract": a concise summary of the paper's abstract (string)
- "key_points": key points and findings from the paper (array of strings)
- "methodology": description of the methodology used (string)
- "results": main results and conclusions (string)
- "implications": implications and potential impact of the research (string)

Focus on:
1. Capturing the main contributions and findings
2. Explaining the methodology clearly
3. Highlighting key results and their significance
4. Discussing the implications of the research

Make the summary clear, concise, and well-structured. Respond with ONLY the JSON object, no other text.`

// Generator is the language-model dependency. GenerateJSON must return
// output intended to be a single JSON object.
type Generator interface {
	Generate(ctx context.Context, system, user string, temperature float64) (string, error)
	GenerateJSON(ctx context.Context, system, user string, temperature float64) (string, error)
}

// Summarizer runs the two-phase summary pipeline.
type Summarizer struct {
	llm           Generator
	chunkCfg      chunker.Config
	maxConcurrent int
	temperature   float64
	log           *slog.Logger
}

func New(g Generator, chunkCfg chunker.Config, maxConcurrent int, log *slog.Logger) *Summarizer {
	if maxConcurrent <= 0 {
		maxConcurrent = 5
	}
	return &Summarizer{
		llm:           g,
		chunkCfg:      chunkCfg,
		maxConcurrent: maxConcurrent,
		temperature:   0.3,
		log:           log,
	}
}

// Summarize produces a validated Summary of the paper. Multi-chunk papers
// get one section summary per chunk (run concurrently) followed by a single
// synthesis call; single-chunk papers synthesize directly from the raw
// chunk text.
func (s *Summarizer) Summarize(ctx context.Context, paper *arxiv.Paper) (Summary, error) {
	chunks := chunker.Split(paper.Text(), s.chunkCfg)
	if len(chunks) == 0 {
		return Summary{}, ErrNoChunks
	}

	s.log.Info("summarizing paper", "paper_id", paper.ID(), "chunks", len(chunks))

	var sections []string
	if len(chunks) == 1 {
		sections = []string{chunks[0].Text}
	} else {
		var err error
		sections, err = s.summarizeSections(ctx, paper.Title(), chunks)
		if err != nil {
			return Summary{}, err
		}
	}

	return s.synthesize(ctx, paper, sections)
}

// summarizeSections runs one model call per chunk with bounded concurrency.
// Results are reassembled in chunk order; any chunk failing after retries
// fails the whole summary.
func (s *Summarizer) summarizeSections(ctx context.Context, title string, chunks []chunker.Chunk) ([]string, error) {
	type sectionResult struct {
		idx     int
		summary string
		err     error
	}
	results := make(chan sectionResult, len(chunks))
	sem := make(chan struct{}, s.maxConcurrent)

	for i, chunk := range chunks {
		sem <- struct{}{}
		go func(i int, text string) {
			defer func() { <-sem }()
			user := fmt.Sprintf(sectionUserTemplate, title, text)
			var summary string
			var lastErr error
			for attempt := 0; attempt < llm.MaxRetries; attempt++ {
				summary, lastErr = s.llm.Generate(ctx, sectionSystemPrompt, user, s.temperature)
				if lastErr == nil || !llm.IsRetryable(lastErr) {
					break
				}
				s.log.Warn("retryable section summary error", "chunk", i, "attempt", attempt, "error", lastErr)
				select {
				case <-time.After(llm.Backoff(attempt)):
				case <-ctx.Done():
					results <- sectionResult{idx: i, err: ctx.Err()}
					return
				}
			}
			results <- sectionResult{idx: i, summary: summary, err: lastErr}
		}(i, chunk.Text)
	}

	sections := make([]string, len(chunks))
	for range chunks {
		r := <-results
		if r.err != nil {
			return nil, fmt.Errorf("summarize chunk %d: %w", r.idx, r.err)
		}
		sections[r.idx] = r.summary
	}
	return sections, nil
}

func (s *Summarizer) synthesize(ctx context.Context, paper *arxiv.Paper, sections []string) (Summary, error) {
	user := fmt.Sprintf(synthesisUserTemplate,
		paper.Title(),
		strings.Join(paper.Authors(), ", "),
		paper.Abstract(),
		strings.Join(sections, "\n\n"),
	)

	raw, err := s.llm.GenerateJSON(ctx, synthesisSystemPrompt, user, s.temperature)
	if err != nil {
		return Summary{}, fmt.Errorf("synthesize summary: %w", err)
	}

	return parseSummary(raw)
}
