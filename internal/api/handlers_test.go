package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hatchside/sightline/internal/arxiv"
	"github.com/hatchside/sightline/internal/config"
	"github.com/hatchside/sightline/internal/rag"
	"github.com/hatchside/sightline/internal/summarizer"
)

type fakePapers struct {
	err   error
	paper *arxiv.Paper
}

func (f *fakePapers) Fetch(_ context.Context, paperURL string) (*arxiv.Paper, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.paper, nil
}

type fakeQA struct {
	err         error
	answer      string
	gotQuestion string
	gotStrategy string
}

func (f *fakeQA) Ask(_ context.Context, _ *arxiv.Paper, question, strategy string) (string, error) {
	f.gotQuestion = question
	f.gotStrategy = strategy
	if f.err != nil {
		return "", f.err
	}
	return f.answer, nil
}

type fakeSummarizer struct {
	err     error
	summary summarizer.Summary
}

func (f *fakeSummarizer) Summarize(_ context.Context, _ *arxiv.Paper) (summarizer.Summary, error) {
	if f.err != nil {
		return summarizer.Summary{}, f.err
	}
	return f.summary, nil
}

func testPaper() *arxiv.Paper {
	return arxiv.NewPaper(arxiv.Fields{
		ID:    "1706.03762",
		Title: "Attention Is All You Need",
		Text:  "some text",
	})
}

func testSummary() summarizer.Summary {
	return summarizer.Summary{
		Title:        "Attention Is All You Need",
		Authors:      []string{"Ashish Vaswani"},
		Abstract:     "Abs",
		KeyPoints:    []string{"K"},
		Methodology:  "M",
		Results:      "R",
		Implications: "I",
	}
}

func serverUnderTest(papers PaperFetcher, qa QuestionAnswerer, sum PaperSummarizer) *Server {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := config.Load()
	return NewServer(papers, qa, sum, log, cfg)
}

func postJSON(t *testing.T, srv *Server, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	srv := serverUnderTest(&fakePapers{}, &fakeQA{}, &fakeSummarizer{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body["status"] != "ok" {
		t.Errorf("status field = %q", body["status"])
	}
	if body["timestamp"] == "" {
		t.Error("missing timestamp")
	}
}

func TestAsk_DefaultStrategy(t *testing.T) {
	qa := &fakeQA{answer: "the transformer"}
	srv := serverUnderTest(&fakePapers{paper: testPaper()}, qa, &fakeSummarizer{})

	rec := postJSON(t, srv, "/ask", `{"paper_url":"https://arxiv.org/abs/1706.03762","question":"What architecture?"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if qa.gotStrategy != rag.StrategySimple {
		t.Errorf("strategy = %q, want default %q", qa.gotStrategy, rag.StrategySimple)
	}
	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp["answer"] != "the transformer" {
		t.Errorf("answer = %q", resp["answer"])
	}
}

func TestAsk_ExplicitStrategy(t *testing.T) {
	qa := &fakeQA{answer: "ok"}
	srv := serverUnderTest(&fakePapers{paper: testPaper()}, qa, &fakeSummarizer{})

	rec := postJSON(t, srv, "/ask", `{"paper_url":"https://arxiv.org/abs/1706.03762","question":"q","strategy":"rag_fusion"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if qa.gotStrategy != rag.StrategyRAGFusion {
		t.Errorf("strategy = %q", qa.gotStrategy)
	}
}

func TestAsk_ErrorMapping(t *testing.T) {
	cases := []struct {
		name       string
		fetchErr   error
		askErr     error
		wantStatus int
	}{
		{"invalid url", fmt.Errorf("wrap: %w", arxiv.ErrInvalidURL), nil, http.StatusBadRequest},
		{"not found", fmt.Errorf("wrap: %w", arxiv.ErrNotFound), nil, http.StatusBadRequest},
		{"empty question", nil, rag.ErrEmptyQuestion, http.StatusBadRequest},
		{"no context", nil, rag.ErrNoContext, http.StatusInternalServerError},
		{"upstream failure", nil, errors.New("embeddings api: connection refused"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := serverUnderTest(
				&fakePapers{paper: testPaper(), err: tc.fetchErr},
				&fakeQA{err: tc.askErr},
				&fakeSummarizer{},
			)
			rec := postJSON(t, srv, "/ask", `{"paper_url":"https://arxiv.org/abs/x","question":"q"}`)
			if rec.Code != tc.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tc.wantStatus)
			}
			var body map[string]string
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatal(err)
			}
			if body["error"] == "" {
				t.Error("expected error message in body")
			}
		})
	}
}

func TestAsk_MalformedBody(t *testing.T) {
	srv := serverUnderTest(&fakePapers{paper: testPaper()}, &fakeQA{}, &fakeSummarizer{})
	rec := postJSON(t, srv, "/ask", `{not json`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestSummarize_OK(t *testing.T) {
	srv := serverUnderTest(&fakePapers{paper: testPaper()}, &fakeQA{}, &fakeSummarizer{summary: testSummary()})

	rec := postJSON(t, srv, "/summarize", `{"paper_url":"https://arxiv.org/abs/1706.03762"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	for _, field := range []string{"title", "authors", "abstract", "key_points", "methodology", "results", "implications"} {
		if _, ok := resp[field]; !ok {
			t.Errorf("response missing field %q", field)
		}
	}
}

func TestSummarize_SchemaErrorIsServerError(t *testing.T) {
	srv := serverUnderTest(
		&fakePapers{paper: testPaper()},
		&fakeQA{},
		&fakeSummarizer{err: &summarizer.SchemaError{Field: "results", Reason: "is empty"}},
	)
	rec := postJSON(t, srv, "/summarize", `{"paper_url":"https://arxiv.org/abs/1706.03762"}`)
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
}
