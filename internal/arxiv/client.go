// Package arxiv fetches paper metadata from the arXiv Atom API and extracts
// text from the paper's PDF.
package arxiv

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

var (
	// ErrInvalidURL means the given string is not a usable arXiv paper URL.
	ErrInvalidURL = errors.New("arxiv: not a valid arXiv URL")

	// ErrNotFound means the arXiv API has no paper for the extracted ID.
	ErrNotFound = errors.New("arxiv: paper not found")
)

// Client talks to the arXiv export API.
type Client struct {
	baseURL           string
	fallbackPdftotext bool
	httpClient        *http.Client
}

func NewClient(baseURL string, fallbackPdftotext bool) *Client {
	if baseURL == "" {
		baseURL = "https://export.arxiv.org/api/query"
	}
	return &Client{
		baseURL:           baseURL,
		fallbackPdftotext: fallbackPdftotext,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// ParseID extracts the arXiv ID from an abs or pdf paper URL.
func ParseID(paperURL string) (string, error) {
	parsed, err := url.Parse(paperURL)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrInvalidURL, paperURL)
	}
	if !strings.Contains(parsed.Host, "arxiv.org") {
		return "", fmt.Errorf("%w: %s", ErrInvalidURL, paperURL)
	}

	switch {
	case strings.Contains(parsed.Path, "/abs/"):
		id := parsed.Path[strings.Index(parsed.Path, "/abs/")+len("/abs/"):]
		return strings.Trim(id, "/"), nil
	case strings.Contains(parsed.Path, "/pdf/"):
		id := parsed.Path[strings.Index(parsed.Path, "/pdf/")+len("/pdf/"):]
		id = strings.TrimSuffix(strings.Trim(id, "/"), ".pdf")
		return id, nil
	default:
		return "", fmt.Errorf("%w: unsupported path %q", ErrInvalidURL, parsed.Path)
	}
}

// Atom feed shapes for the arXiv query API.
type atomFeed struct {
	XMLName xml.Name    `xml:"feed"`
	Entries []atomEntry `xml:"entry"`
}

type atomEntry struct {
	ID         string         `xml:"id"`
	Title      string         `xml:"title"`
	Summary    string         `xml:"summary"`
	Published  string         `xml:"published"`
	Authors    []atomAuthor   `xml:"author"`
	Categories []atomCategory `xml:"category"`
	Links      []atomLink     `xml:"link"`
	DOI        string         `xml:"doi"`
}

type atomAuthor struct {
	Name string `xml:"name"`
}

type atomCategory struct {
	Term string `xml:"term,attr"`
}

type atomLink struct {
	Href  string `xml:"href,attr"`
	Rel   string `xml:"rel,attr"`
	Title string `xml:"title,attr"`
	Type  string `xml:"type,attr"`
}

// Lookup queries the arXiv API for a single paper ID. The returned Paper has
// metadata only; Fetch attaches the PDF text.
func (c *Client) Lookup(ctx context.Context, id string) (*Paper, error) {
	reqURL := fmt.Sprintf("%s?id_list=%s", c.baseURL, url.QueryEscape(id))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("arxiv api: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("arxiv api status %d", resp.StatusCode)
	}

	return parseFeed(body, id)
}

func parseFeed(body []byte, id string) (*Paper, error) {
	var feed atomFeed
	if err := xml.Unmarshal(body, &feed); err != nil {
		return nil, fmt.Errorf("parse atom feed: %w", err)
	}
	if len(feed.Entries) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	entry := feed.Entries[0]
	// Unknown IDs come back as a stub entry with no title.
	title := strings.TrimSpace(entry.Title)
	if title == "" || title == "Error" {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	f := Fields{
		ID:       id,
		Title:    collapseWhitespace(title),
		Abstract: collapseWhitespace(strings.TrimSpace(entry.Summary)),
		DOI:      strings.TrimSpace(entry.DOI),
	}
	for _, a := range entry.Authors {
		if name := strings.TrimSpace(a.Name); name != "" {
			f.Authors = append(f.Authors, name)
		}
	}
	for _, cat := range entry.Categories {
		if term := strings.TrimSpace(cat.Term); term != "" {
			f.Categories = append(f.Categories, term)
		}
	}
	for _, l := range entry.Links {
		if l.Title == "pdf" || l.Type == "application/pdf" {
			f.PDFURL = l.Href
			break
		}
	}
	if f.PDFURL == "" {
		f.PDFURL = fmt.Sprintf("https://arxiv.org/pdf/%s", id)
	}
	if t, err := time.Parse(time.RFC3339, strings.TrimSpace(entry.Published)); err == nil {
		f.Published = t
	}

	return NewPaper(f), nil
}

// Fetch resolves a paper URL to a fully-populated Paper: metadata from the
// query API plus text extracted from the downloaded PDF.
func (c *Client) Fetch(ctx context.Context, paperURL string) (*Paper, error) {
	id, err := ParseID(paperURL)
	if err != nil {
		return nil, err
	}

	paper, err := c.Lookup(ctx, id)
	if err != nil {
		return nil, err
	}

	text, err := c.downloadAndExtract(ctx, paper.pdfURL)
	if err != nil {
		return nil, fmt.Errorf("extract paper %s: %w", id, err)
	}
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("paper %s: no extractable text", id)
	}
	paper.text = text

	return paper, nil
}

// collapseWhitespace flattens the newline-continued text the Atom feed uses
// for titles and abstracts.
func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
