package arxiv

import "time"

// Paper holds the metadata and extracted text of one arXiv paper. It is
// immutable after construction; slice-valued fields are exposed only as
// copies. A Paper lives for the duration of a single request.
type Paper struct {
	id         string
	title      string
	authors    []string
	published  time.Time
	categories []string
	abstract   string
	doi        string
	pdfURL     string
	text       string
}

// Fields describes a paper for construction. NewPaper copies slice fields,
// so later mutation of a Fields value cannot affect the Paper.
type Fields struct {
	ID         string
	Title      string
	Authors    []string
	Published  time.Time
	Categories []string
	Abstract   string
	DOI        string
	PDFURL     string
	Text       string
}

func NewPaper(f Fields) *Paper {
	return &Paper{
		id:         f.ID,
		title:      f.Title,
		authors:    copyStrings(f.Authors),
		published:  f.Published,
		categories: copyStrings(f.Categories),
		abstract:   f.Abstract,
		doi:        f.DOI,
		pdfURL:     f.PDFURL,
		text:       f.Text,
	}
}

func (p *Paper) ID() string           { return p.id }
func (p *Paper) Title() string        { return p.title }
func (p *Paper) Published() time.Time { return p.published }
func (p *Paper) Abstract() string     { return p.abstract }
func (p *Paper) DOI() string          { return p.doi }
func (p *Paper) PDFURL() string       { return p.pdfURL }

// Text returns the full extracted PDF text.
func (p *Paper) Text() string { return p.text }

func (p *Paper) Authors() []string    { return copyStrings(p.authors) }
func (p *Paper) Categories() []string { return copyStrings(p.categories) }

func copyStrings(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}
