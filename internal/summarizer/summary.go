package summarizer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/hatchside/sightline/internal/llm"
)

// Summary is the structured paper summary. Every field must be non-empty;
// a summary that fails validation is never returned to the caller.
type Summary struct {
	Title        string   `json:"title"`
	Authors      []string `json:"authors"`
	Abstract     string   `json:"abstract"`
	KeyPoints    []string `json:"key_points"`
	Methodology  string   `json:"methodology"`
	Results      string   `json:"results"`
	Implications string   `json:"implications"`
}

// SchemaError reports model output that does not conform to the Summary
// schema.
type SchemaError struct {
	Field  string
	Reason string
}

func (e *SchemaError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("summary schema violation: field %q %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("summary schema violation: %s", e.Reason)
}

// Validate checks that every field is populated.
func (s *Summary) Validate() error {
	if strings.TrimSpace(s.Title) == "" {
		return &SchemaError{Field: "title", Reason: "is empty"}
	}
	if len(s.Authors) == 0 {
		return &SchemaError{Field: "authors", Reason: "is empty"}
	}
	for _, a := range s.Authors {
		if strings.TrimSpace(a) == "" {
			return &SchemaError{Field: "authors", Reason: "contains an empty entry"}
		}
	}
	if strings.TrimSpace(s.Abstract) == "" {
		return &SchemaError{Field: "abstract", Reason: "is empty"}
	}
	if len(s.KeyPoints) == 0 {
		return &SchemaError{Field: "key_points", Reason: "is empty"}
	}
	for _, k := range s.KeyPoints {
		if strings.TrimSpace(k) == "" {
			return &SchemaError{Field: "key_points", Reason: "contains an empty entry"}
		}
	}
	if strings.TrimSpace(s.Methodology) == "" {
		return &SchemaError{Field: "methodology", Reason: "is empty"}
	}
	if strings.TrimSpace(s.Results) == "" {
		return &SchemaError{Field: "results", Reason: "is empty"}
	}
	if strings.TrimSpace(s.Implications) == "" {
		return &SchemaError{Field: "implications", Reason: "is empty"}
	}
	return nil
}

// parseSummary strictly decodes model output into a Summary. Code fences
// are stripped first; unknown fields and type mismatches are rejected.
func parseSummary(raw string) (Summary, error) {
	text := llm.StripCodeBlock(raw)

	dec := json.NewDecoder(bytes.NewReader([]byte(text)))
	dec.DisallowUnknownFields()

	var s Summary
	if err := dec.Decode(&s); err != nil {
		return Summary{}, &SchemaError{Reason: fmt.Sprintf("invalid JSON: %v", err)}
	}
	if err := s.Validate(); err != nil {
		return Summary{}, err
	}
	return s, nil
}
