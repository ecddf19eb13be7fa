// Package catalog defines the recipe record model and defensive accessors
// for fields that may arrive malformed from the backend.
package catalog

import (
	"encoding/json"
	"strings"
)

// StringList is a []string that tolerates malformed wire data.
// The backend occasionally emits null or non-string elements inside
// ingredient arrays; decoding drops those instead of failing the record.
type StringList []string

// UnmarshalJSON implements json.Unmarshaler.
// Non-array values decode to an empty list, non-string elements are skipped.
func (l *StringList) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		// Wrong shape entirely (null, object, number). Treat as absent.
		*l = nil
		return nil
	}

	out := make([]string, 0, len(raw))
	for _, elem := range raw {
		var s string
		if err := json.Unmarshal(elem, &s); err != nil {
			continue
		}
		out = append(out, s)
	}
	*l = out
	return nil
}

// Record is one recipe entity as served by the backend.
type Record struct {
	// RecordID is the stable opaque primary key from the backing store.
	// It is the cache key and the unit of identity for favorites and edits.
	RecordID string `json:"_id"`

	// DisplayID is the small integer used for human-facing numbering
	// and the default sort order.
	DisplayID int `json:"id"`

	// Title may be empty. Use DisplayTitle for rendering.
	Title string `json:"title"`

	// Ingredients is the full ingredient list.
	Ingredients StringList `json:"ingredients"`

	// ExtractedIngredients is the curated tag subset used for
	// filtering and previews.
	ExtractedIngredients StringList `json:"extractedIngredients"`

	// Instructions is free text; each non-blank line is one step.
	Instructions string `json:"instructions"`

	// ImageRef is a filename/key resolved externally to a URL.
	ImageRef string `json:"imageName"`
}

// DisplayTitle returns the title, or a fallback for untitled records.
func (r Record) DisplayTitle() string {
	if r.Title == "" {
		return "Untitled Recipe"
	}
	return r.Title
}

// CleanIngredients returns the well-formed entries of the full ingredient list.
func (r Record) CleanIngredients() []string {
	return cleanStrings(r.Ingredients)
}

// CleanTags returns the well-formed entries of the extracted ingredient tags.
func (r Record) CleanTags() []string {
	return cleanStrings(r.ExtractedIngredients)
}

// TagPreview returns up to n clean tags plus the count of tags not shown.
func (r Record) TagPreview(n int) (tags []string, more int) {
	clean := r.CleanTags()
	if n < 0 {
		n = 0
	}
	if len(clean) <= n {
		return clean, 0
	}
	return clean[:n], len(clean) - n
}

// InstructionSteps splits the instructions into one entry per non-blank line.
func (r Record) InstructionSteps() []string {
	if r.Instructions == "" {
		return nil
	}
	lines := strings.Split(r.Instructions, "\n")
	steps := make([]string, 0, len(lines))
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		steps = append(steps, line)
	}
	return steps
}

// cleanStrings drops empty entries. Non-string wire elements were already
// dropped during decoding, so emptiness is the only malformation left.
func cleanStrings(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s == "" {
			continue
		}
		out = append(out, s)
	}
	return out
}
