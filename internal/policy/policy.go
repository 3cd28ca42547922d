package policy

import "strings"

// Section is one ordered, addressable paragraph of policy text.
// Sections are created once per analysis run and never mutated; the
// index is the identity used by the vector store.
type Section struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
}

// Segment splits raw extracted text into ordered sections on blank-line
// boundaries. Consecutive blank lines collapse into a single boundary, so
// empty chunks are never emitted. Empty input yields no sections, which
// the analyzer treats as a valid "nothing to index" state.
func Segment(raw string) []Section {
	var sections []Section
	for _, chunk := range splitParagraphs(raw) {
		sections = append(sections, Section{Index: len(sections), Text: chunk})
	}
	return sections
}

func splitParagraphs(text string) []string {
	// Normalize Windows line endings before splitting on blank lines.
	text = strings.ReplaceAll(text, "\r\n", "\n")
	parts := strings.Split(text, "\n\n")
	var out []string
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
