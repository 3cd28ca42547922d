package qa

import (
	"regexp"
	"strings"
)

const maxAnswerLen = 300

var codeBlockRe = regexp.MustCompile("(?s)^```(?:json)?\\s*(.*?)\\s*```$")

// stripCodeBlock removes a Markdown code fence the model sometimes wraps
// around its JSON output.
func stripCodeBlock(s string) string {
	s = strings.TrimSpace(s)
	if m := codeBlockRe.FindStringSubmatch(s); len(m) > 1 {
		return m[1]
	}
	return s
}

// ValidateAnswer checks an extracted answer against its source passage.
// A valid answer is non-empty, reasonably short, and appears verbatim in
// the passage. Anything the model invented is rejected. Returns the
// trimmed span and whether it is acceptable.
func ValidateAnswer(answer, passage string) (string, bool) {
	span := strings.TrimSpace(answer)
	if span == "" || len(span) > maxAnswerLen {
		return "", false
	}
	if !strings.Contains(passage, span) {
		// Tolerate case drift from the model but nothing else.
		if !strings.Contains(strings.ToLower(passage), strings.ToLower(span)) {
			return "", false
		}
	}
	return span, true
}
