package qa

import (
	"fmt"
	"strings"
)

const extractionPrompt = `You are an extractive question answering system. Answer the question using ONLY a short literal quote copied verbatim from the passage below.

Rules:
- The answer MUST be a contiguous span copied exactly from the passage.
- Keep the span as short as possible while still answering the question.
- Do not paraphrase, summarize, or add words that are not in the passage.
- If the passage does not contain an answer, return an empty answer.

Respond with ONLY a JSON object of the form {"answer": "<span>", "confidence": <0.0-1.0>} and no other text. Use {"answer": "", "confidence": 0} when there is no answer.`

// buildPrompt assembles the full extraction prompt for one question and
// one candidate section.
func buildPrompt(question, passage string) string {
	var sb strings.Builder
	sb.WriteString(extractionPrompt)
	sb.WriteString("\n\n---\n")
	sb.WriteString("Passage:\n")
	sb.WriteString(passage)
	sb.WriteString("\n---\n")
	sb.WriteString(fmt.Sprintf("Question: %s\n", question))
	return sb.String()
}
