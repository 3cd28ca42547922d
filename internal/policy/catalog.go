package policy

// SentinelAnswer is recorded for a question when no candidate section
// yields an accepted answer. Callers compare against it byte-for-byte.
const SentinelAnswer = "No relevant information found."

// Questions is the fixed compliance catalog. Every document is evaluated
// against every question, in this order; the report always contains
// exactly one record per question.
var Questions = []string{
	"Does the policy specify types of data collected?",
	"Does the policy mention data retention periods?",
	"Does the policy address data sharing with third parties?",
	"Does the policy include user rights (e.g., access, deletion)?",
	"Is there a statement about cookies or tracking technologies?",
}

// AnswerRecord is the result for a single catalog question.
type AnswerRecord struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Report is the ordered sequence of answer records for one document,
// report order equal to catalog order.
type Report struct {
	Answers []AnswerRecord `json:"answers"`
}
