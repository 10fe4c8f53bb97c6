package domain

import "fmt"

// Dialect identifies the textual convention a language model was prompted to
// use when emitting quiz content. It is declared by the caller that built the
// prompt; it is never auto-detected from content.
type Dialect string

const (
	// DialectJSON expects a {"questions": [...]} object, possibly wrapped in
	// model commentary.
	DialectJSON Dialect = "json"
	// DialectText expects labeled plain-text blocks (Q1:/A)/.../Answer:/Explanation:).
	DialectText Dialect = "text"
)

// OptionLabels is the fixed alphabet prefix used to label options positionally.
const OptionLabels = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// DefaultOptionCount is the option count per question unless the source
// dialect provides otherwise.
const DefaultOptionCount = 4

// Option is one labeled choice within a question. Order within the question
// defines the label-to-content mapping shown to the user.
type Option struct {
	Label string `json:"label"`
	Text  string `json:"text"`
}

// QuizItem is one multiple-choice question.
type QuizItem struct {
	Question     string   `json:"question"`
	Options      []Option `json:"options"`
	CorrectLabel string   `json:"correct_label"`
	Explanation  string   `json:"explanation"`
}

// Validate checks the QuizItem invariant: non-empty question, no duplicate
// option labels, and a correct label present among the options.
func (q *QuizItem) Validate() error {
	if q.Question == "" {
		return NewInvalidInputError("question is required")
	}
	if len(q.Options) == 0 {
		return NewInvalidInputError("at least one option is required")
	}
	seen := make(map[string]bool, len(q.Options))
	found := false
	for _, opt := range q.Options {
		if seen[opt.Label] {
			return NewInvalidInputError(fmt.Sprintf("duplicate option label %q", opt.Label))
		}
		seen[opt.Label] = true
		if opt.Label == q.CorrectLabel {
			found = true
		}
	}
	if !found {
		return NewInvalidInputError(fmt.Sprintf("correct label %q not among options", q.CorrectLabel))
	}
	return nil
}

// OptionText returns the text of the option carrying the given label, or ""
// if no such option exists.
func (q *QuizItem) OptionText(label string) string {
	for _, opt := range q.Options {
		if opt.Label == label {
			return opt.Text
		}
	}
	return ""
}

// Quiz is an ordered sequence of QuizItem produced atomically by one parse
// operation. It is immutable once created. The Dialect tag records which
// convention produced it; grading needs it because text-dialect option text
// retains its label prefix.
type Quiz struct {
	Items   []QuizItem `json:"items"`
	Dialect Dialect    `json:"dialect"`
}

// Len returns the number of questions.
func (q *Quiz) Len() int {
	return len(q.Items)
}
