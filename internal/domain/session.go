package domain

import "strings"

// QuizSession holds one immutable Quiz plus the evolving set of user answers
// for a single run. A session is discarded, never reused, when a new quiz is
// generated. The session itself is not synchronized; callers that allow
// concurrent answer submission own the locking, and a later write for the
// same index overwrites the earlier one (last writer wins).
type QuizSession struct {
	id        string
	quiz      *Quiz
	answers   map[int]string
	submitted bool
}

// NewQuizSession wraps a parsed quiz in a fresh, unsubmitted session.
func NewQuizSession(id string, quiz *Quiz) *QuizSession {
	return &QuizSession{
		id:      id,
		quiz:    quiz,
		answers: make(map[int]string),
	}
}

// ID returns the session identifier.
func (s *QuizSession) ID() string {
	return s.id
}

// Quiz returns the wrapped quiz.
func (s *QuizSession) Quiz() *Quiz {
	return s.quiz
}

// AnswerCount returns the number of distinct question indexes answered so far.
func (s *QuizSession) AnswerCount() int {
	return len(s.answers)
}

// Submitted reports whether answers have been frozen.
func (s *QuizSession) Submitted() bool {
	return s.submitted
}

// RecordAnswer upserts the answer for a question index. The user may change
// their mind any number of times before submitting. Once the session is
// submitted, further updates are rejected, not silently ignored.
func (s *QuizSession) RecordAnswer(index int, label string) error {
	if s.submitted {
		return NewSessionAlreadySubmittedError()
	}
	if index < 0 || index >= s.quiz.Len() {
		return NewIndexOutOfRangeError(index, s.quiz.Len())
	}
	s.answers[index] = label
	return nil
}

// Submit freezes the answers. Calling it twice is a no-op, not an error;
// grading after either call yields the identical report.
func (s *QuizSession) Submit() {
	s.submitted = true
}

// Grade computes the deterministic score report for a submitted session.
// An unanswered question counts as incorrect, never as an error.
func (s *QuizSession) Grade() (*ScoreReport, error) {
	if !s.submitted {
		return nil, NewNotSubmittedError()
	}

	report := &ScoreReport{
		PerQuestion: make([]QuestionResult, 0, s.quiz.Len()),
		Total:       s.quiz.Len(),
	}

	for i, item := range s.quiz.Items {
		user, answered := s.answers[i]
		correct := answered && s.matches(user, item.CorrectLabel)
		if correct {
			report.Score++
		}
		report.PerQuestion = append(report.PerQuestion, QuestionResult{
			Index:        i,
			UserAnswer:   user,
			Answered:     answered,
			CorrectLabel: item.CorrectLabel,
			CorrectText:  item.OptionText(item.CorrectLabel),
			IsCorrect:    correct,
			Explanation:  item.Explanation,
		})
	}

	return report, nil
}

// matches compares a submitted answer against the stored correct label.
// Text-dialect option text retains its "A) ..." prefix while the stored label is
// a bare letter, so a prefix comparison is used there. A text answer that
// happens to begin with another option's letter would therefore mismatch;
// that asymmetry is inherited from the upstream prompt shape.
func (s *QuizSession) matches(user, correct string) bool {
	if user == correct {
		return true
	}
	return s.quiz.Dialect == DialectText && strings.HasPrefix(user, correct)
}

// QuestionResult is the per-question line of a score report. Answered is
// false when the user never recorded an answer for the index.
type QuestionResult struct {
	Index        int    `json:"index"`
	UserAnswer   string `json:"user_answer,omitempty"`
	Answered     bool   `json:"answered"`
	CorrectLabel string `json:"correct_label"`
	CorrectText  string `json:"correct_text"`
	IsCorrect    bool   `json:"is_correct"`
	Explanation  string `json:"explanation"`
}

// ScoreReport is the deterministic output of grading a submitted session.
type ScoreReport struct {
	PerQuestion []QuestionResult `json:"per_question"`
	Score       int              `json:"score"`
	Total       int              `json:"total"`
}
