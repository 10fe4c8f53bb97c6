package dto

// RecordAnswerRequest upserts the answer for one question index. Label is
// whatever the user selected: a bare letter for JSON-dialect quizzes, or the
// full "B) ..." option text for text-dialect ones.
type RecordAnswerRequest struct {
	Index int    `json:"index"`
	Label string `json:"label"`
}

// RecordAnswerResponse acknowledges the upsert.
type RecordAnswerResponse struct {
	SessionID string `json:"session_id"`
	Index     int    `json:"index"`
	Answered  int    `json:"answered"`
}

// QuestionResultView is the per-question line of a graded report.
type QuestionResultView struct {
	Index        int    `json:"index"`
	UserAnswer   string `json:"user_answer,omitempty"`
	Answered     bool   `json:"answered"`
	CorrectLabel string `json:"correct_label"`
	CorrectText  string `json:"correct_text"`
	IsCorrect    bool   `json:"is_correct"`
	Explanation  string `json:"explanation"`
}

// ScoreReportResponse is the deterministic grading result for a submitted session.
type ScoreReportResponse struct {
	SessionID   string               `json:"session_id"`
	PerQuestion []QuestionResultView `json:"per_question"`
	Score       int                  `json:"score"`
	Total       int                  `json:"total"`
}
