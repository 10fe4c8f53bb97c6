package dto

// StudyGuideRequest starts one generation run for a movie title.
// Dialect selects the quiz prompt shape: "json" (default) or "text".
type StudyGuideRequest struct {
	Movie   string `json:"movie"`
	Dialect string `json:"dialect,omitempty"`
}

// MetadataView is the movie metadata echoed back to the client.
type MetadataView struct {
	Title     string `json:"title"`
	Year      string `json:"year"`
	Genre     string `json:"genre"`
	Director  string `json:"director"`
	Actors    string `json:"actors"`
	Plot      string `json:"plot"`
	PosterURL string `json:"poster_url,omitempty"`
}

// OptionView is one labeled choice as shown to the user.
type OptionView struct {
	Label string `json:"label"`
	Text  string `json:"text"`
}

// QuestionView is one quiz question without its answer key.
type QuestionView struct {
	Index    int          `json:"index"`
	Question string       `json:"question"`
	Options  []OptionView `json:"options"`
}

// StudyGuideResponse is the full output of one generation run. The answer key
// stays server-side in the session; only questions and options are exposed.
type StudyGuideResponse struct {
	SessionID       string         `json:"session_id"`
	NormalizedTitle string         `json:"normalized_title"`
	Metadata        *MetadataView  `json:"metadata"`
	Background      string         `json:"background"`
	Synopsis        string         `json:"synopsis"`
	Questions       []QuestionView `json:"questions"`
}
