package domain

import "context"

// ErrMovieNotFound is the normal, non-exceptional outcome of a metadata
// lookup for an unknown title. Callers branch on it with errors.Is.
var ErrMovieNotFound = NewError(CodeMovieNotFound, "Movie not found", nil)

// MetadataRecord is the structured movie metadata returned by the provider.
// PosterURL is empty when the provider has no poster.
type MetadataRecord struct {
	Title     string `json:"title"`
	Year      string `json:"year"`
	Genre     string `json:"genre"`
	Director  string `json:"director"`
	Actors    string `json:"actors"`
	Plot      string `json:"plot"`
	PosterURL string `json:"poster_url,omitempty"`
}

// MetadataProvider looks up structured metadata for a movie title.
type MetadataProvider interface {
	Lookup(ctx context.Context, title string) (*MetadataRecord, error)
}

// TextGenerator sends a prompt to a hosted language model and returns the
// generated text. Implementations fail with CodeUpstreamUnavailable when the
// model cannot be reached and CodeUpstreamMalformed when the response lacks
// the expected content. The caller never retries through this interface.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string, maxTokens int) (string, error)
}
