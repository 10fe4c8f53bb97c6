package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"moviequiz/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testMaxTokens = 400

func promptContaining(substr string) interface{} {
	return mock.MatchedBy(func(prompt string) bool {
		return strings.Contains(prompt, substr)
	})
}

func bladeRunnerRecord() *domain.MetadataRecord {
	return &domain.MetadataRecord{
		Title:     "Blade Runner",
		Year:      "1982",
		Genre:     "Sci-Fi",
		Director:  "Ridley Scott",
		Actors:    "Harrison Ford",
		Plot:      "A blade runner must pursue replicants.",
		PosterURL: "https://example.com/poster.jpg",
	}
}

const validQuizJSON = `{
  "questions": [
    {
      "question": "Who directed Blade Runner?",
      "choices": ["Ridley Scott", "James Cameron", "Stanley Kubrick", "David Lynch"],
      "answer": "A",
      "explanation": "Scott directed the 1982 original."
    }
  ]
}`

func TestGenerateStudyGuide_Success(t *testing.T) {
	generator := new(MockTextGenerator)
	metadata := new(MockMetadataProvider)
	sessions := NewSessionService(8)

	generator.On("Generate", mock.Anything, promptContaining("Normalize this movie title"), testMaxTokens).
		Return(`"Blade Runner"`, nil)
	metadata.On("Lookup", mock.Anything, "Blade Runner").
		Return(bladeRunnerRecord(), nil)
	generator.On("Generate", mock.Anything, promptContaining("background paragraph"), testMaxTokens).
		Return("Background about the production.", nil)
	generator.On("Generate", mock.Anything, promptContaining("study guide style summary"), testMaxTokens).
		Return("A study guide synopsis.", nil)
	generator.On("Generate", mock.Anything, promptContaining("multiple choice quiz"), testMaxTokens).
		Return(validQuizJSON, nil)

	svc := NewStudyGuideService(generator, metadata, nil, sessions, testMaxTokens)
	resp, err := svc.GenerateStudyGuide(context.Background(), "blade runner", domain.DialectJSON)
	require.NoError(t, err)

	assert.Equal(t, "Blade Runner", resp.NormalizedTitle, "surrounding quotes are trimmed")
	assert.NotEmpty(t, resp.SessionID)
	assert.Equal(t, "Background about the production.", resp.Background)
	assert.Equal(t, "A study guide synopsis.", resp.Synopsis)
	require.NotNil(t, resp.Metadata)
	assert.Equal(t, "Ridley Scott", resp.Metadata.Director)
	assert.Equal(t, "https://example.com/poster.jpg", resp.Metadata.PosterURL)

	require.Len(t, resp.Questions, 1)
	assert.Equal(t, "Who directed Blade Runner?", resp.Questions[0].Question)
	require.Len(t, resp.Questions[0].Options, 4)

	// The answer key must stay server-side: the session grades correctly,
	// the response carries no correct labels.
	_, err = sessions.RecordAnswer(resp.SessionID, answerReq(0, "A"))
	require.NoError(t, err)
	report, err := sessions.Submit(resp.SessionID)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Score)

	generator.AssertExpectations(t)
	metadata.AssertExpectations(t)
}

func TestGenerateStudyGuide_MovieNotFound(t *testing.T) {
	generator := new(MockTextGenerator)
	metadata := new(MockMetadataProvider)

	generator.On("Generate", mock.Anything, promptContaining("Normalize"), testMaxTokens).
		Return("Not A Real Movie", nil)
	metadata.On("Lookup", mock.Anything, "Not A Real Movie").
		Return(nil, domain.ErrMovieNotFound)

	svc := NewStudyGuideService(generator, metadata, nil, NewSessionService(8), testMaxTokens)
	_, err := svc.GenerateStudyGuide(context.Background(), "not a real movie", domain.DialectJSON)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrMovieNotFound))
}

func TestGenerateStudyGuide_ParseFailurePropagates(t *testing.T) {
	generator := new(MockTextGenerator)
	metadata := new(MockMetadataProvider)

	generator.On("Generate", mock.Anything, promptContaining("Normalize"), testMaxTokens).
		Return("Blade Runner", nil)
	metadata.On("Lookup", mock.Anything, "Blade Runner").
		Return(bladeRunnerRecord(), nil)
	generator.On("Generate", mock.Anything, promptContaining("background paragraph"), testMaxTokens).
		Return("Background.", nil)
	generator.On("Generate", mock.Anything, promptContaining("study guide style summary"), testMaxTokens).
		Return("Synopsis.", nil)
	generator.On("Generate", mock.Anything, promptContaining("multiple choice quiz"), testMaxTokens).
		Return("Sorry, I cannot help with that.", nil)

	svc := NewStudyGuideService(generator, metadata, nil, NewSessionService(8), testMaxTokens)
	_, err := svc.GenerateStudyGuide(context.Background(), "blade runner", domain.DialectJSON)
	require.Error(t, err)

	var domainErr *domain.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, domain.CodeNoJSONFound, domainErr.Code)
	assert.Equal(t, "Sorry, I cannot help with that.", domainErr.Context["raw"],
		"the terminal parse error carries the raw text so the caller can re-prompt")
}

func TestGenerateStudyGuide_UpstreamFailurePropagates(t *testing.T) {
	generator := new(MockTextGenerator)
	metadata := new(MockMetadataProvider)

	generator.On("Generate", mock.Anything, mock.Anything, testMaxTokens).
		Return("", domain.NewUpstreamUnavailableError(errors.New("connection refused")))

	svc := NewStudyGuideService(generator, metadata, nil, NewSessionService(8), testMaxTokens)
	_, err := svc.GenerateStudyGuide(context.Background(), "blade runner", domain.DialectJSON)
	require.Error(t, err)

	var domainErr *domain.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, domain.CodeUpstreamUnavailable, domainErr.Code,
		"no-text and text-that-did-not-parse must never be conflated")
	metadata.AssertNotCalled(t, "Lookup", mock.Anything, mock.Anything)
}

func TestGenerateStudyGuide_MetadataCacheHit(t *testing.T) {
	generator := new(MockTextGenerator)
	metadata := new(MockMetadataProvider)
	cacheMock := new(MockCache)

	payload, err := json.Marshal(bladeRunnerRecord())
	require.NoError(t, err)

	generator.On("Generate", mock.Anything, promptContaining("Normalize"), testMaxTokens).
		Return("Blade Runner", nil)
	cacheMock.On("Get", mock.Anything, "moviequiz:studyguide:metadata:blade runner").
		Return(string(payload), nil)
	generator.On("Generate", mock.Anything, promptContaining("background paragraph"), testMaxTokens).
		Return("Background.", nil)
	cacheMock.On("Get", mock.Anything, "moviequiz:studyguide:synopsis:blade runner").
		Return("Cached synopsis.", nil)
	generator.On("Generate", mock.Anything, promptContaining("multiple choice quiz"), testMaxTokens).
		Return(validQuizJSON, nil)

	svc := NewStudyGuideService(generator, metadata, cacheMock, NewSessionService(8), testMaxTokens)
	resp, err := svc.GenerateStudyGuide(context.Background(), "blade runner", domain.DialectJSON)
	require.NoError(t, err)

	assert.Equal(t, "Cached synopsis.", resp.Synopsis)
	assert.Equal(t, "Blade Runner", resp.Metadata.Title)
	metadata.AssertNotCalled(t, "Lookup", mock.Anything, mock.Anything)
	cacheMock.AssertExpectations(t)
}

func TestGenerateStudyGuide_TextDialect(t *testing.T) {
	generator := new(MockTextGenerator)
	metadata := new(MockMetadataProvider)

	generator.On("Generate", mock.Anything, promptContaining("Normalize"), testMaxTokens).
		Return("Blade Runner", nil)
	metadata.On("Lookup", mock.Anything, "Blade Runner").
		Return(bladeRunnerRecord(), nil)
	generator.On("Generate", mock.Anything, promptContaining("background paragraph"), testMaxTokens).
		Return("Background.", nil)
	generator.On("Generate", mock.Anything, promptContaining("study guide style summary"), testMaxTokens).
		Return("Synopsis.", nil)
	generator.On("Generate", mock.Anything, promptContaining("one block per question"), testMaxTokens).
		Return("Q1: Who starred?\nA) Ford\nB) Hauer\nC) Young\nD) Olmos\nAnswer: A\nExplanation: Lead role.", nil)

	svc := NewStudyGuideService(generator, metadata, nil, NewSessionService(8), testMaxTokens)
	resp, err := svc.GenerateStudyGuide(context.Background(), "blade runner", domain.DialectText)
	require.NoError(t, err)

	require.Len(t, resp.Questions, 1)
	assert.Equal(t, "A) Ford", resp.Questions[0].Options[0].Text,
		"text-dialect options keep their label prefix")
}
