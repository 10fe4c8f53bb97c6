package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"moviequiz/internal/cache"
	"moviequiz/internal/domain"
	"moviequiz/internal/dto"
	"moviequiz/internal/logger"
	"moviequiz/internal/parser"

	"go.uber.org/zap"
)

const (
	// MetadataCacheExpiration bounds how long an OMDb record is reused.
	MetadataCacheExpiration = 24 * time.Hour
	// SynopsisCacheExpiration bounds how long a generated synopsis is reused.
	SynopsisCacheExpiration = 6 * time.Hour
)

// StudyGuideService runs the four-stage pipeline: normalize the title, fetch
// metadata, write background and synopsis prose, then generate and parse the
// quiz and open a session for it.
type StudyGuideService interface {
	GenerateStudyGuide(ctx context.Context, movie string, dialect domain.Dialect) (*dto.StudyGuideResponse, error)
}

type studyGuideService struct {
	generator domain.TextGenerator
	metadata  domain.MetadataProvider
	cache     domain.Cache // nil disables caching
	sessions  SessionService
	maxTokens int
}

// NewStudyGuideService wires the pipeline. cacheClient may be nil, in which
// case every run goes to the upstream services.
func NewStudyGuideService(
	generator domain.TextGenerator,
	metadata domain.MetadataProvider,
	cacheClient domain.Cache,
	sessions SessionService,
	maxTokens int,
) StudyGuideService {
	return &studyGuideService{
		generator: generator,
		metadata:  metadata,
		cache:     cacheClient,
		sessions:  sessions,
		maxTokens: maxTokens,
	}
}

// GenerateStudyGuide implements StudyGuideService. A parse failure is
// terminal for this attempt: the typed error (carrying the raw model output)
// propagates to the caller, who may re-prompt by calling again. There is no
// in-place repair of malformed quiz text.
func (s *studyGuideService) GenerateStudyGuide(ctx context.Context, movie string, dialect domain.Dialect) (*dto.StudyGuideResponse, error) {
	l := logger.Get()

	title, err := s.normalizeTitle(ctx, movie)
	if err != nil {
		return nil, err
	}
	l.Info("Normalized movie title",
		zap.String("input", movie),
		zap.String("title", title))

	meta, err := s.lookupMetadata(ctx, title)
	if err != nil {
		return nil, err
	}

	background, err := s.generator.Generate(ctx, backgroundPrompt(meta), s.maxTokens)
	if err != nil {
		return nil, err
	}

	synopsis, err := s.synopsis(ctx, title)
	if err != nil {
		return nil, err
	}

	quizRaw, err := s.generator.Generate(ctx, quizPrompt(background, dialect), s.maxTokens)
	if err != nil {
		return nil, err
	}

	quiz, err := parser.Parse(quizRaw, dialect)
	if err != nil {
		l.Warn("Quiz parse failed; caller must re-prompt",
			zap.String("title", title),
			zap.String("dialect", string(dialect)),
			zap.Error(err))
		return nil, err
	}

	session := s.sessions.Create(quiz)

	return &dto.StudyGuideResponse{
		SessionID:       session.ID(),
		NormalizedTitle: title,
		Metadata: &dto.MetadataView{
			Title:     meta.Title,
			Year:      meta.Year,
			Genre:     meta.Genre,
			Director:  meta.Director,
			Actors:    meta.Actors,
			Plot:      meta.Plot,
			PosterURL: meta.PosterURL,
		},
		Background: background,
		Synopsis:   synopsis,
		Questions:  toQuestionViews(quiz),
	}, nil
}

func (s *studyGuideService) normalizeTitle(ctx context.Context, movie string) (string, error) {
	normalized, err := s.generator.Generate(ctx, normalizeTitlePrompt(movie), s.maxTokens)
	if err != nil {
		return "", err
	}
	// Models occasionally quote the title they were asked to return bare.
	return strings.Trim(strings.TrimSpace(normalized), `"'`), nil
}

func (s *studyGuideService) lookupMetadata(ctx context.Context, title string) (*domain.MetadataRecord, error) {
	l := logger.Get()
	key := cache.GenerateCacheKey("studyguide", "metadata", strings.ToLower(title))

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, key)
		if err == nil {
			var meta domain.MetadataRecord
			if jsonErr := json.Unmarshal([]byte(cached), &meta); jsonErr == nil {
				l.Debug("Metadata cache hit", zap.String("title", title))
				return &meta, nil
			}
			// Unreadable entry: fall through and refresh it.
			l.Warn("Discarding unreadable metadata cache entry", zap.String("key", key))
		} else if !errors.Is(err, domain.ErrCacheMiss) {
			l.Error("Metadata cache read failed", zap.String("key", key), zap.Error(err))
		}
	}

	meta, err := s.metadata.Lookup(ctx, title)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if payload, jsonErr := json.Marshal(meta); jsonErr == nil {
			if cacheErr := s.cache.Set(ctx, key, string(payload), MetadataCacheExpiration); cacheErr != nil {
				l.Error("Metadata cache write failed", zap.String("key", key), zap.Error(cacheErr))
			}
		}
	}

	return meta, nil
}

func (s *studyGuideService) synopsis(ctx context.Context, title string) (string, error) {
	l := logger.Get()
	key := cache.GenerateCacheKey("studyguide", "synopsis", strings.ToLower(title))

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, key)
		if err == nil {
			l.Debug("Synopsis cache hit", zap.String("title", title))
			return cached, nil
		}
		if !errors.Is(err, domain.ErrCacheMiss) {
			l.Error("Synopsis cache read failed", zap.String("key", key), zap.Error(err))
		}
	}

	synopsis, err := s.generator.Generate(ctx, synopsisPrompt(title), s.maxTokens)
	if err != nil {
		return "", err
	}

	if s.cache != nil {
		if cacheErr := s.cache.Set(ctx, key, synopsis, SynopsisCacheExpiration); cacheErr != nil {
			l.Error("Synopsis cache write failed", zap.String("key", key), zap.Error(cacheErr))
		}
	}

	return synopsis, nil
}

func toQuestionViews(quiz *domain.Quiz) []dto.QuestionView {
	views := make([]dto.QuestionView, 0, quiz.Len())
	for i, item := range quiz.Items {
		options := make([]dto.OptionView, 0, len(item.Options))
		for _, opt := range item.Options {
			options = append(options, dto.OptionView{Label: opt.Label, Text: opt.Text})
		}
		views = append(views, dto.QuestionView{
			Index:    i,
			Question: item.Question,
			Options:  options,
		})
	}
	return views
}
