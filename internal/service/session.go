package service

import (
	"sync"

	"moviequiz/internal/domain"
	"moviequiz/internal/dto"
	"moviequiz/internal/logger"
	"moviequiz/internal/util"

	"go.uber.org/zap"
)

// DefaultSessionCapacity bounds the in-memory session store. Sessions are
// scoped to one run and carry no cross-session persistence requirement, so
// the oldest are evicted once the bound is reached.
const DefaultSessionCapacity = 1024

// SessionService owns the live quiz sessions for this process.
type SessionService interface {
	Create(quiz *domain.Quiz) *domain.QuizSession
	RecordAnswer(sessionID string, req *dto.RecordAnswerRequest) (*dto.RecordAnswerResponse, error)
	Submit(sessionID string) (*dto.ScoreReportResponse, error)
	Report(sessionID string) (*dto.ScoreReportResponse, error)
}

// sessionService serializes all session access behind one lock. Two UI
// events racing on the same index resolve to last writer wins, which the
// session documents as its upsert contract.
type sessionService struct {
	mu       sync.Mutex
	sessions map[string]*domain.QuizSession
	order    []string
	capacity int
}

// NewSessionService creates an in-memory session store. A capacity of 0
// falls back to DefaultSessionCapacity.
func NewSessionService(capacity int) SessionService {
	if capacity <= 0 {
		capacity = DefaultSessionCapacity
	}
	return &sessionService{
		sessions: make(map[string]*domain.QuizSession),
		capacity: capacity,
	}
}

// Create wraps a freshly parsed quiz in a new session. A regenerated quiz
// always gets a new session; old ones age out of the store.
func (s *sessionService) Create(quiz *domain.Quiz) *domain.QuizSession {
	session := domain.NewQuizSession(util.NewULID(), quiz)

	s.mu.Lock()
	defer s.mu.Unlock()

	for len(s.order) >= s.capacity {
		oldest := s.order[0]
		s.order = s.order[1:]
		delete(s.sessions, oldest)
		logger.Get().Debug("Evicted oldest quiz session", zap.String("session_id", oldest))
	}

	s.sessions[session.ID()] = session
	s.order = append(s.order, session.ID())

	logger.Get().Info("Created quiz session",
		zap.String("session_id", session.ID()),
		zap.Int("questions", quiz.Len()),
		zap.String("dialect", string(quiz.Dialect)))
	return session
}

// RecordAnswer implements SessionService.
func (s *sessionService) RecordAnswer(sessionID string, req *dto.RecordAnswerRequest) (*dto.RecordAnswerResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[sessionID]
	if !ok {
		return nil, domain.NewSessionNotFoundError(sessionID)
	}

	if err := session.RecordAnswer(req.Index, req.Label); err != nil {
		return nil, err
	}

	return &dto.RecordAnswerResponse{
		SessionID: sessionID,
		Index:     req.Index,
		Answered:  session.AnswerCount(),
	}, nil
}

// Submit freezes the session and returns its report. Submitting twice is a
// no-op that returns the same report.
func (s *sessionService) Submit(sessionID string) (*dto.ScoreReportResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[sessionID]
	if !ok {
		return nil, domain.NewSessionNotFoundError(sessionID)
	}

	session.Submit()
	report, err := session.Grade()
	if err != nil {
		return nil, err
	}
	return toScoreReportResponse(sessionID, report), nil
}

// Report grades a previously submitted session.
func (s *sessionService) Report(sessionID string) (*dto.ScoreReportResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[sessionID]
	if !ok {
		return nil, domain.NewSessionNotFoundError(sessionID)
	}

	report, err := session.Grade()
	if err != nil {
		return nil, err
	}
	return toScoreReportResponse(sessionID, report), nil
}

func toScoreReportResponse(sessionID string, report *domain.ScoreReport) *dto.ScoreReportResponse {
	results := make([]dto.QuestionResultView, 0, len(report.PerQuestion))
	for _, r := range report.PerQuestion {
		results = append(results, dto.QuestionResultView{
			Index:        r.Index,
			UserAnswer:   r.UserAnswer,
			Answered:     r.Answered,
			CorrectLabel: r.CorrectLabel,
			CorrectText:  r.CorrectText,
			IsCorrect:    r.IsCorrect,
			Explanation:  r.Explanation,
		})
	}
	return &dto.ScoreReportResponse{
		SessionID:   sessionID,
		PerQuestion: results,
		Score:       report.Score,
		Total:       report.Total,
	}
}
