package handler

import (
	"context"
	"net/http"
	"testing"

	"moviequiz/internal/domain"
	"moviequiz/internal/dto"
	"moviequiz/internal/middleware"
	"moviequiz/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockStudyGuideService struct {
	mock.Mock
}

func (m *MockStudyGuideService) GenerateStudyGuide(ctx context.Context, movie string, dialect domain.Dialect) (*dto.StudyGuideResponse, error) {
	args := m.Called(ctx, movie, dialect)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.StudyGuideResponse), args.Error(1)
}

func newStudyGuideTestApp(svc *MockStudyGuideService) *fiber.App {
	h := NewStudyGuideHandler(svc, validation.NewValidator())
	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler()})
	app.Post("/api/studyguide", h.Generate)
	return app
}

func TestStudyGuideHandler_Generate(t *testing.T) {
	svc := new(MockStudyGuideService)
	svc.On("GenerateStudyGuide", mock.Anything, "Blade Runner", domain.DialectText).
		Return(&dto.StudyGuideResponse{
			SessionID:       "01HZXW3V9GJT2M4Q5R6S7T8V9W",
			NormalizedTitle: "Blade Runner",
		}, nil)
	app := newStudyGuideTestApp(svc)

	resp := postJSON(t, app, "/api/studyguide",
		dto.StudyGuideRequest{Movie: "Blade Runner", Dialect: "text"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body dto.StudyGuideResponse
	decodeBody(t, resp, &body)
	assert.Equal(t, "Blade Runner", body.NormalizedTitle)
	assert.NotEmpty(t, body.SessionID)
	svc.AssertExpectations(t)
}

func TestStudyGuideHandler_DialectDefaultsToJSON(t *testing.T) {
	svc := new(MockStudyGuideService)
	svc.On("GenerateStudyGuide", mock.Anything, "Alien", domain.DialectJSON).
		Return(&dto.StudyGuideResponse{SessionID: "01HZXW3V9GJT2M4Q5R6S7T8V9W"}, nil)
	app := newStudyGuideTestApp(svc)

	resp := postJSON(t, app, "/api/studyguide", dto.StudyGuideRequest{Movie: "Alien"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	svc.AssertExpectations(t)
}

func TestStudyGuideHandler_ValidationFailureIs400(t *testing.T) {
	svc := new(MockStudyGuideService)
	app := newStudyGuideTestApp(svc)

	resp := postJSON(t, app, "/api/studyguide", dto.StudyGuideRequest{Movie: ""})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	svc.AssertNotCalled(t, "GenerateStudyGuide", mock.Anything, mock.Anything, mock.Anything)
}

func TestStudyGuideHandler_ParseFailureIs422(t *testing.T) {
	svc := new(MockStudyGuideService)
	svc.On("GenerateStudyGuide", mock.Anything, "Heat", domain.DialectJSON).
		Return(nil, domain.NewNoJSONFoundError("no quiz here"))
	app := newStudyGuideTestApp(svc)

	resp := postJSON(t, app, "/api/studyguide", dto.StudyGuideRequest{Movie: "Heat"})
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	var errResp middleware.ErrorResponse
	decodeBody(t, resp, &errResp)
	assert.Equal(t, string(domain.CodeNoJSONFound), errResp.Code)
	assert.Equal(t, "no quiz here", errResp.Details["raw"],
		"raw model output surfaces for diagnostics")
}

func TestStudyGuideHandler_MovieNotFoundIs404(t *testing.T) {
	svc := new(MockStudyGuideService)
	svc.On("GenerateStudyGuide", mock.Anything, "Nonexistent", domain.DialectJSON).
		Return(nil, domain.ErrMovieNotFound)
	app := newStudyGuideTestApp(svc)

	resp := postJSON(t, app, "/api/studyguide", dto.StudyGuideRequest{Movie: "Nonexistent"})
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestStudyGuideHandler_UpstreamDownIs503(t *testing.T) {
	svc := new(MockStudyGuideService)
	svc.On("GenerateStudyGuide", mock.Anything, "Heat", domain.DialectJSON).
		Return(nil, domain.NewUpstreamUnavailableError(nil))
	app := newStudyGuideTestApp(svc)

	resp := postJSON(t, app, "/api/studyguide", dto.StudyGuideRequest{Movie: "Heat"})
	require.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}
