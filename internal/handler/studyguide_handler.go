package handler

import (
	"moviequiz/internal/domain"
	"moviequiz/internal/dto"
	"moviequiz/internal/logger"
	"moviequiz/internal/service"
	"moviequiz/internal/validation"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// StudyGuideHandler handles study guide generation requests.
type StudyGuideHandler struct {
	service   service.StudyGuideService
	validator *validation.Validator
}

// NewStudyGuideHandler creates a new StudyGuideHandler instance
func NewStudyGuideHandler(svc service.StudyGuideService, validator *validation.Validator) *StudyGuideHandler {
	return &StudyGuideHandler{
		service:   svc,
		validator: validator,
	}
}

// Generate godoc
// @Summary Generate a movie study guide with a quiz
// @Description Normalizes the title, fetches metadata, writes a synopsis and opens a quiz session
// @Tags studyguide
// @Accept json
// @Produce json
// @Param request body dto.StudyGuideRequest true "Movie title and optional quiz dialect"
// @Success 200 {object} dto.StudyGuideResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Failure 422 {object} middleware.ErrorResponse
// @Failure 503 {object} middleware.ErrorResponse
// @Router /studyguide [post]
func (h *StudyGuideHandler) Generate(c *fiber.Ctx) error {
	var req dto.StudyGuideRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if errs := h.validator.ValidateStudyGuideRequest(&req); len(errs) > 0 {
		return errs
	}

	dialect := domain.DialectJSON
	if req.Dialect != "" {
		dialect = domain.Dialect(req.Dialect)
	}

	logger.Get().Info("Generating study guide",
		zap.String("movie", req.Movie),
		zap.String("dialect", string(dialect)))

	resp, err := h.service.GenerateStudyGuide(c.UserContext(), req.Movie, dialect)
	if err != nil {
		return err
	}

	return c.JSON(resp)
}
