package handler

import (
	"moviequiz/internal/dto"
	"moviequiz/internal/service"
	"moviequiz/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// SessionHandler handles quiz session requests: answers, submit, report.
type SessionHandler struct {
	service   service.SessionService
	validator *validation.Validator
}

// NewSessionHandler creates a new SessionHandler instance
func NewSessionHandler(svc service.SessionService, validator *validation.Validator) *SessionHandler {
	return &SessionHandler{
		service:   svc,
		validator: validator,
	}
}

// RecordAnswer godoc
// @Summary Record an answer for a question
// @Description Upserts the chosen label for a question index; the user may change their mind until submit
// @Tags sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body dto.RecordAnswerRequest true "Question index and chosen label"
// @Success 200 {object} dto.RecordAnswerResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Failure 409 {object} middleware.ErrorResponse
// @Router /sessions/{id}/answers [post]
func (h *SessionHandler) RecordAnswer(c *fiber.Ctx) error {
	sessionID := c.Params("id")

	var req dto.RecordAnswerRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if errs := h.validator.ValidateRecordAnswerRequest(sessionID, &req); len(errs) > 0 {
		return errs
	}

	resp, err := h.service.RecordAnswer(sessionID, &req)
	if err != nil {
		return err
	}

	return c.JSON(resp)
}

// Submit godoc
// @Summary Submit a session for grading
// @Description Freezes the answers and returns the score report; submitting twice returns the same report
// @Tags sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} dto.ScoreReportResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /sessions/{id}/submit [post]
func (h *SessionHandler) Submit(c *fiber.Ctx) error {
	sessionID := c.Params("id")

	if errs := h.validator.ValidateSessionID(sessionID); len(errs) > 0 {
		return errs
	}

	resp, err := h.service.Submit(sessionID)
	if err != nil {
		return err
	}

	return c.JSON(resp)
}

// Report godoc
// @Summary Get the score report of a submitted session
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} dto.ScoreReportResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Failure 409 {object} middleware.ErrorResponse
// @Router /sessions/{id}/report [get]
func (h *SessionHandler) Report(c *fiber.Ctx) error {
	sessionID := c.Params("id")

	if errs := h.validator.ValidateSessionID(sessionID); len(errs) > 0 {
		return errs
	}

	resp, err := h.service.Report(sessionID)
	if err != nil {
		return err
	}

	return c.JSON(resp)
}
