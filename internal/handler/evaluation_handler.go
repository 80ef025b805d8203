package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/gradescan/gradescan-api/internal/service"
	"github.com/gradescan/gradescan-api/internal/utils"
	"github.com/gradescan/gradescan-api/pkg/pdf"
)

// EvaluationHandler exposes the evaluation pipeline over HTTP.
type EvaluationHandler struct {
	service service.EvaluationService
	logger  zerolog.Logger
}

// NewEvaluationHandler builds an evaluation handler instance.
func NewEvaluationHandler(service service.EvaluationService, logger zerolog.Logger) *EvaluationHandler {
	return &EvaluationHandler{
		service: service,
		logger:  logger.With().Str("component", "evaluation_handler").Logger(),
	}
}

// Register attaches the routes to the sheet-scoped router group.
func (h *EvaluationHandler) Register(router fiber.Router, limit fiber.Handler) {
	router.Post("/:id/evaluate", limit, h.evaluate)
	router.Get("/:id/results", h.results)
}

func (h *EvaluationHandler) evaluate(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	result, err := h.service.Evaluate(c.Context(), id)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "answer sheet evaluated", result)
}

func (h *EvaluationHandler) results(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	result, err := h.service.Results(c.Context(), id)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "evaluation results retrieved", result)
}

func (h *EvaluationHandler) handleError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrAnswerSheetNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "answer sheet not found")
	case errors.Is(err, service.ErrExamNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "exam not found")
	case errors.Is(err, service.ErrSheetNotEvaluated):
		return utils.SendError(c, fiber.StatusNotFound, "answer sheet has not been evaluated")
	case errors.Is(err, service.ErrEvaluationInProgress):
		return utils.SendError(c, fiber.StatusConflict, "evaluation already in progress for this sheet")
	case errors.Is(err, pdf.ErrUnreadableDocument):
		return utils.SendError(c, fiber.StatusUnprocessableEntity, "document could not be read as a PDF")
	default:
		h.logger.Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
