package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/gradescan/gradescan-api/internal/service"
	"github.com/gradescan/gradescan-api/internal/utils"
)

// SheetHandler manages answer-sheet upload and lookup endpoints.
type SheetHandler struct {
	service service.SheetService
	logger  zerolog.Logger
}

// NewSheetHandler builds a sheet handler instance.
func NewSheetHandler(service service.SheetService, logger zerolog.Logger) *SheetHandler {
	return &SheetHandler{
		service: service,
		logger:  logger.With().Str("component", "sheet_handler").Logger(),
	}
}

// RegisterStudentRoutes attaches the student-scoped upload routes.
func (h *SheetHandler) RegisterStudentRoutes(router fiber.Router) {
	router.Get("/:id/sheets", h.listByStudent)
	router.Post("/:id/sheets", h.upload)
}

// Register attaches the sheet lookup routes.
func (h *SheetHandler) Register(router fiber.Router) {
	router.Get("/:id", h.get)
}

func (h *SheetHandler) upload(c *fiber.Ctx) error {
	studentID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	file, err := c.FormFile("file")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "file is required")
	}

	sheet, err := h.service.Upload(c.Context(), studentID, file)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "answer sheet uploaded", sheet)
}

func (h *SheetHandler) get(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	sheet, err := h.service.Get(c.Context(), id)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "answer sheet retrieved", sheet)
}

func (h *SheetHandler) listByStudent(c *fiber.Ctx) error {
	studentID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	sheets, err := h.service.ListByStudent(c.Context(), studentID)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "answer sheets retrieved", sheets)
}

func (h *SheetHandler) handleError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrStudentNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "student not found")
	case errors.Is(err, service.ErrAnswerSheetNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "answer sheet not found")
	case errors.Is(err, service.ErrUploadTooLarge):
		return utils.SendError(c, fiber.StatusBadRequest, "file exceeds maximum allowed size")
	case errors.Is(err, service.ErrUploadNotPDF):
		return utils.SendError(c, fiber.StatusBadRequest, "uploaded file must be a PDF")
	default:
		h.logger.Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
