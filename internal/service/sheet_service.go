package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/gradescan/gradescan-api/internal/dto"
	"github.com/gradescan/gradescan-api/internal/models"
	"github.com/gradescan/gradescan-api/internal/repository"
)

// ErrUploadTooLarge indicates the payload exceeded the configured limit.
var ErrUploadTooLarge = errors.New("file exceeds maximum allowed size")

// ErrUploadNotPDF indicates the uploaded file is not a PDF document.
var ErrUploadNotPDF = errors.New("uploaded file must be a PDF")

// SheetStore persists uploaded documents and resolves stored filenames
// back to filesystem paths the pipeline can read.
type SheetStore interface {
	Save(originalName string, reader io.Reader) (string, error)
	Path(filename string) string
}

// FileUploader mirrors a stored document to a remote archive.
type FileUploader interface {
	Upload(ctx context.Context, name string, reader io.Reader) (string, error)
}

// SheetService handles answer-sheet uploads and lookups.
type SheetService interface {
	Upload(ctx context.Context, studentID uint, file *multipart.FileHeader) (dto.SheetResponse, error)
	Get(ctx context.Context, id uint) (dto.SheetResponse, error)
	ListByStudent(ctx context.Context, studentID uint) ([]dto.SheetResponse, error)
}

type sheetService struct {
	sheets   repository.AnswerSheetRepository
	students repository.StudentRepository
	store    SheetStore
	archive  FileUploader
	maxSize  int64
	logger   zerolog.Logger
}

// NewSheetService constructs a SheetService instance. The archive
// uploader is optional; when nil the sheet only lives in local storage.
func NewSheetService(sheets repository.AnswerSheetRepository, students repository.StudentRepository, store SheetStore, archive FileUploader, maxSizeMB int, logger zerolog.Logger) SheetService {
	if maxSizeMB <= 0 {
		maxSizeMB = 20
	}

	return &sheetService{
		sheets:   sheets,
		students: students,
		store:    store,
		archive:  archive,
		maxSize:  int64(maxSizeMB) * 1024 * 1024,
		logger:   logger.With().Str("component", "sheet_service").Logger(),
	}
}

func (s *sheetService) Upload(ctx context.Context, studentID uint, file *multipart.FileHeader) (dto.SheetResponse, error) {
	if file == nil {
		return dto.SheetResponse{}, fmt.Errorf("sheet file is required")
	}

	if file.Size > s.maxSize {
		return dto.SheetResponse{}, ErrUploadTooLarge
	}

	if _, err := s.students.GetByID(ctx, studentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SheetResponse{}, ErrStudentNotFound
		}
		return dto.SheetResponse{}, err
	}

	if err := validatePDF(file); err != nil {
		return dto.SheetResponse{}, err
	}

	reader, err := file.Open()
	if err != nil {
		return dto.SheetResponse{}, fmt.Errorf("failed to open file: %w", err)
	}
	defer reader.Close()

	filename, err := s.store.Save(file.Filename, reader)
	if err != nil {
		return dto.SheetResponse{}, fmt.Errorf("failed to store file: %w", err)
	}

	fileURL := ""
	if s.archive != nil {
		fileURL, err = s.archiveSheet(ctx, filename)
		if err != nil {
			// Local storage is authoritative; archival is best effort.
			s.logger.Warn().Err(err).Str("filename", filename).Msg("failed to archive sheet")
			fileURL = ""
		}
	}

	sheet := models.AnswerSheet{
		StudentID: studentID,
		Filename:  filename,
		FileURL:   fileURL,
	}

	if err := s.sheets.Create(ctx, &sheet); err != nil {
		return dto.SheetResponse{}, err
	}

	s.logger.Info().Uint("sheet_id", sheet.ID).Uint("student_id", studentID).Msg("answer sheet uploaded")

	return dto.NewSheetResponse(sheet), nil
}

func (s *sheetService) Get(ctx context.Context, id uint) (dto.SheetResponse, error) {
	sheet, err := s.sheets.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SheetResponse{}, ErrAnswerSheetNotFound
		}
		return dto.SheetResponse{}, err
	}

	return dto.NewSheetResponse(sheet), nil
}

func (s *sheetService) ListByStudent(ctx context.Context, studentID uint) ([]dto.SheetResponse, error) {
	if _, err := s.students.GetByID(ctx, studentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStudentNotFound
		}
		return nil, err
	}

	sheets, err := s.sheets.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}

	return dto.NewSheetResponseSlice(sheets), nil
}

func (s *sheetService) archiveSheet(ctx context.Context, filename string) (string, error) {
	stored, err := os.Open(s.store.Path(filename))
	if err != nil {
		return "", err
	}
	defer stored.Close()

	return s.archive.Upload(ctx, filename, stored)
}

func validatePDF(file *multipart.FileHeader) error {
	reader, err := file.Open()
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer reader.Close()

	mime, err := mimetype.DetectReader(reader)
	if err != nil {
		return fmt.Errorf("failed to detect file type: %w", err)
	}

	if !mime.Is("application/pdf") {
		return fmt.Errorf("%w: got %s", ErrUploadNotPDF, mime.String())
	}

	return nil
}
