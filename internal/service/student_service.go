package service

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/gradescan/gradescan-api/internal/dto"
	"github.com/gradescan/gradescan-api/internal/models"
	"github.com/gradescan/gradescan-api/internal/repository"
)

// ErrStudentNotFound indicates the student could not be located.
var ErrStudentNotFound = errors.New("student not found")

// StudentService manages student registration on exams.
type StudentService interface {
	Register(ctx context.Context, examID uint, payload dto.StudentCreateRequest) (dto.StudentResponse, error)
	ListByExam(ctx context.Context, examID uint) ([]dto.StudentResponse, error)
}

type studentService struct {
	students  repository.StudentRepository
	exams     repository.ExamRepository
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewStudentService constructs a StudentService instance.
func NewStudentService(students repository.StudentRepository, exams repository.ExamRepository, validate *validator.Validate, logger zerolog.Logger) StudentService {
	return &studentService{
		students:  students,
		exams:     exams,
		validator: validate,
		logger:    logger.With().Str("component", "student_service").Logger(),
	}
}

func (s *studentService) Register(ctx context.Context, examID uint, payload dto.StudentCreateRequest) (dto.StudentResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.StudentResponse{}, err
	}

	if _, err := s.exams.GetByID(ctx, examID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.StudentResponse{}, ErrExamNotFound
		}
		return dto.StudentResponse{}, err
	}

	student := models.Student{
		ExamID: examID,
		Name:   strings.TrimSpace(payload.Name),
	}

	if err := s.students.Create(ctx, &student); err != nil {
		return dto.StudentResponse{}, err
	}

	s.logger.Info().Uint("exam_id", examID).Uint("student_id", student.ID).Msg("student registered")

	return dto.NewStudentResponse(student), nil
}

func (s *studentService) ListByExam(ctx context.Context, examID uint) ([]dto.StudentResponse, error) {
	if _, err := s.exams.GetByID(ctx, examID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrExamNotFound
		}
		return nil, err
	}

	students, err := s.students.ListByExam(ctx, examID)
	if err != nil {
		return nil, err
	}

	return dto.NewStudentResponseSlice(students), nil
}
