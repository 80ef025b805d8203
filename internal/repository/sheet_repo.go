package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/gradescan/gradescan-api/internal/models"
)

// AnswerSheetRepository defines data operations for uploaded answer sheets.
type AnswerSheetRepository interface {
	GetByID(ctx context.Context, id uint) (models.AnswerSheet, error)
	// GetWithExamID fetches the sheet together with its owning
	// student's exam identifier (join through students).
	GetWithExamID(ctx context.Context, id uint) (models.AnswerSheet, uint, error)
	ListByStudent(ctx context.Context, studentID uint) ([]models.AnswerSheet, error)
	Create(ctx context.Context, sheet *models.AnswerSheet) error
}

type answerSheetRepository struct {
	db *gorm.DB
}

// NewAnswerSheetRepository instantiates the repository.
func NewAnswerSheetRepository(db *gorm.DB) AnswerSheetRepository {
	return &answerSheetRepository{db: db}
}

func (r *answerSheetRepository) GetByID(ctx context.Context, id uint) (models.AnswerSheet, error) {
	var sheet models.AnswerSheet
	if err := r.db.WithContext(ctx).First(&sheet, id).Error; err != nil {
		return models.AnswerSheet{}, err
	}

	return sheet, nil
}

func (r *answerSheetRepository) GetWithExamID(ctx context.Context, id uint) (models.AnswerSheet, uint, error) {
	var sheet models.AnswerSheet
	if err := r.db.WithContext(ctx).Preload("Student").First(&sheet, id).Error; err != nil {
		return models.AnswerSheet{}, 0, err
	}

	return sheet, sheet.Student.ExamID, nil
}

func (r *answerSheetRepository) ListByStudent(ctx context.Context, studentID uint) ([]models.AnswerSheet, error) {
	var sheets []models.AnswerSheet
	if err := r.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("created_at DESC").
		Find(&sheets).Error; err != nil {
		return nil, err
	}

	return sheets, nil
}

func (r *answerSheetRepository) Create(ctx context.Context, sheet *models.AnswerSheet) error {
	return r.db.WithContext(ctx).Create(sheet).Error
}
