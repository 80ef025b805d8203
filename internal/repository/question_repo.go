package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/gradescan/gradescan-api/internal/models"
)

// QuestionRepository defines data operations for exam questions.
type QuestionRepository interface {
	// ListByExam returns the exam's questions in ascending ID order,
	// which is the canonical alignment order for evaluation.
	ListByExam(ctx context.Context, examID uint) ([]models.Question, error)
	Create(ctx context.Context, question *models.Question) error
}

type questionRepository struct {
	db *gorm.DB
}

// NewQuestionRepository instantiates the repository.
func NewQuestionRepository(db *gorm.DB) QuestionRepository {
	return &questionRepository{db: db}
}

func (r *questionRepository) ListByExam(ctx context.Context, examID uint) ([]models.Question, error) {
	var questions []models.Question
	if err := r.db.WithContext(ctx).
		Where("exam_id = ?", examID).
		Order("id ASC").
		Find(&questions).Error; err != nil {
		return nil, err
	}

	return questions, nil
}

func (r *questionRepository) Create(ctx context.Context, question *models.Question) error {
	return r.db.WithContext(ctx).Create(question).Error
}
