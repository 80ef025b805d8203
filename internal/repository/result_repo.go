package repository

import (
	"context"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/gradescan/gradescan-api/internal/models"
)

// Evaluation bundles everything the pipeline persists for one sheet.
type Evaluation struct {
	Answers         []models.Answer
	TotalScore      float64
	ExtractedText   string
	RecognitionMeta datatypes.JSON
	EvaluatedAt     time.Time
}

// ResultRepository persists the outcome of an evaluation run. Prior
// answer rows for the sheet are fully replaced; the sheet row is
// updated in the same transaction so a late failure rolls everything
// back.
type ResultRepository interface {
	SaveEvaluation(ctx context.Context, sheetID uint, eval Evaluation) error
	ListAnswers(ctx context.Context, sheetID uint) ([]models.Answer, error)
}

type resultRepository struct {
	db *gorm.DB
}

// NewResultRepository instantiates the repository.
func NewResultRepository(db *gorm.DB) ResultRepository {
	return &resultRepository{db: db}
}

func (r *resultRepository) SaveEvaluation(ctx context.Context, sheetID uint, eval Evaluation) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var sheet models.AnswerSheet
		if err := tx.First(&sheet, sheetID).Error; err != nil {
			return err
		}

		if err := tx.Where("answer_sheet_id = ?", sheetID).Delete(&models.Answer{}).Error; err != nil {
			return err
		}

		for i := range eval.Answers {
			eval.Answers[i].ID = 0
			eval.Answers[i].AnswerSheetID = sheetID
			if err := tx.Create(&eval.Answers[i]).Error; err != nil {
				return err
			}
		}

		evaluatedAt := eval.EvaluatedAt.UTC()
		updates := map[string]interface{}{
			"extracted_text":   eval.ExtractedText,
			"evaluated_at":     evaluatedAt,
			"total_score":      eval.TotalScore,
			"recognition_meta": eval.RecognitionMeta,
		}

		return tx.Model(&models.AnswerSheet{}).Where("id = ?", sheetID).Updates(updates).Error
	})
}

func (r *resultRepository) ListAnswers(ctx context.Context, sheetID uint) ([]models.Answer, error) {
	var answers []models.Answer
	if err := r.db.WithContext(ctx).
		Preload("Question").
		Where("answer_sheet_id = ?", sheetID).
		Order("question_id ASC").
		Find(&answers).Error; err != nil {
		return nil, err
	}

	return answers, nil
}
