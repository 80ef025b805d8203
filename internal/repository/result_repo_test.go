package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/gradescan/gradescan-api/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Exam{}, &models.Question{}, &models.Student{}, &models.AnswerSheet{}, &models.Answer{}))
	return db
}

func seedSheet(t *testing.T, db *gorm.DB) (models.AnswerSheet, []models.Question) {
	t.Helper()

	exam := models.Exam{Title: "Geography", Subject: "geo"}
	require.NoError(t, db.Create(&exam).Error)

	questions := []models.Question{
		{ExamID: exam.ID, Prompt: "Capital of France?", IdealAnswer: "Paris", PointValue: 2},
		{ExamID: exam.ID, Prompt: "Days in a week?", IdealAnswer: "7", PointValue: 1},
	}
	for i := range questions {
		require.NoError(t, db.Create(&questions[i]).Error)
	}

	student := models.Student{ExamID: exam.ID, Name: "Ada"}
	require.NoError(t, db.Create(&student).Error)

	sheet := models.AnswerSheet{StudentID: student.ID, Filename: "sheet.pdf"}
	require.NoError(t, db.Create(&sheet).Error)

	return sheet, questions
}

func TestResultRepositorySaveEvaluation(t *testing.T) {
	db := setupTestDB(t)
	repo := NewResultRepository(db)
	sheet, questions := seedSheet(t, db)

	evaluatedAt := time.Now().UTC().Truncate(time.Second)
	eval := Evaluation{
		Answers: []models.Answer{
			{QuestionID: questions[0].ID, StudentAnswer: "Paris", Score: 2},
			{QuestionID: questions[1].ID, StudentAnswer: "7", Score: 1},
		},
		TotalScore:      3,
		ExtractedText:   "Paris, 7",
		RecognitionMeta: datatypes.JSON([]byte(`[{"page":1,"labels":2}]`)),
		EvaluatedAt:     evaluatedAt,
	}

	require.NoError(t, repo.SaveEvaluation(context.Background(), sheet.ID, eval))

	var stored models.AnswerSheet
	require.NoError(t, db.First(&stored, sheet.ID).Error)
	require.NotNil(t, stored.ExtractedText)
	require.Equal(t, "Paris, 7", *stored.ExtractedText)
	require.NotNil(t, stored.TotalScore)
	require.Equal(t, 3.0, *stored.TotalScore)
	require.NotNil(t, stored.EvaluatedAt)

	answers, err := repo.ListAnswers(context.Background(), sheet.ID)
	require.NoError(t, err)
	require.Len(t, answers, 2)
	require.Equal(t, "Capital of France?", answers[0].Question.Prompt)
	require.Equal(t, 2.0, answers[0].Score)
}

func TestResultRepositorySaveEvaluationReplacesPreviousAnswers(t *testing.T) {
	db := setupTestDB(t)
	repo := NewResultRepository(db)
	sheet, questions := seedSheet(t, db)

	first := Evaluation{
		Answers: []models.Answer{
			{QuestionID: questions[0].ID, StudentAnswer: "London", Score: 0},
			{QuestionID: questions[1].ID, StudentAnswer: "6", Score: 0},
		},
		ExtractedText: "London, 6",
		EvaluatedAt:   time.Now().UTC(),
	}
	require.NoError(t, repo.SaveEvaluation(context.Background(), sheet.ID, first))

	second := Evaluation{
		Answers: []models.Answer{
			{QuestionID: questions[0].ID, StudentAnswer: "Paris", Score: 2},
			{QuestionID: questions[1].ID, StudentAnswer: "7", Score: 1},
		},
		TotalScore:    3,
		ExtractedText: "Paris, 7",
		EvaluatedAt:   time.Now().UTC(),
	}
	require.NoError(t, repo.SaveEvaluation(context.Background(), sheet.ID, second))

	var count int64
	require.NoError(t, db.Model(&models.Answer{}).Where("answer_sheet_id = ?", sheet.ID).Count(&count).Error)
	require.Equal(t, int64(2), count, "re-evaluation must replace previous answers, not append")

	answers, err := repo.ListAnswers(context.Background(), sheet.ID)
	require.NoError(t, err)
	require.Equal(t, "Paris", answers[0].StudentAnswer)
}

func TestResultRepositorySaveEvaluationMissingSheet(t *testing.T) {
	db := setupTestDB(t)
	repo := NewResultRepository(db)

	err := repo.SaveEvaluation(context.Background(), 999, Evaluation{EvaluatedAt: time.Now().UTC()})
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
