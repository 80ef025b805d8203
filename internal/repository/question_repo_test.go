package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gradescan/gradescan-api/internal/models"
)

func TestQuestionRepositoryListByExamOrder(t *testing.T) {
	db := setupTestDB(t)
	repo := NewQuestionRepository(db)

	exam := models.Exam{Title: "History", Subject: "hist"}
	require.NoError(t, db.Create(&exam).Error)

	other := models.Exam{Title: "Other", Subject: "other"}
	require.NoError(t, db.Create(&other).Error)

	prompts := []string{"first", "second", "third"}
	for _, prompt := range prompts {
		require.NoError(t, repo.Create(context.Background(), &models.Question{
			ExamID:      exam.ID,
			Prompt:      prompt,
			IdealAnswer: "x",
			PointValue:  1,
		}))
	}
	require.NoError(t, repo.Create(context.Background(), &models.Question{
		ExamID:      other.ID,
		Prompt:      "unrelated",
		IdealAnswer: "y",
		PointValue:  1,
	}))

	questions, err := repo.ListByExam(context.Background(), exam.ID)
	require.NoError(t, err)
	require.Len(t, questions, 3)
	for i, question := range questions {
		require.Equal(t, prompts[i], question.Prompt, "questions must come back in insertion order")
	}
}

func TestExamRepositoryGetWithQuestions(t *testing.T) {
	db := setupTestDB(t)
	examRepo := NewExamRepository(db)

	exam := models.Exam{Title: "Biology", Subject: "bio"}
	require.NoError(t, db.Create(&exam).Error)
	for _, prompt := range []string{"a", "b"} {
		require.NoError(t, db.Create(&models.Question{ExamID: exam.ID, Prompt: prompt, IdealAnswer: "x", PointValue: 1}).Error)
	}

	loaded, err := examRepo.GetWithQuestions(context.Background(), exam.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Questions, 2)
	require.Equal(t, "a", loaded.Questions[0].Prompt)
	require.Equal(t, 2.0, loaded.TotalPoints())
}
