package service

import (
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/gradescan/gradescan-api/internal/dto"
	"github.com/gradescan/gradescan-api/internal/models"
)

func TestExamServiceCreateValidation(t *testing.T) {
	exams := &fakeExamRepo{}
	questions := &fakeQuestionRepo{}
	svc := NewExamService(exams, questions, validator.New(validator.WithRequiredStructEnabled()), testLogger())

	_, err := svc.Create(context.Background(), dto.ExamCreateRequest{Subject: "geo"})
	require.Error(t, err)

	var validationErrors validator.ValidationErrors
	require.ErrorAs(t, err, &validationErrors)
}

func TestExamServiceAddQuestionSanitizesPrompt(t *testing.T) {
	exams := &fakeExamRepo{exam: models.Exam{ID: 7, Title: "Geography", Subject: "geo"}}
	questions := &fakeQuestionRepo{}
	svc := NewExamService(exams, questions, validator.New(validator.WithRequiredStructEnabled()), testLogger())

	question, err := svc.AddQuestion(context.Background(), 7, dto.QuestionCreateRequest{
		Prompt:      "<script>alert(1)</script>Capital of France?",
		IdealAnswer: "Paris",
		PointValue:  2,
	})
	require.NoError(t, err)
	require.Equal(t, "Capital of France?", question.Prompt)
	require.Equal(t, 2.0, question.PointValue)
	require.Len(t, questions.questions, 1)
}

func TestExamServiceAddQuestionUnknownExam(t *testing.T) {
	exams := &fakeExamRepo{err: gorm.ErrRecordNotFound}
	questions := &fakeQuestionRepo{}
	svc := NewExamService(exams, questions, validator.New(validator.WithRequiredStructEnabled()), testLogger())

	_, err := svc.AddQuestion(context.Background(), 99, dto.QuestionCreateRequest{
		Prompt:      "Capital of France?",
		IdealAnswer: "Paris",
		PointValue:  2,
	})
	require.ErrorIs(t, err, ErrExamNotFound)
	require.Empty(t, questions.questions)
}

func TestExamServiceGetUnknownExam(t *testing.T) {
	exams := &fakeExamRepo{err: gorm.ErrRecordNotFound}
	svc := NewExamService(exams, &fakeQuestionRepo{}, validator.New(validator.WithRequiredStructEnabled()), testLogger())

	_, err := svc.Get(context.Background(), 99)
	require.ErrorIs(t, err, ErrExamNotFound)
}
