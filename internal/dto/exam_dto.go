package dto

import (
	"time"

	"github.com/gradescan/gradescan-api/internal/models"
)

// ExamCreateRequest is the payload for creating an exam.
type ExamCreateRequest struct {
	Title        string `json:"title" validate:"required,max=255"`
	Subject      string `json:"subject" validate:"required,max=255"`
	Instructions string `json:"instructions"`
}

// QuestionCreateRequest is the payload for adding a question to an exam.
type QuestionCreateRequest struct {
	Prompt      string  `json:"prompt" validate:"required"`
	IdealAnswer string  `json:"ideal_answer" validate:"required"`
	PointValue  float64 `json:"point_value" validate:"gte=0"`
}

// ExamResponse is the API representation of an exam.
type ExamResponse struct {
	ID           uint               `json:"id"`
	Title        string             `json:"title"`
	Subject      string             `json:"subject"`
	Instructions string             `json:"instructions"`
	CreatedAt    time.Time          `json:"created_at"`
	Questions    []QuestionResponse `json:"questions,omitempty"`
}

// QuestionResponse is the API representation of a question.
type QuestionResponse struct {
	ID          uint    `json:"id"`
	ExamID      uint    `json:"exam_id"`
	Prompt      string  `json:"prompt"`
	IdealAnswer string  `json:"ideal_answer"`
	PointValue  float64 `json:"point_value"`
}

// NewExamResponse maps a model to its response form.
func NewExamResponse(exam models.Exam) ExamResponse {
	response := ExamResponse{
		ID:           exam.ID,
		Title:        exam.Title,
		Subject:      exam.Subject,
		Instructions: exam.Instructions,
		CreatedAt:    exam.CreatedAt,
	}

	for _, question := range exam.Questions {
		response.Questions = append(response.Questions, NewQuestionResponse(question))
	}

	return response
}

// NewExamResponseSlice maps a slice of models.
func NewExamResponseSlice(exams []models.Exam) []ExamResponse {
	responses := make([]ExamResponse, 0, len(exams))
	for _, exam := range exams {
		responses = append(responses, NewExamResponse(exam))
	}
	return responses
}

// NewQuestionResponse maps a model to its response form.
func NewQuestionResponse(question models.Question) QuestionResponse {
	return QuestionResponse{
		ID:          question.ID,
		ExamID:      question.ExamID,
		Prompt:      question.Prompt,
		IdealAnswer: question.IdealAnswer,
		PointValue:  question.PointValue,
	}
}

// NewQuestionResponseSlice maps a slice of models.
func NewQuestionResponseSlice(questions []models.Question) []QuestionResponse {
	responses := make([]QuestionResponse, 0, len(questions))
	for _, question := range questions {
		responses = append(responses, NewQuestionResponse(question))
	}
	return responses
}
