package dto

import (
	"time"

	"github.com/gradescan/gradescan-api/internal/models"
)

// AnswerResult is one scored (question, candidate answer) pair.
type AnswerResult struct {
	QuestionID    uint    `json:"question_id"`
	Prompt        string  `json:"prompt"`
	PointValue    float64 `json:"point_value"`
	StudentAnswer string  `json:"student_answer"`
	Score         float64 `json:"score"`
}

// EvaluationResponse is the outcome of one answer-sheet evaluation.
type EvaluationResponse struct {
	SheetID       uint           `json:"sheet_id"`
	TotalScore    float64        `json:"total_score"`
	MaxScore      float64        `json:"max_score"`
	EvaluatedAt   time.Time      `json:"evaluated_at"`
	ExtractedText string         `json:"extracted_text"`
	Answers       []AnswerResult `json:"answers"`
}

// NewAnswerResult maps an answer row (with its question preloaded) to
// its response form.
func NewAnswerResult(answer models.Answer) AnswerResult {
	return AnswerResult{
		QuestionID:    answer.QuestionID,
		Prompt:        answer.Question.Prompt,
		PointValue:    answer.Question.PointValue,
		StudentAnswer: answer.StudentAnswer,
		Score:         answer.Score,
	}
}
