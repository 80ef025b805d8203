package dto

import (
	"time"

	"github.com/gradescan/gradescan-api/internal/models"
)

// SheetResponse is the API representation of an answer sheet.
type SheetResponse struct {
	ID          uint       `json:"id"`
	StudentID   uint       `json:"student_id"`
	Filename    string     `json:"filename"`
	FileURL     string     `json:"file_url,omitempty"`
	EvaluatedAt *time.Time `json:"evaluated_at"`
	TotalScore  *float64   `json:"total_score"`
	CreatedAt   time.Time  `json:"created_at"`
}

// NewSheetResponse maps a model to its response form.
func NewSheetResponse(sheet models.AnswerSheet) SheetResponse {
	return SheetResponse{
		ID:          sheet.ID,
		StudentID:   sheet.StudentID,
		Filename:    sheet.Filename,
		FileURL:     sheet.FileURL,
		EvaluatedAt: sheet.EvaluatedAt,
		TotalScore:  sheet.TotalScore,
		CreatedAt:   sheet.CreatedAt,
	}
}

// NewSheetResponseSlice maps a slice of models.
func NewSheetResponseSlice(sheets []models.AnswerSheet) []SheetResponse {
	responses := make([]SheetResponse, 0, len(sheets))
	for _, sheet := range sheets {
		responses = append(responses, NewSheetResponse(sheet))
	}
	return responses
}
