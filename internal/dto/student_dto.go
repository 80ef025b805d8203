package dto

import (
	"time"

	"github.com/gradescan/gradescan-api/internal/models"
)

// StudentCreateRequest is the payload for registering a student on an exam.
type StudentCreateRequest struct {
	Name string `json:"name" validate:"required,max=255"`
}

// StudentResponse is the API representation of a student.
type StudentResponse struct {
	ID        uint      `json:"id"`
	ExamID    uint      `json:"exam_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// NewStudentResponse maps a model to its response form.
func NewStudentResponse(student models.Student) StudentResponse {
	return StudentResponse{
		ID:        student.ID,
		ExamID:    student.ExamID,
		Name:      student.Name,
		CreatedAt: student.CreatedAt,
	}
}

// NewStudentResponseSlice maps a slice of models.
func NewStudentResponseSlice(students []models.Student) []StudentResponse {
	responses := make([]StudentResponse, 0, len(students))
	for _, student := range students {
		responses = append(responses, NewStudentResponse(student))
	}
	return responses
}
