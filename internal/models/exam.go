package models

import "time"

// Exam represents a single examination created by an instructor.
type Exam struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Title        string    `gorm:"size:255;not null" json:"title"`
	Subject      string    `gorm:"size:255;not null" json:"subject"`
	Instructions string    `gorm:"type:text" json:"instructions"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Questions    []Question `json:"questions,omitempty"`
	Students     []Student  `json:"students,omitempty"`
}

// TotalPoints sums the point values of the exam's questions.
func (e Exam) TotalPoints() float64 {
	var total float64
	for _, q := range e.Questions {
		total += q.PointValue
	}
	return total
}
