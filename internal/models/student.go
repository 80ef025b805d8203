package models

import "time"

// Student represents a learner registered on an exam.
type Student struct {
	ID           uint          `gorm:"primaryKey" json:"id"`
	ExamID       uint          `gorm:"not null;index" json:"exam_id"`
	Name         string        `gorm:"size:255;not null" json:"name"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
	Exam         Exam          `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	AnswerSheets []AnswerSheet `json:"answer_sheets,omitempty"`
}
