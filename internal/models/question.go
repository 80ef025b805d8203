package models

import "time"

// Question is one prompt on an exam together with its ideal answer and
// point value. Ascending ID order is the canonical presentation order
// and the order candidate answers are aligned against.
type Question struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	ExamID      uint      `gorm:"not null;index" json:"exam_id"`
	Prompt      string    `gorm:"type:text;not null" json:"prompt"`
	IdealAnswer string    `gorm:"type:text;not null" json:"ideal_answer"`
	PointValue  float64   `gorm:"not null" json:"point_value"`
	CreatedAt   time.Time `json:"created_at"`
	Exam        Exam      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}
