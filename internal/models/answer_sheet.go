package models

import (
	"time"

	"gorm.io/datatypes"
)

// AnswerSheet is one student's uploaded scan for one exam. The
// evaluation fields stay null until the sheet has been evaluated and
// are overwritten as a whole on every evaluation run.
type AnswerSheet struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	StudentID       uint           `gorm:"not null;index" json:"student_id"`
	Filename        string         `gorm:"size:512;not null" json:"filename"`
	FileURL         string         `gorm:"size:512" json:"file_url"`
	ExtractedText   *string        `gorm:"type:text" json:"extracted_text"`
	EvaluatedAt     *time.Time     `json:"evaluated_at"`
	TotalScore      *float64       `json:"total_score"`
	RecognitionMeta datatypes.JSON `json:"recognition_meta,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	Student         Student        `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Answers         []Answer       `json:"answers,omitempty"`
}

// IsEvaluated reports whether the sheet carries a stored evaluation.
func (s AnswerSheet) IsEvaluated() bool {
	return s.EvaluatedAt != nil
}
