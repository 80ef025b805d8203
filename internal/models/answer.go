package models

import "time"

// Answer holds the candidate text assigned to one question of an
// answer sheet and its score. Rows exist only for the most recent
// evaluation of the sheet; re-evaluation replaces them wholesale.
type Answer struct {
	ID            uint        `gorm:"primaryKey" json:"id"`
	AnswerSheetID uint        `gorm:"not null;index" json:"answer_sheet_id"`
	QuestionID    uint        `gorm:"not null;index" json:"question_id"`
	StudentAnswer string      `gorm:"type:text" json:"student_answer"`
	Score         float64     `gorm:"not null" json:"score"`
	CreatedAt     time.Time   `json:"created_at"`
	AnswerSheet   AnswerSheet `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Question      Question    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"question"`
}
