package ai

import "context"

// ScoreInput contains one aligned (question, candidate answer) pair to grade.
type ScoreInput struct {
	Prompt          string
	CandidateAnswer string
	IdealAnswer     string
	PointValue      float64
}

// Scorer describes an AI model capable of grading a candidate answer
// against its ideal answer, producing a score in [0, PointValue].
type Scorer interface {
	Score(ctx context.Context, input ScoreInput) (float64, error)
}
