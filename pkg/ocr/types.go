package ocr

import "context"

// TaskOCRWithRegion is the fixed top-level key identifying the
// region-labelled recognition task in a model response.
const TaskOCRWithRegion = "<OCR_WITH_REGION>"

// Recognition is the structured result of recognizing one page image:
// the ordered text fragments and, when the provider reports them, the
// bounding quads parallel to the labels.
type Recognition struct {
	Labels []string    `json:"labels"`
	Quads  [][]float64 `json:"quad_boxes,omitempty"`
}

// Extractor hands one page image to an external vision model and
// returns its recognition result. Implementations carry no state
// between pages; each invocation is independent.
type Extractor interface {
	Extract(ctx context.Context, image []byte) (Recognition, error)
}
