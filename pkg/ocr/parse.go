package ocr

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrMalformedResult indicates a recognition response was missing the
// expected task key or labels field. Callers are expected to treat the
// page as contributing zero candidate answers rather than failing the
// whole document.
var ErrMalformedResult = errors.New("recognition result missing expected fields")

// ParseRecognition decodes a raw model response into a Recognition.
// The payload must be a JSON object keyed by the recognition task,
// whose value carries a labels field. A scalar labels value is
// accepted and yields a single-element sequence.
func ParseRecognition(raw []byte) (Recognition, error) {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return Recognition{}, fmt.Errorf("%w: %v", ErrMalformedResult, err)
	}

	task, ok := envelope[TaskOCRWithRegion]
	if !ok {
		return Recognition{}, fmt.Errorf("%w: missing %q key", ErrMalformedResult, TaskOCRWithRegion)
	}

	var body struct {
		Labels json.RawMessage `json:"labels"`
		Quads  [][]float64     `json:"quad_boxes"`
	}
	if err := json.Unmarshal(task, &body); err != nil {
		return Recognition{}, fmt.Errorf("%w: %v", ErrMalformedResult, err)
	}

	if len(body.Labels) == 0 {
		return Recognition{}, fmt.Errorf("%w: missing labels field", ErrMalformedResult)
	}

	labels, err := decodeLabels(body.Labels)
	if err != nil {
		return Recognition{}, err
	}

	return Recognition{Labels: labels, Quads: body.Quads}, nil
}

func decodeLabels(raw json.RawMessage) ([]string, error) {
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return list, nil
	}

	var single string
	if err := json.Unmarshal(raw, &single); err == nil {
		return []string{single}, nil
	}

	// Tolerate non-string elements by rendering them as text.
	var mixed []interface{}
	if err := json.Unmarshal(raw, &mixed); err == nil {
		labels := make([]string, 0, len(mixed))
		for _, item := range mixed {
			labels = append(labels, fmt.Sprintf("%v", item))
		}
		return labels, nil
	}

	return nil, fmt.Errorf("%w: labels has unsupported shape", ErrMalformedResult)
}
