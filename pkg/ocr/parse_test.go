package ocr

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseRecognitionLabelList(t *testing.T) {
	raw := []byte(`{"<OCR_WITH_REGION>": {"labels": ["Paris", "7"], "quad_boxes": [[1,2,3,4,5,6,7,8]]}}`)

	rec, err := ParseRecognition(raw)
	require.NoError(t, err)
	require.Equal(t, []string{"Paris", "7"}, rec.Labels)
	require.Len(t, rec.Quads, 1)
}

func TestParseRecognitionScalarLabel(t *testing.T) {
	raw := []byte(`{"<OCR_WITH_REGION>": {"labels": "Paris"}}`)

	rec, err := ParseRecognition(raw)
	require.NoError(t, err)
	require.Equal(t, []string{"Paris"}, rec.Labels)
}

func TestParseRecognitionNonStringLabels(t *testing.T) {
	raw := []byte(`{"<OCR_WITH_REGION>": {"labels": [42, "x"]}}`)

	rec, err := ParseRecognition(raw)
	require.NoError(t, err)
	require.Equal(t, []string{"42", "x"}, rec.Labels)
}

func TestParseRecognitionMissingTaskKey(t *testing.T) {
	_, err := ParseRecognition([]byte(`{"other": {"labels": ["x"]}}`))
	require.ErrorIs(t, err, ErrMalformedResult)
}

func TestParseRecognitionMissingLabels(t *testing.T) {
	_, err := ParseRecognition([]byte(`{"<OCR_WITH_REGION>": {"quad_boxes": []}}`))
	require.ErrorIs(t, err, ErrMalformedResult)
}

func TestParseRecognitionInvalidJSON(t *testing.T) {
	_, err := ParseRecognition([]byte(`not json`))
	require.ErrorIs(t, err, ErrMalformedResult)
}
