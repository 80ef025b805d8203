// Package evaluation contains the pure steps of the answer-sheet
// pipeline: flattening per-page recognition labels into candidate
// answers, cleaning extraction artifacts, and aligning candidates with
// the exam's questions.
package evaluation

import (
	"strings"

	"github.com/gradescan/gradescan-api/pkg/ocr"
)

// artifact markers emitted by extraction models around recognized text.
var artifactMarkers = []string{"</s>", "<s>", "</pad>", "<pad>"}

// Aggregate flattens the per-page recognition results into one ordered
// sequence of candidate answers. Page order and in-page label order
// are preserved; pages without labels contribute nothing. No
// deduplication or reordering happens here.
func Aggregate(pages []ocr.Recognition) []string {
	var candidates []string
	for _, page := range pages {
		candidates = append(candidates, page.Labels...)
	}
	return candidates
}

// CleanAnswer strips extraction artifact markers and normalizes
// whitespace (collapse runs, trim ends).
func CleanAnswer(text string) string {
	for _, marker := range artifactMarkers {
		text = strings.ReplaceAll(text, marker, "")
	}
	return strings.Join(strings.Fields(text), " ")
}

// Align reconciles the candidate sequence with the question count:
// pad with empty strings at the end when there are too few candidates,
// truncate the trailing excess when there are too many. Pairing is
// strictly positional, so the result's Nth entry belongs to the Nth
// question in ascending-id order. Each retained candidate is cleaned
// before pairing.
func Align(candidates []string, questionCount int) []string {
	if questionCount < 0 {
		questionCount = 0
	}

	aligned := make([]string, questionCount)
	for i := 0; i < questionCount && i < len(candidates); i++ {
		aligned[i] = CleanAnswer(candidates[i])
	}

	return aligned
}
