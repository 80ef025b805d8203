package ai

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseScore(t *testing.T) {
	score, err := parseScore("2")
	require.NoError(t, err)
	require.Equal(t, 2.0, score)

	score, err = parseScore("1.5\n")
	require.NoError(t, err)
	require.Equal(t, 1.5, score)

	score, err = parseScore("Score: 3.0")
	require.NoError(t, err)
	require.Equal(t, 3.0, score)
}

func TestParseScoreNotANumber(t *testing.T) {
	_, err := parseScore("not a number")
	require.ErrorIs(t, err, ErrScoreParse)

	_, err = parseScore("")
	require.ErrorIs(t, err, ErrScoreParse)
}

func TestClampScore(t *testing.T) {
	require.Equal(t, 2.0, clampScore(5, 2))
	require.Equal(t, 0.0, clampScore(-1, 2))
	require.Equal(t, 1.5, clampScore(1.5, 2))
}
