package pdf

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestRenderPagesMissingFile(t *testing.T) {
	renderer := NewFitzRenderer(90, zerolog.Nop())

	_, err := renderer.RenderPages(context.Background(), filepath.Join(t.TempDir(), "nope.pdf"))
	require.ErrorIs(t, err, ErrUnreadableDocument)
}

func TestRenderPagesNotAPDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "garbage.pdf")
	require.NoError(t, os.WriteFile(path, []byte("this is not a pdf"), 0o644))

	renderer := NewFitzRenderer(90, zerolog.Nop())

	_, err := renderer.RenderPages(context.Background(), path)
	require.ErrorIs(t, err, ErrUnreadableDocument)
}
