// Package pdf renders uploaded PDF documents into page images suitable
// for downstream text recognition.
package pdf

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image/jpeg"

	fitz "github.com/gen2brain/go-fitz"
	"github.com/rs/zerolog"
)

// ErrUnreadableDocument indicates the file is missing, unreadable, or
// not a parseable document. Fatal for the sheet; nothing is written.
var ErrUnreadableDocument = errors.New("document is missing or unreadable")

// Page is one rendered page: its 1-based number and the in-memory JPEG
// encoding of the raster.
type Page struct {
	Number int
	Image  []byte
}

// Renderer converts a document into an ordered sequence of page images.
type Renderer interface {
	RenderPages(ctx context.Context, path string) ([]Page, error)
}

// FitzRenderer renders PDFs with MuPDF via go-fitz. Rendering stays
// entirely in memory; no scratch files are created.
type FitzRenderer struct {
	quality int
	logger  zerolog.Logger
}

// NewFitzRenderer constructs a renderer. Quality is the JPEG encoding
// quality used for page rasters; values outside 1..100 fall back to 90.
func NewFitzRenderer(quality int, logger zerolog.Logger) *FitzRenderer {
	if quality <= 0 || quality > 100 {
		quality = 90
	}

	return &FitzRenderer{
		quality: quality,
		logger:  logger.With().Str("component", "pdf_renderer").Logger(),
	}
}

// RenderPages opens the document at path and renders every page in
// order 1..N. The document handle is closed on all paths.
func (r *FitzRenderer) RenderPages(ctx context.Context, path string) ([]Page, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadableDocument, err)
	}
	defer doc.Close()

	pageCount := doc.NumPage()
	if pageCount == 0 {
		return nil, fmt.Errorf("%w: document has no pages", ErrUnreadableDocument)
	}

	pages := make([]Page, 0, pageCount)
	for pageIdx := 0; pageIdx < pageCount; pageIdx++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		img, err := doc.Image(pageIdx)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to render page %d: %v", ErrUnreadableDocument, pageIdx+1, err)
		}

		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: r.quality}); err != nil {
			return nil, fmt.Errorf("failed to encode page %d: %w", pageIdx+1, err)
		}

		pages = append(pages, Page{Number: pageIdx + 1, Image: buf.Bytes()})
	}

	r.logger.Debug().Str("path", path).Int("pages", pageCount).Msg("document rendered")

	return pages, nil
}
