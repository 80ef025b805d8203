// Package storage persists uploaded answer-sheet documents on the
// local filesystem, where the evaluation pipeline reads them back by
// path.
package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Local writes files into a single upload directory using generated
// names, so uploaded filenames can never collide or escape the
// directory.
type Local struct {
	dir    string
	logger zerolog.Logger
}

// NewLocal constructs the store and ensures the directory exists.
func NewLocal(dir string, logger zerolog.Logger) (*Local, error) {
	if dir == "" {
		return nil, fmt.Errorf("upload directory must be provided")
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}

	return &Local{
		dir:    dir,
		logger: logger.With().Str("component", "local_storage").Logger(),
	}, nil
}

// Save stores the reader's content under a generated filename that
// keeps the original extension, returning the stored name.
func (l *Local) Save(originalName string, reader io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	name := uuid.NewString() + ext
	path := filepath.Join(l.dir, name)

	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}

	if _, err := io.Copy(file, reader); err != nil {
		file.Close()
		os.Remove(path)
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	if err := file.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("failed to close file: %w", err)
	}

	l.logger.Debug().Str("filename", name).Msg("file stored")

	return name, nil
}

// Path resolves a stored filename to its absolute location in the
// upload directory.
func (l *Local) Path(filename string) string {
	return filepath.Join(l.dir, filepath.Base(filename))
}
