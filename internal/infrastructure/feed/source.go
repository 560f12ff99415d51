package feed

import (
	"context"
	"fmt"
	"io"
	"os"
)

// Source yields the raw reference feed. Implementations fetch from local
// disk or S3-compatible object storage; the parser does not care which.
type Source interface {
	Fetch(ctx context.Context) (io.ReadCloser, error)
}

// FileSource reads the feed from a local file path
type FileSource struct {
	path string
}

// NewFileSource creates a Source over a local TSV file
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Fetch opens the feed file
func (s *FileSource) Fetch(ctx context.Context) (io.ReadCloser, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open feed file %s: %w", s.path, err)
	}
	return f, nil
}
