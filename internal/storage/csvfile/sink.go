// Package csvfile writes normalized contacts as semicolon-delimited text:
// a fixed "id;phone;dob" header, no byte-order mark, one line per contact in
// the order written.
package csvfile

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"contactetl/internal/normalize"
	"contactetl/internal/storage"
)

func init() {
	storage.Register("csv", func(_ context.Context, cfg storage.Config) (storage.Sink, error) {
		return Create(cfg.Path)
	})
}

// Sink writes contacts through an encoding/csv writer.
type Sink struct {
	w      *csv.Writer
	closer io.Closer // nil when wrapping a caller-owned writer
}

// Create opens (truncating) the output file at path and writes the header.
func Create(path string) (*Sink, error) {
	if path == "" {
		return nil, fmt.Errorf("csv sink: output path is required")
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("csv sink: %w", err)
	}
	s, err := NewWriter(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	s.closer = f
	return s, nil
}

// NewWriter wraps an existing writer (tests, stdout). The header is written
// immediately so that even a zero-row run produces a headered output.
func NewWriter(w io.Writer) (*Sink, error) {
	cw := csv.NewWriter(w)
	cw.Comma = ';'
	if err := cw.Write(storage.Columns); err != nil {
		return nil, fmt.Errorf("csv sink: write header: %w", err)
	}
	return &Sink{w: cw}, nil
}

func (s *Sink) Write(_ context.Context, c normalize.Contact) error {
	if err := s.w.Write([]string{c.ID, c.Phone, c.DOB}); err != nil {
		return fmt.Errorf("csv sink: %w", err)
	}
	return nil
}

func (s *Sink) Close() error {
	s.w.Flush()
	if err := s.w.Error(); err != nil {
		return fmt.Errorf("csv sink: flush: %w", err)
	}
	if s.closer != nil {
		return s.closer.Close()
	}
	return nil
}
