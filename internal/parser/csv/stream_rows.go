// Package csv implements a streaming, sequence-tagging reader for delimited
// contact files. It never buffers the whole input and tolerates malformed
// lines (soft-drop via an error callback); only a missing header is fatal.
package csv

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"contactetl/internal/normalize"
)

// utf8BOM is stripped from the first header cell if present.
const utf8BOM = "\uFEFF"

// FirstDataSeq is the sequence number of the first data row. The header
// occupies line 1, so data starts at 2; sequence numbers are never reused.
const FirstDataSeq = 2

// ErrNoHeader reports an input with no header row (empty source). It aborts
// the whole run; there is nothing row-level to recover from.
var ErrNoHeader = errors.New("input has no header row")

// Row is one data row tagged with its sequence number. Seq is the sole
// correlation key used to restore output order after parallel processing.
type Row struct {
	Seq    int
	Fields normalize.RawRow
}

// Options configures the reader. The zero value is usable: semicolon
// delimiter, tolerant field counts.
type Options struct {
	// Comma is the field delimiter; 0 means ';'.
	Comma rune
}

// StreamRows reads the header, then emits one sequence-tagged Row per data
// line on out. Field names are lowercased and trimmed here so that downstream
// lookups are uniform; values are passed through raw.
//
// Malformed lines that encoding/csv cannot parse are soft-dropped through
// onErr with their 1-based line number; they consume no sequence number.
// Cells beyond the header width are ignored; short rows simply leave fields
// absent. StreamRows does not close out; the caller owns the channel.
func StreamRows(
	ctx context.Context,
	src io.Reader,
	opt Options,
	out chan<- Row,
	onErr func(line int, err error),
) error {
	comma := opt.Comma
	if comma == 0 {
		comma = ';'
	}

	cr := csv.NewReader(src)
	cr.Comma = comma
	cr.ReuseRecord = true
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1 // tolerant; width is enforced per-field below

	line := 0
	read := func() ([]string, error) { line++; return cr.Read() }

	hdr, err := read()
	if err == io.EOF {
		return ErrNoHeader
	}
	if err != nil {
		return fmt.Errorf("read header: %w", err)
	}

	headers := make([]string, len(hdr))
	for i, h := range hdr {
		if i == 0 {
			h = strings.TrimPrefix(h, utf8BOM)
		}
		headers[i] = strings.ToLower(strings.TrimSpace(h))
	}

	seq := FirstDataSeq
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		rec, err := read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			if onErr != nil {
				onErr(line, fmt.Errorf("csv read: %w", err))
			}
			continue
		}

		fields := make(normalize.RawRow, len(headers))
		for i, h := range headers {
			if h == "" {
				continue
			}
			if i < len(rec) {
				fields[h] = rec[i]
			}
		}

		select {
		case out <- Row{Seq: seq, Fields: fields}:
			seq++
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
