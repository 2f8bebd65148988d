package csvfile

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"contactetl/internal/normalize"
)

/*
TestSink_WriteOrderAndFormat checks the output contract: fixed header, no
BOM, semicolon delimiter, rows in write order.
*/
func TestSink_WriteOrderAndFormat(t *testing.T) {
	t.Parallel()

	var b strings.Builder
	s, err := NewWriter(&b)
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}

	ctx := context.Background()
	contacts := []normalize.Contact{
		{ID: "A1", Phone: "+971501234567", DOB: "1990-02-01"},
		{ID: "A2", Phone: "+14155552671", DOB: "1990-02-01"},
	}
	for _, c := range contacts {
		if err := s.Write(ctx, c); err != nil {
			t.Fatalf("Write: %v", err)
		}
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	want := "id;phone;dob\nA1;+971501234567;1990-02-01\nA2;+14155552671;1990-02-01\n"
	if got := b.String(); got != want {
		t.Fatalf("output = %q, want %q", got, want)
	}
	if strings.HasPrefix(b.String(), "\uFEFF") {
		t.Fatal("output starts with a BOM")
	}
}

// TestSink_HeaderOnly: a run with zero successful rows still yields a
// headered file.
func TestSink_HeaderOnly(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "out.csv")
	s, err := Create(path)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if got := string(data); got != "id;phone;dob\n" {
		t.Fatalf("file = %q, want header only", got)
	}
}
