package pipeline

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestStats_Fold(t *testing.T) {
	t.Parallel()

	var s Stats
	s.fold(2, "A1", nil)
	s.fold(3, "", errors.New("missing id"))
	s.fold(4, "A3", errors.New("invalid phone: 12"))

	if s.Total != 3 || s.Normalized != 1 || s.Skipped != 2 {
		t.Fatalf("counters = %d/%d/%d, want 3/1/2", s.Total, s.Normalized, s.Skipped)
	}
	want := []string{
		"Row 3 (ID: unknown): missing id",
		"Row 4 (ID: A3): invalid phone: 12",
	}
	if len(s.Errors) != len(want) {
		t.Fatalf("errors = %v, want %v", s.Errors, want)
	}
	for i := range want {
		if s.Errors[i] != want[i] {
			t.Fatalf("errors[%d] = %q, want %q", i, s.Errors[i], want[i])
		}
	}
}

func TestResult_Summary(t *testing.T) {
	t.Parallel()

	r := Result{
		Stats: Stats{
			Total:      5,
			Normalized: 2,
			Skipped:    3,
			Errors:     []string{"Row 4 (ID: unknown): missing id"},
		},
		Elapsed: 1500 * time.Millisecond,
	}

	got := r.Summary()
	for _, want := range []string{
		"NORMALIZATION SUMMARY",
		"Total rows processed: 5",
		"Successfully normalized: 2",
		"Rows skipped: 3",
		"Success rate: 40.00%",
		"Total time: 1.500s (0m 01.50s)",
		"Skipped rows (with reasons):",
		"  - Row 4 (ID: unknown): missing id",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("summary missing %q:\n%s", want, got)
		}
	}
}

// An empty run must not divide by zero and must omit the error section.
func TestResult_SummaryEmpty(t *testing.T) {
	t.Parallel()

	got := Result{}.Summary()
	if !strings.Contains(got, "Success rate: 0.00%") {
		t.Fatalf("summary missing zero rate:\n%s", got)
	}
	if strings.Contains(got, "Skipped rows") {
		t.Fatalf("summary has error section for clean run:\n%s", got)
	}
}
