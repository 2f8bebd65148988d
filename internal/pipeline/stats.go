package pipeline

import (
	"fmt"
	"strings"
	"time"
)

// Stats accumulates per-run counters. Total == Normalized + Skipped always
// holds; Errors carries one labeled line per skipped row, in input order.
type Stats struct {
	Total      int
	Normalized int
	Skipped    int
	Errors     []string
}

// fold records the outcome of one row. Called only from the single writer
// goroutine, at the moment the row is flushed in input order, so Errors stays
// deterministic across worker counts.
func (s *Stats) fold(seq int, id string, err error) {
	s.Total++
	if err == nil {
		s.Normalized++
		return
	}
	s.Skipped++
	s.Errors = append(s.Errors, errorLabel(seq, id, err))
}

// errorLabel formats the canonical skip line: "Row <seq> (ID: <id>): <reason>".
// Rows whose id was missing or blank are labeled "unknown".
func errorLabel(seq int, id string, err error) string {
	if id == "" {
		id = "unknown"
	}
	return fmt.Sprintf("Row %d (ID: %s): %v", seq, id, err)
}

// Result is the outcome of a whole run.
type Result struct {
	Stats   Stats
	Elapsed time.Duration
}

// Summary renders the run banner printed after a run.
func (r Result) Summary() string {
	rule := strings.Repeat("=", 60)
	pct := 0.0
	if r.Stats.Total > 0 {
		pct = float64(r.Stats.Normalized) / float64(r.Stats.Total) * 100
	}

	var b strings.Builder
	fmt.Fprintf(&b, "\n%s\nNORMALIZATION SUMMARY\n%s\n", rule, rule)
	fmt.Fprintf(&b, "Total rows processed: %d\n", r.Stats.Total)
	fmt.Fprintf(&b, "Successfully normalized: %d\n", r.Stats.Normalized)
	fmt.Fprintf(&b, "Rows skipped: %d\n", r.Stats.Skipped)
	fmt.Fprintf(&b, "Success rate: %.2f%%\n", pct)
	if r.Elapsed > 0 {
		secs := r.Elapsed.Seconds()
		mins := int(secs) / 60
		fmt.Fprintf(&b, "Total time: %.3fs (%dm %05.2fs)\n", secs, mins, secs-float64(mins*60))
	}
	if len(r.Stats.Errors) > 0 {
		b.WriteString("\nSkipped rows (with reasons):\n")
		for _, e := range r.Stats.Errors {
			fmt.Fprintf(&b, "  - %s\n", e)
		}
	}
	fmt.Fprintf(&b, "%s\n", rule)
	return b.String()
}
