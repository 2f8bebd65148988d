package pipeline

import "testing"

// TestReorderBuffer_ReleasesContiguousRuns feeds results out of order and
// checks that the buffer only ever releases the contiguous prefix.
func TestReorderBuffer_ReleasesContiguousRuns(t *testing.T) {
	t.Parallel()

	b := newReorderBuffer(2)

	if got := b.add(outcome{seq: 4}); len(got) != 0 {
		t.Fatalf("add(4) released %d outcomes, want 0", len(got))
	}
	if got := b.add(outcome{seq: 3}); len(got) != 0 {
		t.Fatalf("add(3) released %d outcomes, want 0", len(got))
	}

	got := b.add(outcome{seq: 2})
	if len(got) != 3 {
		t.Fatalf("add(2) released %d outcomes, want 3", len(got))
	}
	for i, o := range got {
		if want := 2 + i; o.seq != want {
			t.Fatalf("released[%d].seq = %d, want %d", i, o.seq, want)
		}
	}

	if b.len() != 0 {
		t.Fatalf("pending = %d after full drain, want 0", b.len())
	}

	// The cursor advances past released rows.
	if got := b.add(outcome{seq: 5}); len(got) != 1 || got[0].seq != 5 {
		t.Fatalf("add(5) = %v, want single seq 5", got)
	}
}
