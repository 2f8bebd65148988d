package pipeline

import "testing"

func intp(n int) *int { return &n }

func TestResolveWorkers(t *testing.T) {
	t.Parallel()

	avail := availableParallelism()
	if avail < 1 {
		t.Fatalf("availableParallelism() = %d, want >= 1", avail)
	}

	if got := resolveWorkers(nil); got != 1 {
		t.Fatalf("resolveWorkers(nil) = %d, want 1", got)
	}
	if got := resolveWorkers(intp(0)); got != avail {
		t.Fatalf("resolveWorkers(0) = %d, want %d", got, avail)
	}
	if got := resolveWorkers(intp(1)); got != 1 {
		t.Fatalf("resolveWorkers(1) = %d, want 1", got)
	}
	if got := resolveWorkers(intp(avail + 100)); got != avail {
		t.Fatalf("resolveWorkers(%d) = %d, want cap %d", avail+100, got, avail)
	}
}
