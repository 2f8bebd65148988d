package pipeline

import (
	"log"

	"contactetl/internal/normalize"
)

// outcome is one worker result: either a normalized contact or the error that
// skipped the row. id is carried separately so failed rows can still be
// labeled.
type outcome struct {
	seq     int
	id      string
	contact *normalize.Contact // nil when err != nil
	err     error
}

// reorderWarnAt is the pending-count threshold above which the buffer logs a
// growth diagnostic; a buffer this deep usually means one worker is stalled.
const reorderWarnAt = 4096

// reorderBuffer restores input order over out-of-order worker results. It
// holds results until the next expected sequence number arrives, then releases
// the contiguous run. Single-goroutine use only.
type reorderBuffer struct {
	next    int
	pending map[int]outcome
	warned  bool
}

func newReorderBuffer(first int) *reorderBuffer {
	return &reorderBuffer{next: first, pending: make(map[int]outcome)}
}

// add buffers o and returns the contiguous run of outcomes now ready to flush,
// in sequence order. The returned slice is valid until the next call.
func (b *reorderBuffer) add(o outcome) []outcome {
	b.pending[o.seq] = o
	if len(b.pending) > reorderWarnAt && !b.warned {
		b.warned = true
		log.Printf("writer: reorder buffer holds %d rows (waiting on row %d)", len(b.pending), b.next)
	}

	var ready []outcome
	for {
		next, ok := b.pending[b.next]
		if !ok {
			return ready
		}
		delete(b.pending, b.next)
		ready = append(ready, next)
		b.next++
	}
}

// len reports how many results are still held out of order.
func (b *reorderBuffer) len() int {
	return len(b.pending)
}
