package pipeline

import (
	"errors"

	"github.com/zeebo/xxh3"
)

// errDuplicateID skips repeated ids when deduplication is enabled.
var errDuplicateID = errors.New("duplicate id")

// deduper tracks ids already written. It stores 64-bit xxh3 hashes instead of
// the ids themselves to keep memory flat on large inputs. Single-goroutine use
// only; the writer consults it in input order, so "first occurrence wins" is
// deterministic.
type deduper struct {
	seen map[uint64]struct{}
}

func newDeduper() *deduper {
	return &deduper{seen: make(map[uint64]struct{})}
}

// duplicate reports whether id was seen before, recording it if not.
func (d *deduper) duplicate(id string) bool {
	h := xxh3.HashString(id)
	if _, ok := d.seen[h]; ok {
		return true
	}
	d.seen[h] = struct{}{}
	return false
}
