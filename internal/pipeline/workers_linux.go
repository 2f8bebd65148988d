//go:build linux

package pipeline

import (
	"runtime"

	"golang.org/x/sys/unix"
)

// availableParallelism honors the CPU affinity mask, not the machine CPU
// count, so container CPU limits are respected.
func availableParallelism() int {
	var set unix.CPUSet
	if err := unix.SchedGetaffinity(0, &set); err == nil {
		if n := set.Count(); n > 0 {
			return n
		}
	}
	return runtime.NumCPU()
}
