//go:build !linux

package pipeline

import "runtime"

func availableParallelism() int {
	return runtime.NumCPU()
}
