package pipeline

// resolveWorkers maps the requested worker setting to an actual pool size:
// nil means sequential (1), zero or negative means one worker per available
// CPU, and an explicit count is capped at the available CPUs.
func resolveWorkers(requested *int) int {
	if requested == nil {
		return 1
	}
	avail := availableParallelism()
	n := *requested
	if n <= 0 || n > avail {
		return avail
	}
	return n
}
