package profiler

import "runtime"

// RuntimeStats is a point-in-time read of the Go runtime.
type RuntimeStats struct {
	HeapAlloc  uint64
	Mallocs    uint64
	Goroutines int
	CPUs       int
}

// Runtime reads memory and scheduler counters. ReadMemStats stops the world, so call it
// at most a few times per second.
func Runtime() RuntimeStats {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return RuntimeStats{
		HeapAlloc:  m.HeapAlloc,
		Mallocs:    m.Mallocs,
		Goroutines: runtime.NumGoroutine(),
		CPUs:       runtime.NumCPU(),
	}
}
