package engine

import (
	"runtime"
	"runtime/debug"
)

var memFree = func() int64 {
	limit := debug.SetMemoryLimit(-1)
	var stats runtime.MemStats
	runtime.ReadMemStats(&stats)
	return limit - int64(stats.Sys-stats.HeapReleased)
}

// checkAlloc returns an Overflow exception if an integer of the given bit length can't be allocated within
// debug.SetMemoryLimit().
// There's still a chance to breach the limit due to a race condition.
// Yet, it can still prevent allocation of unreasonably large integers.
func checkAlloc(op string, bits float64) error {
	if bits/8 > float64(memFree()) {
		return OverflowError(op, "result too large", bits)
	}
	return nil
}

// safely runs f and turns a runtime panic caused by an unreasonably large allocation into an Overflow exception.
func safely(op string, f func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			// e.g. "runtime error: makeslice: len out of range"
			if _, ok := r.(runtime.Error); !ok {
				panic(r)
			}
			err = OverflowError(op, "result too large", nil)
		}
	}()
	f()
	return nil
}
