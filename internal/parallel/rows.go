// Package parallel provides the row-band work splitting used by the CPU
// iteration path.
package parallel

import (
	"runtime"
	"sync"
)

// Rows splits the half-open row range [0, n) into contiguous bands, one per
// worker, and runs fn(lo, hi) on each band concurrently. The last band,
// which also absorbs the remainder rows when n does not divide evenly, runs
// on the calling goroutine. Rows returns once every band has completed.
//
// Bands never overlap, so fn may write to disjoint regions of a shared
// buffer without synchronization; the return from Rows is the only barrier.
//
// If workers is 0 or negative, GOMAXPROCS is used.
func Rows(n, workers int, fn func(lo, hi int)) {
	if n <= 0 {
		return
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > n {
		workers = n
	}
	band := n / workers

	var wg sync.WaitGroup
	wg.Add(workers - 1)
	for w := 0; w < workers-1; w++ {
		lo := w * band
		go func(lo, hi int) {
			defer wg.Done()
			fn(lo, hi)
		}(lo, lo+band)
	}

	// Final band plus remainder on the calling goroutine.
	fn((workers-1)*band, n)
	wg.Wait()
}
