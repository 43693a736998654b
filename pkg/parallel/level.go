package parallel

import "sync"

// RunLevel statically partitions count items into contiguous chunks, one
// per worker, and blocks until every chunk completes. This is the
// iteration-level barrier used by the diamond storage builder: no work from
// the next level starts before the current level drains.
func (wp *WorkerPool) RunLevel(count int, fn func(start, end int)) {
	if count <= 0 {
		return
	}

	// Overflow-safe ceiling division, as in the level-synchronous traverser.
	chunkSize := int((int64(count) + int64(wp.workers) - 1) / int64(wp.workers))
	if chunkSize < 1 {
		chunkSize = 1
	}

	var levelWg sync.WaitGroup
	for start := 0; start < count; start += chunkSize {
		start := start // per-iteration copy for the closure under Go <1.22 loop semantics
		end := start + chunkSize
		if end > count {
			end = count
		}

		levelWg.Add(1)
		submitted := wp.Submit(func() {
			defer levelWg.Done()
			fn(start, end)
		})
		if !submitted {
			// Pool closed underneath us; run inline so the barrier still
			// resolves.
			fn(start, end)
			levelWg.Done()
		}
	}
	levelWg.Wait()
}
