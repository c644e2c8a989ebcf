package ncc

import (
	"runtime"
	"sync"
)

// effectiveWorkers resolves a requested worker count to a usable one:
// non-positive means "use all hardware parallelism".
func effectiveWorkers(workers int) int {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	if workers < 1 {
		workers = 1
	}

	return workers
}

// clampWorkers never schedules more workers than there are tasks.
func clampWorkers(workers, tasks int) int {
	if tasks < 1 {
		return 1
	}

	if workers < 1 {
		workers = 1
	}

	if workers > tasks {
		return tasks
	}

	return workers
}

// parallelForChannels partitions n tasks (channels) into contiguous
// chunks, one per worker, and runs fn once per task with a stable worker
// id in [0, workers) that the caller uses to select its exclusive
// per-worker workspace. This mirrors the original C's OpenMP "parallel
// for" with static scheduling, where each thread owns one workspace slot
// (tid = omp_get_thread_num()) for every channel it processes.
func parallelForChannels(workers, tasks int, fn func(worker, task int) error) error {
	if tasks <= 0 {
		return nil
	}

	if workers <= 1 || tasks == 1 {
		for task := 0; task < tasks; task++ {
			if err := fn(0, task); err != nil {
				return err
			}
		}

		return nil
	}

	chunk := (tasks + workers - 1) / workers

	var (
		wg      sync.WaitGroup
		errOnce sync.Once
		err     error
	)

	for w := 0; w < workers; w++ {
		start := w * chunk
		if start >= tasks {
			break
		}

		end := start + chunk
		if end > tasks {
			end = tasks
		}

		wg.Add(1)

		go func(worker, start, end int) {
			defer wg.Done()

			for task := start; task < end; task++ {
				if e := fn(worker, task); e != nil {
					errOnce.Do(func() {
						err = e
					})

					return
				}
			}
		}(w, start, end)
	}

	wg.Wait()

	return err
}

// parallelFor partitions [0, tasks) into contiguous chunks, one per
// worker, and runs fn once per chunk. Used for the channel-axis
// accumulation reduction, where work is naturally chunkable and there is
// no per-worker exclusive resource to track.
func parallelFor(workers, tasks int, fn func(start, end int) error) error {
	if tasks <= 0 {
		return nil
	}

	if workers <= 1 || tasks == 1 {
		return fn(0, tasks)
	}

	chunk := (tasks + workers - 1) / workers

	var (
		wg      sync.WaitGroup
		errOnce sync.Once
		err     error
	)

	for w := 0; w < workers; w++ {
		start := w * chunk
		if start >= tasks {
			break
		}

		end := start + chunk
		if end > tasks {
			end = tasks
		}

		wg.Add(1)

		go func(start, end int) {
			defer wg.Done()

			if e := fn(start, end); e != nil {
				errOnce.Do(func() {
					err = e
				})
			}
		}(start, end)
	}

	wg.Wait()

	return err
}
