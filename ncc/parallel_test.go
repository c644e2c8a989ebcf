package ncc

import (
	"errors"
	"sort"
	"sync"
	"testing"
)

func TestEffectiveWorkers_NonPositiveUsesGOMAXPROCS(t *testing.T) {
	if got := effectiveWorkers(0); got < 1 {
		t.Fatalf("effectiveWorkers(0) = %d, want >= 1", got)
	}

	if got := effectiveWorkers(-5); got < 1 {
		t.Fatalf("effectiveWorkers(-5) = %d, want >= 1", got)
	}

	if got := effectiveWorkers(3); got != 3 {
		t.Fatalf("effectiveWorkers(3) = %d, want 3", got)
	}
}

func TestClampWorkers(t *testing.T) {
	cases := []struct {
		workers, tasks, want int
	}{
		{8, 3, 3},
		{2, 10, 2},
		{0, 10, 1},
		{4, 0, 1},
	}

	for _, tc := range cases {
		if got := clampWorkers(tc.workers, tc.tasks); got != tc.want {
			t.Fatalf("clampWorkers(%d, %d) = %d, want %d", tc.workers, tc.tasks, got, tc.want)
		}
	}
}

func TestParallelForChannels_VisitsEveryTaskExactlyOnce(t *testing.T) {
	const tasks = 37

	var mu sync.Mutex

	seen := make([]int, 0, tasks)

	err := parallelForChannels(4, tasks, func(worker, task int) error {
		mu.Lock()
		seen = append(seen, task)
		mu.Unlock()

		return nil
	})
	if err != nil {
		t.Fatalf("parallelForChannels failed: %v", err)
	}

	sort.Ints(seen)

	if len(seen) != tasks {
		t.Fatalf("visited %d tasks, want %d", len(seen), tasks)
	}

	for i, v := range seen {
		if v != i {
			t.Fatalf("task %d missing or duplicated: %v", i, seen)
		}
	}
}

func TestParallelForChannels_StableWorkerIDPerChunk(t *testing.T) {
	const (
		tasks   = 20
		workers = 4
	)

	seenWorker := make([]int, tasks)

	err := parallelForChannels(workers, tasks, func(worker, task int) error {
		seenWorker[task] = worker
		return nil
	})
	if err != nil {
		t.Fatalf("parallelForChannels failed: %v", err)
	}

	chunk := (tasks + workers - 1) / workers
	for task, worker := range seenWorker {
		want := task / chunk
		if worker != want {
			t.Fatalf("task %d: worker = %d, want %d (chunk size %d)", task, worker, want, chunk)
		}
	}
}

func TestParallelForChannels_PropagatesError(t *testing.T) {
	sentinel := errors.New("boom")

	err := parallelForChannels(4, 10, func(worker, task int) error {
		if task == 5 {
			return sentinel
		}

		return nil
	})

	if !errors.Is(err, sentinel) {
		t.Fatalf("expected sentinel error, got %v", err)
	}
}

func TestParallelFor_CoversFullRange(t *testing.T) {
	const tasks = 50

	var mu sync.Mutex

	covered := make([]bool, tasks)

	err := parallelFor(6, tasks, func(start, end int) error {
		mu.Lock()
		for i := start; i < end; i++ {
			covered[i] = true
		}
		mu.Unlock()

		return nil
	})
	if err != nil {
		t.Fatalf("parallelFor failed: %v", err)
	}

	for i, ok := range covered {
		if !ok {
			t.Fatalf("index %d never covered", i)
		}
	}
}
