package pipeline

import (
	"context"
	"runtime"
	"sync"
)

// Outcome is the result of running a task for one corpus ID.
type Outcome[T any] struct {
	ID    string
	Value T
	Err   error
}

type Task[T any] func(ctx context.Context, id string) (T, error)

type job struct {
	index int
	id    string
}

type indexed[T any] struct {
	index   int
	outcome Outcome[T]
}

// Map runs fn for every id on a bounded pool of workers and returns the outcomes in the order
// of ids. workers <= 0 uses one worker per CPU. Once ctx is done no further ids are dispatched
// and the remaining outcomes carry ctx.Err().
func Map[T any](ctx context.Context, ids []string, workers int, fn Task[T]) []Outcome[T] {
	if len(ids) == 0 || fn == nil {
		return nil
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
		if workers < 1 {
			workers = 1
		}
	}
	if workers > len(ids) {
		workers = len(ids)
	}

	jobs := make(chan job)
	results := make(chan indexed[T], len(ids))
	var wg sync.WaitGroup

	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				v, err := fn(ctx, j.id)
				results <- indexed[T]{index: j.index, outcome: Outcome[T]{ID: j.id, Value: v, Err: err}}
			}
		}()
	}

	dispatched := 0
dispatch:
	for i, id := range ids {
		select {
		case <-ctx.Done():
			break dispatch
		case jobs <- job{index: i, id: id}:
			dispatched++
		}
	}
	close(jobs)
	wg.Wait()
	close(results)

	out := make([]Outcome[T], len(ids))
	for r := range results {
		out[r.index] = r.outcome
	}
	for i := dispatched; i < len(ids); i++ {
		out[i] = Outcome[T]{ID: ids[i], Err: ctx.Err()}
	}
	return out
}
