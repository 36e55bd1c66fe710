// Package worker runs the per-view computations of a pass with bounded
// parallelism. Each job is a short, CPU-bound computation producing a local
// result; shared state is never touched from inside a job, the caller merges
// all results sequentially after the pass.
package worker

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Job is one bounded unit of per-view computation.
type Job interface {
	Execute(ctx context.Context) Result
}

// Result is the job outcome carried back to the sequential merge step.
type Result interface {
	Err() error
}

// Run executes all jobs over a pool of the given size and returns their
// results, indexed like jobs. A non-positive size defaults to the available
// hardware parallelism. Job failures never abort the pass: they are data in
// the results, not errors.
func Run(ctx context.Context, workers int, jobs []Job) []Result {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	var g errgroup.Group
	g.SetLimit(workers)

	results := make([]Result, len(jobs))
	for i, job := range jobs {
		i, job := i, job
		g.Go(func() error {
			results[i] = job.Execute(ctx)
			return nil
		})
	}
	// jobs return nil errors by construction
	_ = g.Wait()
	return results
}
