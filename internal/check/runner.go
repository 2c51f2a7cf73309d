package check

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/semaphore"
)

// Runner executes a set of checks and collects their results in input
// order. The default is sequential execution; setting Parallel above 1
// fans independent checks out across that many goroutines. Either way
// each check goes through Run, so timing and result shape are identical.
type Runner struct {
	log logrus.FieldLogger

	// Parallel is the maximum number of checks in flight. Values below
	// 2 mean sequential execution.
	Parallel int64
}

// NewRunner creates a sequential runner logging through log.
func NewRunner(log logrus.FieldLogger) *Runner {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Runner{log: log, Parallel: 1}
}

// RunAll executes every check and returns one result per check, in the
// order the checks were supplied.
func (r *Runner) RunAll(ctx context.Context, checks []Check) []Result {
	if r.Parallel > 1 {
		return r.runParallel(ctx, checks)
	}
	return r.runSequential(ctx, checks)
}

func (r *Runner) runSequential(ctx context.Context, checks []Check) []Result {
	results := make([]Result, 0, len(checks))
	for _, c := range checks {
		r.log.WithField("check", c.Name()).Debug("running check")
		res := Run(ctx, c)
		r.log.WithFields(logrus.Fields{
			"check":    res.Name,
			"status":   res.Status,
			"duration": res.Duration,
		}).Debug("check finished")
		results = append(results, res)
	}
	return results
}

func (r *Runner) runParallel(ctx context.Context, checks []Check) []Result {
	sem := semaphore.NewWeighted(r.Parallel)
	results := make([]Result, len(checks))

	var wg sync.WaitGroup
	for i, c := range checks {
		if err := sem.Acquire(ctx, 1); err != nil {
			// Context cancelled mid-pass: run the remainder inline so
			// every check still yields exactly one result.
			results[i] = Run(ctx, c)
			continue
		}

		wg.Add(1)
		go func(i int, c Check) {
			defer wg.Done()
			defer sem.Release(1)
			results[i] = Run(ctx, c)
		}(i, c)
	}
	wg.Wait()

	for _, res := range results {
		r.log.WithFields(logrus.Fields{
			"check":    res.Name,
			"status":   res.Status,
			"duration": res.Duration,
		}).Debug("check finished")
	}
	return results
}
