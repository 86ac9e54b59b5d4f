package sblint

import (
	"context"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/semaphore"
)

// FileLinter lints a single file; a nil error means the file passed.
type FileLinter interface {
	Lint(ctx context.Context, path string) error
}

// Runner drives one FileLinter invocation per input file under a counting
// permit. Workers share nothing but the tallies, the optional result sinks
// and the log channel held by the linter itself.
type Runner struct {
	// Parallel is the number of permits; values below 1 mean sequential.
	Parallel int
	// Timeout bounds a single lint invocation. Zero means no budget. A job
	// over budget is counted as failed and never disturbs other jobs.
	Timeout time.Duration
	// Success and Fail, when set, receive one path per line as files finish.
	Success io.Writer
	Fail    io.Writer
}

// Summary is the final tally of one Run.
type Summary struct {
	Passed  int
	Failed  int
	Total   int
	Elapsed time.Duration
}

// Run lints every file and blocks until all workers have finished. A failed
// file is terminal within the run; nothing is retried.
func (r *Runner) Run(ctx context.Context, lint FileLinter, files []string) Summary {
	permits := int64(r.Parallel)
	if permits < 1 {
		permits = 1
	}
	sem := semaphore.NewWeighted(permits)

	var (
		passed, failed atomic.Int64
		sinkMu         sync.Mutex
		wg             sync.WaitGroup
	)
	appendPath := func(w io.Writer, path string) {
		if w == nil {
			return
		}
		sinkMu.Lock()
		defer sinkMu.Unlock()
		_, _ = io.WriteString(w, path+"\n")
	}

	start := time.Now()
	for _, path := range files {
		// The acquire is the only blocking point tied to concurrency control.
		if err := sem.Acquire(ctx, 1); err != nil {
			break
		}
		wg.Add(1)
		go func(path string) {
			defer wg.Done()
			defer sem.Release(1)

			jobCtx := ctx
			if r.Timeout > 0 {
				var cancel context.CancelFunc
				jobCtx, cancel = context.WithTimeout(ctx, r.Timeout)
				defer cancel()
			}

			if err := lint.Lint(jobCtx, path); err != nil {
				failed.Add(1)
				appendPath(r.Fail, path)
				return
			}
			passed.Add(1)
			appendPath(r.Success, path)
		}(path)
	}
	wg.Wait()

	return Summary{
		Passed:  int(passed.Load()),
		Failed:  int(failed.Load()),
		Total:   len(files),
		Elapsed: time.Since(start),
	}
}
