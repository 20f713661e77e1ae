package parallel

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/dd0wney/cluso-netensemble/pkg/logging"
)

// ErrTaskPanic wraps a panic raised by a ForEach task
var ErrTaskPanic = errors.New("task panicked")

// ForEach runs fn(i) for every i in [0, n) on up to workers goroutines.
//
// Results are the caller's to store by index, so output order never
// depends on scheduling. Once a task fails no new indexes are started and
// the error with the lowest index is returned. workers <= 1 runs inline.
func ForEach(n, workers int, fn func(i int) error) error {
	return ForEachWithLogger(n, workers, logging.NewNopLogger(), fn)
}

// ForEachWithLogger is ForEach with panic reporting to logger
func ForEachWithLogger(n, workers int, logger logging.Logger, fn func(i int) error) error {
	if n <= 0 {
		return nil
	}

	if workers <= 1 || n == 1 {
		for i := 0; i < n; i++ {
			if err := fn(i); err != nil {
				return err
			}
		}
		return nil
	}

	if workers > n {
		workers = n
	}

	pool, err := NewWorkerPoolWithLogger(workers, logger)
	if err != nil {
		return err
	}

	errs := make([]error, n)
	var failed atomic.Bool

	for i := 0; i < n; i++ {
		if failed.Load() {
			break
		}
		idx := i
		pool.Submit(func() {
			if failed.Load() {
				return
			}
			defer func() {
				if r := recover(); r != nil {
					errs[idx] = fmt.Errorf("%w: index %d: %v", ErrTaskPanic, idx, r)
					failed.Store(true)
				}
			}()
			if err := fn(idx); err != nil {
				errs[idx] = err
				failed.Store(true)
			}
		})
	}
	pool.Close()

	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
