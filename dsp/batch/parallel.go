package batch

import (
	"runtime"

	"golang.org/x/sync/errgroup"
)

// ForEachRow calls fn for every row index in [0, n) using at most workers
// goroutines. workers <= 0 selects GOMAXPROCS. The first error returned by
// fn is reported after all started calls have finished.
func ForEachRow(n, workers int, fn func(i int) error) error {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	if n <= 1 || workers == 1 {
		for i := range n {
			if err := fn(i); err != nil {
				return err
			}
		}

		return nil
	}

	var g errgroup.Group
	g.SetLimit(workers)
	for i := range n {
		g.Go(func() error {
			return fn(i)
		})
	}

	return g.Wait()
}
