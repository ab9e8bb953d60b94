package sim

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Ensemble repeats one configuration over consecutive seeds.
type Ensemble struct {
	cfg       Config
	numRuns   int
	seedStart int64
	limit     int
	options   func(run int) []Option
}

// NewEnsemble runs cfg numRuns times with seeds seedStart, seedStart+1, ...
// options is called once per run so stateful metrics and observers are never
// shared between goroutines; it may be nil.
func NewEnsemble(cfg Config, numRuns int, seedStart int64, options func(run int) []Option) *Ensemble {
	return &Ensemble{
		cfg:       cfg,
		numRuns:   numRuns,
		seedStart: seedStart,
		limit:     runtime.GOMAXPROCS(0),
		options:   options,
	}
}

// SetLimit bounds the number of concurrent runs. n <= 0 means GOMAXPROCS.
func (e *Ensemble) SetLimit(n int) {
	if n <= 0 {
		n = runtime.GOMAXPROCS(0)
	}
	e.limit = n
}

// Run returns results indexed by run. The first error cancels the remaining
// runs.
func (e *Ensemble) Run(ctx context.Context) ([]*Result, error) {
	results := make([]*Result, e.numRuns)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.limit)

	for i := 0; i < e.numRuns; i++ {
		g.Go(func() error {
			cfg := e.cfg
			cfg.Seed = e.seedStart + int64(i)

			var opts []Option
			if e.options != nil {
				opts = e.options(i)
			}
			engine, err := New(cfg, opts...)
			if err != nil {
				return err
			}
			res, err := engine.Run(ctx)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
