// Package sweep runs the model over a grid of (alpha, beta, sigma) values
// and several seeds per cell, in parallel.
package sweep

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"sort"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/san-kum/netechos/internal/dynamo"
	"github.com/san-kum/netechos/internal/metrics"
	"github.com/san-kum/netechos/internal/sim"
)

// Point is one run of the grid.
type Point struct {
	Alpha float64 `json:"alpha"`
	Beta  float64 `json:"beta"`
	Sigma float64 `json:"sigma"`
	Seed  int64   `json:"seed"`
}

// Cell identifies a grid cell independent of the seed.
type Cell struct {
	Alpha float64 `json:"alpha"`
	Beta  float64 `json:"beta"`
	Sigma float64 `json:"sigma"`
}

func (p Point) Cell() Cell { return Cell{Alpha: p.Alpha, Beta: p.Beta, Sigma: p.Sigma} }

type Outcome struct {
	Point
	Result  *sim.Result
	Elapsed time.Duration
}

type Grid struct {
	Alphas    []float64
	Betas     []float64
	Sigmas    []float64
	Seeds     int
	SeedStart int64

	parallelism int
	logger      *zap.Logger
	options     func(p Point) []sim.Option
	onDone      func(Outcome)
}

type Option func(*Grid)

func WithLogger(l *zap.Logger) Option {
	return func(g *Grid) {
		if l != nil {
			g.logger = l
		}
	}
}

// WithParallelism bounds the number of concurrent runs. n <= 0 means GOMAXPROCS.
func WithParallelism(n int) Option {
	return func(g *Grid) {
		if n > 0 {
			g.parallelism = n
		}
	}
}

// WithRunOptions supplies engine options per run, e.g. fresh metrics.
func WithRunOptions(fn func(p Point) []sim.Option) Option {
	return func(g *Grid) { g.options = fn }
}

// WithProgress is called after each run completes. Calls may be concurrent.
func WithProgress(fn func(Outcome)) Option {
	return func(g *Grid) { g.onDone = fn }
}

func New(alphas, betas, sigmas []float64, seeds int, seedStart int64, opts ...Option) (*Grid, error) {
	g := &Grid{
		Alphas:      alphas,
		Betas:       betas,
		Sigmas:      sigmas,
		Seeds:       seeds,
		SeedStart:   seedStart,
		parallelism: runtime.GOMAXPROCS(0),
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	if err := g.validate(); err != nil {
		return nil, err
	}
	return g, nil
}

func (g *Grid) validate() error {
	for name, vals := range map[string][]float64{"alpha": g.Alphas, "beta": g.Betas, "sigma": g.Sigmas} {
		if len(vals) == 0 {
			return &dynamo.ParameterError{Field: name, Value: vals, Reason: "sweep needs at least one value"}
		}
	}
	if g.Seeds < 1 {
		return &dynamo.ParameterError{Field: "seeds", Value: g.Seeds, Reason: "must be at least 1"}
	}
	return nil
}

// Points enumerates the grid in alpha, beta, sigma, seed order.
func (g *Grid) Points() []Point {
	points := make([]Point, 0, len(g.Alphas)*len(g.Betas)*len(g.Sigmas)*g.Seeds)
	for _, a := range g.Alphas {
		for _, b := range g.Betas {
			for _, s := range g.Sigmas {
				for k := 0; k < g.Seeds; k++ {
					points = append(points, Point{Alpha: a, Beta: b, Sigma: s, Seed: g.SeedStart + int64(k)})
				}
			}
		}
	}
	return points
}

// Run executes every point with base as the template and returns outcomes in
// Points order. The first failing run cancels the rest.
func (g *Grid) Run(ctx context.Context, base sim.Config) ([]Outcome, error) {
	points := g.Points()
	outcomes := make([]Outcome, len(points))
	began := time.Now()

	g.logger.Info("sweep started",
		zap.Int("runs", len(points)),
		zap.Int("parallelism", g.parallelism),
	)

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(g.parallelism)

	for i, p := range points {
		eg.Go(func() error {
			cfg := base
			cfg.Params.Alpha = p.Alpha
			cfg.Params.Beta = p.Beta
			cfg.Attitudes.Sigma = p.Sigma
			cfg.Seed = p.Seed

			var opts []sim.Option
			if g.options != nil {
				opts = g.options(p)
			}
			engine, err := sim.New(cfg, opts...)
			if err != nil {
				return fmt.Errorf("alpha=%g beta=%g sigma=%g: %w", p.Alpha, p.Beta, p.Sigma, err)
			}
			start := time.Now()
			res, err := engine.Run(ctx)
			if err != nil {
				return err
			}

			outcomes[i] = Outcome{Point: p, Result: res, Elapsed: time.Since(start)}
			if g.onDone != nil {
				g.onDone(outcomes[i])
			}
			g.logger.Debug("sweep run finished",
				zap.Float64("alpha", p.Alpha),
				zap.Float64("beta", p.Beta),
				zap.Float64("sigma", p.Sigma),
				zap.Int64("seed", p.Seed),
				zap.Int("steps_taken", res.StepsTaken),
			)
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	g.logger.Info("sweep finished", zap.Duration("elapsed", time.Since(began)))
	return outcomes, nil
}

// CellStat aggregates one metric over the seeds of a cell.
type CellStat struct {
	Cell
	Mean float64 `json:"mean"`
	SD   float64 `json:"sd"`
	Runs int     `json:"runs"`
}

// Aggregate groups outcomes by cell and averages the named value over seeds.
// Names are engine metric names or "polarization_final" and "spread_final",
// which are read from the last summary row.
func Aggregate(outcomes []Outcome, name string) []CellStat {
	byCell := make(map[Cell][]float64)
	var order []Cell
	for _, o := range outcomes {
		v, ok := value(o.Result, name)
		if !ok {
			continue
		}
		c := o.Cell()
		if _, seen := byCell[c]; !seen {
			order = append(order, c)
		}
		byCell[c] = append(byCell[c], v)
	}

	stats := make([]CellStat, 0, len(order))
	for _, c := range order {
		vals := byCell[c]
		mean := 0.0
		for _, v := range vals {
			mean += v
		}
		mean /= float64(len(vals))
		ss := 0.0
		for _, v := range vals {
			ss += (v - mean) * (v - mean)
		}
		stats = append(stats, CellStat{Cell: c, Mean: mean, SD: math.Sqrt(ss / float64(len(vals))), Runs: len(vals)})
	}
	return stats
}

// Best returns the cell with the lowest (or highest) seed-averaged value.
func Best(outcomes []Outcome, name string, maximize bool) (CellStat, bool) {
	stats := Aggregate(outcomes, name)
	if len(stats) == 0 {
		return CellStat{}, false
	}
	sort.SliceStable(stats, func(i, j int) bool {
		if maximize {
			return stats[i].Mean > stats[j].Mean
		}
		return stats[i].Mean < stats[j].Mean
	})
	return stats[0], true
}

func value(res *sim.Result, name string) (float64, bool) {
	if res == nil {
		return 0, false
	}
	if v, ok := res.Metrics[name]; ok {
		return v, true
	}
	if len(res.Summaries) == 0 {
		return 0, false
	}
	last := res.Summaries[len(res.Summaries)-1]
	switch name {
	case "polarization_final":
		return last.Polarization, true
	case "spread_final":
		return last.Spread, true
	case "connection_final":
		return last.ConnectionMean, true
	}
	return 0, false
}

// DefaultRunOptions attaches a fresh set of the standard metrics to each run.
func DefaultRunOptions(Point) []sim.Option {
	var opts []sim.Option
	for _, m := range metrics.Defaults() {
		opts = append(opts, sim.WithMetric(m))
	}
	return opts
}
