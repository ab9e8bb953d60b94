package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/netechos/internal/sim"
	"github.com/san-kum/netechos/internal/storage"
	"github.com/san-kum/netechos/internal/sweep"
	"github.com/san-kum/netechos/internal/telemetry"
	"github.com/san-kum/netechos/internal/viz"
)

var (
	sweepAlphas   []float64
	sweepBetas    []float64
	sweepSigmas   []float64
	sweepSeeds    int
	sweepStart    int64
	parallel      int
	metricsAddr   string
	objective     string
	maximize      bool
	saveRuns      bool
	sweepProgress bool
)

func addSweepFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.Float64SliceVar(&sweepAlphas, "alphas", []float64{-1, 0, 1}, "alpha values")
	f.Float64SliceVar(&sweepBetas, "betas", []float64{-0.01, 0.01}, "beta values")
	f.Float64SliceVar(&sweepSigmas, "sigmas", []float64{0.1}, "sigma values")
	f.IntVar(&sweepSeeds, "seeds", 3, "runs per grid cell")
	f.Int64Var(&sweepStart, "seed-start", 0, "first seed")
	f.IntVar(&parallel, "parallel", 0, "concurrent runs (default GOMAXPROCS)")
	f.StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address during the sweep")
	f.StringVar(&objective, "objective", "polarization", "metric used to rank cells")
	f.BoolVar(&maximize, "maximize", false, "rank cells by highest objective")
	f.BoolVar(&saveRuns, "save", false, "save every run to the data directory")
	f.BoolVar(&sweepProgress, "progress", true, "show a progress bar on stderr")
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	if !cmd.Flags().Changed("record") {
		cfg.Record = string(sim.RecordSummary)
	}
	base, err := cfg.SimConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var collector *telemetry.Collector
	if metricsAddr != "" {
		collector = telemetry.NewCollector()
		go func() {
			if err := collector.Serve(ctx, metricsAddr, logger); err != nil {
				logger.Error("metrics endpoint failed", zap.Error(err))
			}
		}()
	}

	var st *storage.Store
	if saveRuns {
		st = openStore()
		if err := st.Init(); err != nil {
			return err
		}
	}

	var (
		mu    sync.Mutex
		done  int
		total int
	)
	grid, err := sweep.New(sweepAlphas, sweepBetas, sweepSigmas, sweepSeeds, sweepStart,
		sweep.WithLogger(logger),
		sweep.WithParallelism(parallel),
		sweep.WithRunOptions(func(p sweep.Point) []sim.Option {
			opts := sweep.DefaultRunOptions(p)
			if collector != nil {
				opts = append(opts, sim.WithObserver(collector.Observer()))
			}
			return opts
		}),
		sweep.WithProgress(func(o sweep.Outcome) {
			if collector != nil {
				collector.RunFinished(o.Result, o.Elapsed)
			}
			mu.Lock()
			defer mu.Unlock()
			done++
			if st != nil {
				runCfg := base
				runCfg.Params.Alpha, runCfg.Params.Beta = o.Alpha, o.Beta
				runCfg.Attitudes.Sigma = o.Sigma
				runCfg.Seed = o.Seed
				if _, err := st.Save(runCfg, o.Result); err != nil {
					logger.Error("save failed", zap.Error(err))
				}
			}
			if sweepProgress {
				fmt.Fprintf(os.Stderr, "\r%s %d/%d", viz.ProgressBar(float64(done)/float64(total), 30), done, total)
			}
		}),
	)
	if err != nil {
		return err
	}
	total = len(grid.Points())

	outcomes, err := grid.Run(ctx, base)
	if sweepProgress {
		fmt.Fprintln(os.Stderr)
	}
	if err != nil {
		return err
	}

	stats := sweep.Aggregate(outcomes, objective)
	if len(stats) == 0 {
		return fmt.Errorf("objective %q not produced by any run", objective)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "ALPHA\tBETA\tSIGMA\t%s\tSD\tRUNS\n", objective)
	for _, s := range stats {
		fmt.Fprintf(w, "%g\t%g\t%g\t%.6f\t%.6f\t%d\n", s.Alpha, s.Beta, s.Sigma, s.Mean, s.SD, s.Runs)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	best, _ := sweep.Best(outcomes, objective, maximize)
	fmt.Printf("\nbest: alpha=%g beta=%g sigma=%g %s=%.6f\n", best.Alpha, best.Beta, best.Sigma, objective, best.Mean)
	return nil
}
