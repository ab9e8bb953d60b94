package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/netechos/internal/config"
	"github.com/san-kum/netechos/internal/metrics"
	"github.com/san-kum/netechos/internal/sim"
	"github.com/san-kum/netechos/internal/storage"
	"github.com/san-kum/netechos/internal/viz"
)

func openStore() *storage.Store {
	return storage.New(dataDir)
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	simCfg, err := cfg.SimConfig()
	if err != nil {
		return err
	}
	if saveConfig != "" {
		if err := config.Save(saveConfig, cfg); err != nil {
			return err
		}
	}

	st := openStore()
	if err := st.Init(); err != nil {
		return err
	}

	opts := []sim.Option{sim.WithLogger(logger)}
	for _, m := range metrics.Defaults() {
		opts = append(opts, sim.WithMetric(m))
	}
	engine, err := sim.New(simCfg, opts...)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("running %s network, %d nodes, %d steps (seed %d)...\n",
		simCfg.Topology.Name, simCfg.Nodes, simCfg.Steps, simCfg.Seed)
	start := time.Now()

	result, err := engine.Run(ctx)
	if err != nil && result == nil {
		return err
	}
	if err != nil {
		logger.Warn("run interrupted, saving partial result", zap.Error(err))
	}

	runID, saveErr := st.Save(engine.Config(), result)
	if saveErr != nil {
		return saveErr
	}

	fmt.Printf("%s in %v\n", result, time.Since(start).Round(time.Millisecond))
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("interaction: %s\n\n", result.Interaction)
	fmt.Println(viz.SummaryPanel(result.Summaries[len(result.Summaries)-1]))

	names := make([]string, 0, len(result.Metrics))
	for name := range result.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	fmt.Println(viz.Separator(40))
	fmt.Println("metrics:")
	for _, name := range names {
		fmt.Printf("  %s: %.6f\n", name, result.Metrics[name])
	}

	return err
}
