package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/netechos/internal/config"
	"github.com/san-kum/netechos/internal/logging"
	"github.com/san-kum/netechos/internal/topology"
)

var (
	dataDir  string
	logLevel string
	devLogs  bool
	logger   = zap.NewNop()
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "netechos",
		Short:         "attitude and network co-evolution simulator",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			l, err := logging.New(logLevel, devLogs)
			if err != nil {
				return err
			}
			logger = l
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".netechos", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&devLogs, "dev", false, "human-readable development logs")

	runCmd := &cobra.Command{
		Use:   "run [topology]",
		Short: "run one simulation and save it",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSimulation,
	}
	addModelFlags(runCmd)

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "run a parameter grid over alpha, beta and sigma",
		Args:  cobra.NoArgs,
		RunE:  runSweep,
	}
	addModelFlags(sweepCmd)
	addSweepFlags(sweepCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot run summaries and attitudes",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringSliceVar(&plotFields, "field", nil, "summary fields to plot (default: all)")
	plotCmd.Flags().IntVar(&plotNodes, "nodes", 6, "attitude trajectories to overlay (0 to skip)")
	plotCmd.Flags().IntVar(&plotWidth, "width", 80, "plot width")
	plotCmd.Flags().IntVar(&plotHeight, "height", 10, "plot height")
	plotCmd.Flags().StringVar(&svgDir, "svg", "", "also write SVG renderings into this directory")

	replayCmd := &cobra.Command{
		Use:   "replay [run_id]",
		Short: "step through a saved run interactively",
		Args:  cobra.ExactArgs(1),
		RunE:  replayRun,
	}
	replayCmd.Flags().IntVar(&frameRate, "fps", 10, "playback steps per second")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export the attitude trajectory as CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return openStore().ExportCSV(args[0], os.Stdout)
		},
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range config.ListPresets() {
				p := config.GetPreset(name)
				fmt.Printf("  %-12s %-22s nodes=%-4d alpha=%-5g beta=%-6g sigma=%g\n",
					name, p.Topology.Name, p.Nodes, p.Alpha, p.Beta, p.Attitudes.Sigma)
			}
			return nil
		},
	}

	topologiesCmd := &cobra.Command{
		Use:   "topologies",
		Short: "list available initial topologies",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range topology.Names() {
				fmt.Printf("  %s\n", name)
			}
			return nil
		},
	}

	rootCmd.AddCommand(runCmd, sweepCmd, listCmd, plotCmd, replayCmd, exportCSVCmd, exportJSONCmd, presetsCmd, topologiesCmd)

	err := rootCmd.Execute()
	_ = logger.Sync()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
