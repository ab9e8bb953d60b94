package main

import (
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/san-kum/netechos/internal/dynamo"
	"github.com/san-kum/netechos/internal/export"
	"github.com/san-kum/netechos/internal/viz"
)

var (
	plotFields []string
	plotNodes  int
	plotWidth  int
	plotHeight int
	svgDir     string
	frameRate  int
	outPath    string
)

func listRuns(cmd *cobra.Command, args []string) error {
	runs, err := openStore().List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tNODES\tSTEPS\tALPHA\tBETA\tSIGMA\tSEED\tEND")

	for _, run := range runs {
		end := run.Termination
		if run.Condition != "" {
			end += " (" + run.Condition + ")"
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%d/%d\t%g\t%g\t%g\t%d\t%s\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Nodes,
			run.StepsTaken, run.Steps,
			run.Alpha,
			run.Beta,
			run.Sigma,
			run.Seed,
			end,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]
	st := openStore()

	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	summaries, err := st.LoadSummary(runID)
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("topology: %s, %d nodes, alpha=%g beta=%g\n", meta.Topology.Name, meta.Nodes, meta.Alpha, meta.Beta)
	fmt.Printf("steps: %d\n\n", meta.StepsTaken)

	fields := plotFields
	if len(fields) == 0 {
		fields = viz.SummaryFields
	}
	for _, field := range fields {
		graph, err := viz.PlotSummary(summaries, field, plotWidth, plotHeight)
		if err != nil {
			return err
		}
		fmt.Println(graph)
		fmt.Println()
	}

	if plotNodes > 0 {
		track, err := st.LoadAttitudes(runID)
		if err != nil {
			return err
		}
		graph, err := viz.PlotAttitudes(track, plotNodes, plotWidth, plotHeight)
		if err != nil {
			return err
		}
		fmt.Println(graph)
	}

	if svgDir != "" {
		return writeSVG(runID, meta.Record)
	}
	return nil
}

func writeSVG(runID, record string) error {
	st := openStore()
	if err := os.MkdirAll(svgDir, 0755); err != nil {
		return err
	}

	track, err := st.LoadAttitudes(runID)
	if err != nil {
		return err
	}
	path := filepath.Join(svgDir, runID+"_attitudes.svg")
	if err := os.WriteFile(path, []byte(export.AttitudesToSVG(track, 800, 400)), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", path)

	if record == "summary" {
		return nil
	}
	a, err := st.LoadAdjacency(runID)
	if err != nil {
		return err
	}
	path = filepath.Join(svgDir, runID+"_adjacency.svg")
	if err := os.WriteFile(path, []byte(export.AdjacencyToSVG(a, 8)), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", path)
	return nil
}

func replayRun(cmd *cobra.Command, args []string) error {
	runID := args[0]
	st := openStore()

	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	track, err := st.LoadAttitudes(runID)
	if err != nil {
		return err
	}
	summaries, err := st.LoadSummary(runID)
	if err != nil {
		return err
	}

	var adjacency *dynamo.Matrix
	if meta.Record != "summary" {
		if a, err := st.LoadAdjacency(runID); err == nil {
			adjacency = &a
		}
	}

	interval := time.Second / time.Duration(max(frameRate, 1))
	model := viz.NewReplay(meta.ID, track, summaries, adjacency, interval)
	_, err = tea.NewProgram(model, tea.WithAltScreen()).Run()
	return err
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st := openStore()
	if outPath == "" {
		return st.ExportJSON(args[0], os.Stdout)
	}

	f, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := st.ExportJSON(args[0], f); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "exported %s to %s\n", args[0], outPath)
	return f.Close()
}
