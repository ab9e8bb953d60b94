package viz

import (
	"fmt"

	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/netechos/internal/dynamo"
	"github.com/san-kum/netechos/internal/metrics"
)

// SummaryFields names the plottable summary columns in display order.
var SummaryFields = []string{"attitude_mean", "attitude_sd", "connection_mean", "connection_sd", "polarization", "spread"}

// SummarySeries extracts one summary column over time.
func SummarySeries(summaries []metrics.Summary, field string) ([]float64, error) {
	out := make([]float64, len(summaries))
	for i, s := range summaries {
		switch field {
		case "attitude_mean":
			out[i] = s.AttitudeMean
		case "attitude_sd":
			out[i] = s.AttitudeSD
		case "attitude_median":
			out[i] = s.AttitudeMedian
		case "connection_mean":
			out[i] = s.ConnectionMean
		case "connection_sd":
			out[i] = s.ConnectionSD
		case "connection_median":
			out[i] = s.ConnectionMedian
		case "polarization":
			out[i] = s.Polarization
		case "spread":
			out[i] = s.Spread
		case "interactions":
			out[i] = float64(s.Interactions)
		default:
			return nil, fmt.Errorf("unknown summary field %q", field)
		}
	}
	return out, nil
}

// PlotSummary draws one summary column against the step index.
func PlotSummary(summaries []metrics.Summary, field string, width, height int) (string, error) {
	if len(summaries) == 0 {
		return "", fmt.Errorf("no data to plot")
	}
	data, err := SummarySeries(summaries, field)
	if err != nil {
		return "", err
	}
	return asciigraph.Plot(data,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(field+" vs step"),
	), nil
}

var seriesColors = []asciigraph.AnsiColor{
	asciigraph.Red, asciigraph.Green, asciigraph.Yellow, asciigraph.Blue,
	asciigraph.Magenta, asciigraph.Cyan,
}

// PlotAttitudes overlays the attitude trajectories of up to maxNodes nodes.
func PlotAttitudes(track []dynamo.Vector, maxNodes, width, height int) (string, error) {
	if len(track) == 0 || len(track[0]) == 0 {
		return "", fmt.Errorf("no data to plot")
	}
	n := min(len(track[0]), maxNodes)

	series := make([][]float64, n)
	colors := make([]asciigraph.AnsiColor, n)
	for node := 0; node < n; node++ {
		series[node] = make([]float64, len(track))
		for step, theta := range track {
			series[node][step] = theta[node]
		}
		colors[node] = seriesColors[node%len(seriesColors)]
	}

	return asciigraph.PlotMany(series,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.LowerBound(-dynamo.AttitudeBound),
		asciigraph.UpperBound(dynamo.AttitudeBound),
		asciigraph.SeriesColors(colors...),
		asciigraph.Caption(fmt.Sprintf("attitudes of %d nodes vs step", n)),
	), nil
}
