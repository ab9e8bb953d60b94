// Package export renders saved runs as standalone SVG files.
package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/netechos/internal/dynamo"
)

const (
	positiveStroke = "#ff00ff"
	negativeStroke = "#00ffff"
	neutralStroke  = "#888888"
)

// AttitudesToSVG draws one polyline per node over the step axis. The
// vertical axis spans [-π/2, π/2]; lines are colored by the sign of the
// node's final attitude.
func AttitudesToSVG(track []dynamo.Vector, width, height int) string {
	if len(track) == 0 || len(track[0]) == 0 {
		return ""
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<line x1="0" y1="%.1f" x2="%d" y2="%.1f" stroke="#333333"/>
`, width, height, width, height, float64(height)/2, width, float64(height)/2)

	steps := len(track)
	xOf := func(step int) float64 {
		if steps == 1 {
			return 0
		}
		return float64(step) / float64(steps-1) * float64(width)
	}
	yOf := func(theta float64) float64 {
		return (dynamo.AttitudeBound - theta) / (2 * dynamo.AttitudeBound) * float64(height)
	}

	final := track[steps-1]
	for node := range track[0] {
		stroke := neutralStroke
		switch {
		case final[node] > 0:
			stroke = positiveStroke
		case final[node] < 0:
			stroke = negativeStroke
		}

		fmt.Fprintf(&sb, `<path fill="none" stroke="%s" stroke-width="1" stroke-opacity="0.7" d="M%.1f,%.1f`,
			stroke, xOf(0), yOf(track[0][node]))
		for step := 1; step < steps; step++ {
			fmt.Fprintf(&sb, " L%.1f,%.1f", xOf(step), yOf(track[step][node]))
		}
		sb.WriteString("\"/>\n")
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// AdjacencyToSVG draws the matrix as a heatmap with cell×cell squares whose
// opacity is the connection weight. Zero entries are omitted.
func AdjacencyToSVG(a dynamo.Matrix, cell float64) string {
	n := a.Size()
	if n == 0 {
		return ""
	}
	size := float64(n) * cell

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<g fill="#00ff88">
`, size, size, size, size)

	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			w := a.At(i, j)
			if w <= 0 {
				continue
			}
			fmt.Fprintf(&sb, `<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill-opacity="%.3f"/>
`, float64(j)*cell, float64(i)*cell, cell, cell, w)
		}
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}
