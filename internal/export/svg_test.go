package export

import (
	"strings"
	"testing"

	"github.com/san-kum/netechos/internal/dynamo"
)

func TestAttitudesToSVG(t *testing.T) {
	track := []dynamo.Vector{{0.1, -0.1, 0}, {0.2, -0.2, 0}}
	svg := AttitudesToSVG(track, 200, 100)

	if !strings.HasPrefix(svg, "<?xml") || !strings.HasSuffix(svg, "</svg>") {
		t.Fatal("expected a complete SVG document")
	}
	if got := strings.Count(svg, "<path"); got != 3 {
		t.Errorf("expected one path per node, got %d", got)
	}
	for _, color := range []string{positiveStroke, negativeStroke, neutralStroke} {
		if !strings.Contains(svg, color) {
			t.Errorf("missing stroke %s", color)
		}
	}
	// θ=0 sits at mid-height
	if !strings.Contains(svg, "M0.0,50.0") {
		t.Error("neutral node should start at (0, 50)")
	}

	if AttitudesToSVG(nil, 10, 10) != "" {
		t.Error("empty track should render nothing")
	}
}

func TestAdjacencyToSVG(t *testing.T) {
	a := dynamo.NewMatrix(3)
	a.Set(0, 1, 0.5)
	a.Set(2, 0, 1)
	svg := AdjacencyToSVG(a, 10)

	if got := strings.Count(svg, "fill-opacity"); got != 2 {
		t.Errorf("expected 2 cells, got %d", got)
	}
	if !strings.Contains(svg, `x="10.0" y="0.0" width="10.0" height="10.0" fill-opacity="0.500"`) {
		t.Error("cell (0,1) misplaced")
	}
	if !strings.Contains(svg, `width="30" height="30"`) {
		t.Error("canvas should be n×cell wide")
	}
}
