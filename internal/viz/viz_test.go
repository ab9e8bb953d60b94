package viz

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/netechos/internal/dynamo"
	"github.com/san-kum/netechos/internal/metrics"
)

func sampleTrack() ([]dynamo.Vector, []metrics.Summary) {
	track := []dynamo.Vector{{0.1, -0.1, 0}, {0.2, -0.2, 0}, {0.3, -0.3, 0.1}}
	summaries := make([]metrics.Summary, len(track))
	for i, theta := range track {
		summaries[i] = metrics.Summarize(i, dynamo.State{Adjacency: dynamo.Filled(3, 1), Attitudes: theta}, 0)
	}
	return track, summaries
}

func TestCanvasSet(t *testing.T) {
	c := NewCanvas(2, 2)
	c.Set(1, 5)
	if !c.IsSet(1, 5) {
		t.Error("pixel (1,5) should be set")
	}
	if c.IsSet(0, 5) {
		t.Error("pixel (0,5) should not be set")
	}
	c.Set(-1, 0)
	c.Set(100, 100)
	c.Clear()
	if c.IsSet(1, 5) {
		t.Error("clear should reset pixels")
	}
}

func TestCanvasDrawMatrix(t *testing.T) {
	a := dynamo.NewMatrix(4)
	a.Set(0, 3, 1)
	c := NewCanvas(4, 2)
	c.DrawMatrix(a, 0)
	if !c.IsSet(6, 0) {
		t.Error("entry (0,3) should map to sub-pixel (6,0)")
	}
	if c.IsSet(0, 0) {
		t.Error("zero entries must stay blank")
	}
}

func TestCanvasDrawTrajectories(t *testing.T) {
	track, _ := sampleTrack()
	c := NewCanvas(10, 4)
	c.DrawTrajectories(track, 10)
	if strings.Count(c.String(), "\n") != 4 {
		t.Errorf("expected 4 rows, got %q", c.String())
	}
	// θ=0 maps to half of the 15 sub-pixel rows below the top
	mid := 7
	if !c.IsSet(0, mid) {
		t.Error("node at θ=0 should start mid-height")
	}
}

func TestSummarySeries(t *testing.T) {
	_, summaries := sampleTrack()
	for _, f := range append(SummaryFields, "interactions", "attitude_median", "connection_median") {
		vals, err := SummarySeries(summaries, f)
		if err != nil {
			t.Fatalf("%s: %v", f, err)
		}
		if len(vals) != 3 {
			t.Errorf("%s: expected 3 values, got %d", f, len(vals))
		}
	}
	if _, err := SummarySeries(summaries, "energy"); err == nil {
		t.Error("expected error for unknown field")
	}
}

func TestPlot(t *testing.T) {
	track, summaries := sampleTrack()
	out, err := PlotSummary(summaries, "spread", 40, 5)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "spread vs step") {
		t.Error("plot should carry its caption")
	}

	out, err = PlotAttitudes(track, 2, 40, 5)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "attitudes of 2 nodes") {
		t.Error("plot should report the node count")
	}

	if _, err := PlotSummary(nil, "spread", 40, 5); err == nil {
		t.Error("expected error for empty data")
	}
}

func TestReplay(t *testing.T) {
	track, summaries := sampleTrack()
	a := dynamo.Filled(3, 1)
	var m tea.Model = NewReplay("run", track, summaries, &a, 0)

	m, _ = m.Update(TickMsg{})
	if got := m.(Replay).Step(); got != 1 {
		t.Errorf("tick should advance to step 1, got %d", got)
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	m, _ = m.Update(TickMsg{})
	if got := m.(Replay).Step(); got != 1 {
		t.Errorf("paused replay should not advance, got %d", got)
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRight})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRight})
	if got := m.(Replay).Step(); got != 2 {
		t.Errorf("step must stop at the last index, got %d", got)
	}

	view := m.View()
	if !strings.Contains(view, "step 2/2") || !strings.Contains(view, "final adjacency") {
		t.Errorf("unexpected view:\n%s", view)
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	if got := m.(Replay).Step(); got != 1 {
		t.Errorf("left should step back, got %d", got)
	}

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Error("q should return a quit command")
	}
}
