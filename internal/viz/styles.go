package viz

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/netechos/internal/metrics"
)

var (
	Panel = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#444466")).
		Padding(0, 1)

	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#00ffff"))

	Subtle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#666688"))

	StatusRunning = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00ff88"))

	StatusPaused = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ffaa00"))

	MetricValue = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00ccff")).
			Bold(true)

	MetricLabel = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888899"))

	KeyHint = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#666688")).
		Italic(true)

	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ffffff")).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(lipgloss.Color("#444466"))

	SparkHigh = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ff88"))
	SparkMid  = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffcc00"))
	SparkLow  = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff4444"))
)

// ProgressBar renders done/total as a colored bar.
func ProgressBar(percent float64, width int) string {
	filled := int(percent * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}

	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)

	if percent > 0.8 {
		return SparkHigh.Render(bar)
	} else if percent > 0.4 {
		return SparkMid.Render(bar)
	}
	return SparkLow.Render(bar)
}

// Sparkline renders values as block characters, sampled to width.
func Sparkline(values []float64, width int) string {
	if len(values) == 0 {
		return strings.Repeat("─", width)
	}

	chars := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	lo, hi := values[0], values[0]
	for _, v := range values {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	rng := hi - lo
	if rng == 0 {
		rng = 1
	}

	step := len(values) / width
	if step < 1 {
		step = 1
	}

	var result strings.Builder
	for i := 0; i < width && i*step < len(values); i++ {
		norm := (values[i*step] - lo) / rng
		idx := int(norm * float64(len(chars)-1))
		idx = max(0, min(idx, len(chars)-1))

		c := string(chars[idx])
		switch {
		case norm > 0.7:
			result.WriteString(SparkHigh.Render(c))
		case norm > 0.3:
			result.WriteString(SparkMid.Render(c))
		default:
			result.WriteString(SparkLow.Render(c))
		}
	}

	return result.String()
}

// SummaryPanel renders the statistics of one step as a labelled block.
func SummaryPanel(s metrics.Summary) string {
	rows := []struct {
		label string
		value float64
	}{
		{"attitude mean", s.AttitudeMean},
		{"attitude sd", s.AttitudeSD},
		{"connection mean", s.ConnectionMean},
		{"connection sd", s.ConnectionSD},
		{"polarization", s.Polarization},
		{"spread", s.Spread},
	}

	var b strings.Builder
	for _, r := range rows {
		fmt.Fprintf(&b, "%s %s\n", MetricLabel.Render(fmt.Sprintf("%-16s", r.label)), MetricValue.Render(fmt.Sprintf("%+.4f", r.value)))
	}
	fmt.Fprintf(&b, "%s %s", MetricLabel.Render(fmt.Sprintf("%-16s", "interactions")), MetricValue.Render(fmt.Sprintf("%d", s.Interactions)))
	return Panel.Render(b.String())
}

func Separator(width int) string {
	mid := width / 2
	left := strings.Repeat("─", max(mid-3, 0))
	right := strings.Repeat("─", max(width-mid-3, 0))
	return Subtle.Render(left + " ◆ " + right)
}
