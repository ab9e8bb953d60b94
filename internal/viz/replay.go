package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/netechos/internal/dynamo"
	"github.com/san-kum/netechos/internal/metrics"
)

type TickMsg time.Time

// Replay steps through the attitude track and summaries of a saved run.
type Replay struct {
	title     string
	track     []dynamo.Vector
	summaries []metrics.Summary
	adjacency *dynamo.Matrix

	step     int
	paused   bool
	interval time.Duration
	theme    int
	width    int
}

// NewReplay builds a replay model. adjacency is the final matrix of a
// full-mode run and may be nil.
func NewReplay(title string, track []dynamo.Vector, summaries []metrics.Summary, adjacency *dynamo.Matrix, interval time.Duration) Replay {
	if interval <= 0 {
		interval = 100 * time.Millisecond
	}
	return Replay{
		title:     title,
		track:     track,
		summaries: summaries,
		adjacency: adjacency,
		interval:  interval,
		width:     80,
	}
}

func (m Replay) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Replay) Init() tea.Cmd { return m.tick() }

func (m Replay) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case " ":
			m.paused = !m.paused
		case "right", "l":
			m.step = min(m.step+1, m.last())
		case "left", "h":
			m.step = max(m.step-1, 0)
		case "home", "g":
			m.step = 0
		case "t":
			m.theme = (m.theme + 1) % len(AllThemes)
		}
		return m, nil
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	case TickMsg:
		if !m.paused && m.step < m.last() {
			m.step++
		}
		return m, m.tick()
	}
	return m, nil
}

func (m Replay) last() int { return max(len(m.track)-1, 0) }

// Step returns the index currently shown.
func (m Replay) Step() int { return m.step }

func (m Replay) View() string {
	if len(m.track) == 0 {
		return "no data\n"
	}
	theme := AllThemes[m.theme]

	status := StatusRunning.Render("PLAYING")
	if m.paused {
		status = StatusPaused.Render("PAUSED")
	} else if m.step == m.last() {
		status = StatusPaused.Render("END")
	}
	header := HeaderStyle.Render(fmt.Sprintf("%s  step %d/%d", m.title, m.step, m.last())) + "  " + status

	canvas := NewCanvas(max(m.width/2, 20), 10)
	canvas.DrawTrajectories(m.track, m.step)

	var nodes strings.Builder
	for i, theta := range m.track[m.step] {
		if i > 0 && i%16 == 0 {
			nodes.WriteString("\n")
		}
		nodes.WriteString(theme.NodeStyle(theta, 0.05).Render("●"))
	}

	left := Panel.Render(Title.Render("attitudes") + "\n" + canvas.String() + nodes.String())
	right := ""
	if m.step < len(m.summaries) {
		right = SummaryPanel(m.summaries[m.step])
		spread := make([]float64, m.step+1)
		for i := range spread {
			spread[i] = m.summaries[i].Spread
		}
		right += "\n" + MetricLabel.Render("spread ") + Sparkline(spread, 24)
	}
	if m.adjacency != nil && m.step == m.last() {
		adj := NewCanvas(16, 8)
		adj.DrawMatrix(*m.adjacency, 0)
		right += "\n" + Panel.Render(Title.Render("final adjacency")+"\n"+adj.String())
	}

	help := KeyHint.Render("space pause · ←/→ step · g start · t theme (") +
		lipgloss.NewStyle().Foreground(theme.Accent).Render(theme.Name) +
		KeyHint.Render(") · q quit")
	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		lipgloss.JoinHorizontal(lipgloss.Top, left, " ", right),
		help,
	) + "\n"
}
