package viz

import "github.com/charmbracelet/lipgloss"

// Theme colors nodes by the sign of their attitude.
type Theme struct {
	Name     string
	Positive lipgloss.Color
	Negative lipgloss.Color
	Neutral  lipgloss.Color
	Accent   lipgloss.Color
}

var (
	ThemeCyberpunk = Theme{
		Name:     "cyberpunk",
		Positive: lipgloss.Color("#ff00ff"),
		Negative: lipgloss.Color("#00ffff"),
		Neutral:  lipgloss.Color("#666666"),
		Accent:   lipgloss.Color("#ffff00"),
	}

	ThemeOcean = Theme{
		Name:     "ocean",
		Positive: lipgloss.Color("#ffd700"),
		Negative: lipgloss.Color("#0077be"),
		Neutral:  lipgloss.Color("#4488aa"),
		Accent:   lipgloss.Color("#00a8cc"),
	}

	ThemeMinimal = Theme{
		Name:     "minimal",
		Positive: lipgloss.Color("#ffffff"),
		Negative: lipgloss.Color("#888888"),
		Neutral:  lipgloss.Color("#444444"),
		Accent:   lipgloss.Color("#0088ff"),
	}
)

var AllThemes = []Theme{ThemeCyberpunk, ThemeOcean, ThemeMinimal}

// NodeStyle picks the color for an attitude; values within eps of zero are
// neutral.
func (t Theme) NodeStyle(theta, eps float64) lipgloss.Style {
	c := t.Neutral
	switch {
	case theta > eps:
		c = t.Positive
	case theta < -eps:
		c = t.Negative
	}
	return lipgloss.NewStyle().Foreground(c)
}
