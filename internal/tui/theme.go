package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/medinalabs/neuropredictor/internal/sim"
)

// Theme holds the color scheme for the terminal UI.
type Theme struct {
	Accent lipgloss.Color
	Text   lipgloss.Color
	Dim    lipgloss.Color
	Error  lipgloss.Color
	Border lipgloss.Color
}

var defaultTheme = Theme{
	Accent: lipgloss.Color(sim.ColorAccent),
	Text:   lipgloss.Color("#E4E4E7"),
	Dim:    lipgloss.Color(sim.ColorLabelDim),
	Error:  lipgloss.Color("#F87171"),
	Border: lipgloss.Color("#3F3F46"),
}

func (t Theme) titleStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Accent).Bold(true)
}

func (t Theme) subtitleStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Dim)
}

func (t Theme) labelStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Text).Bold(true)
}

func (t Theme) wordStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Accent).Bold(true)
}

func (t Theme) statusStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Text)
}

func (t Theme) errorStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Error).Bold(true)
}

func (t Theme) hintStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Dim).Italic(true)
}

func (t Theme) buttonStyle(enabled bool) lipgloss.Style {
	s := lipgloss.NewStyle().Padding(0, 1).Bold(true)
	if enabled {
		return s.Background(t.Accent).Foreground(lipgloss.Color("#FFFFFF"))
	}
	return s.Background(t.Border).Foreground(t.Dim)
}

func (t Theme) canvasStyle() lipgloss.Style {
	return lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(t.Border)
}
