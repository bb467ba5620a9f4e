package editor

import "github.com/charmbracelet/lipgloss"

var (
	colorTeal  = lipgloss.Color("36")
	colorAmber = lipgloss.Color("220")
	colorRed   = lipgloss.Color("167")
	colorWhite = lipgloss.Color("255")
	colorDim   = lipgloss.Color("240")
)

var (
	styleTitle    = lipgloss.NewStyle().Bold(true).Foreground(colorTeal)
	styleSelected = lipgloss.NewStyle().Bold(true).Foreground(colorAmber)
	styleNormal   = lipgloss.NewStyle().Foreground(colorWhite)
	styleDim      = lipgloss.NewStyle().Foreground(colorDim)
	styleDanger   = lipgloss.NewStyle().Bold(true).Foreground(colorRed)
	styleLabel    = lipgloss.NewStyle().Width(8).Foreground(colorDim)
	styleBox      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorDim).Padding(0, 1)
)
