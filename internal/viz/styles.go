package viz

import "github.com/charmbracelet/lipgloss"

var (
	HeaderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true)
	LabelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(14)
	ValueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	HelpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
	PanelStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")).Padding(0, 1)

	// ramp runs cold to hot for heatmap cells.
	ramp = []lipgloss.Style{
		lipgloss.NewStyle().Foreground(lipgloss.Color("17")),
		lipgloss.NewStyle().Foreground(lipgloss.Color("19")),
		lipgloss.NewStyle().Foreground(lipgloss.Color("26")),
		lipgloss.NewStyle().Foreground(lipgloss.Color("32")),
		lipgloss.NewStyle().Foreground(lipgloss.Color("37")),
		lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		lipgloss.NewStyle().Foreground(lipgloss.Color("106")),
		lipgloss.NewStyle().Foreground(lipgloss.Color("142")),
		lipgloss.NewStyle().Foreground(lipgloss.Color("178")),
		lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
		lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
	}

	shades = []rune("░▒▓█")
)
