package tui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ff7043"))

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#555566")).
			Padding(0, 2).
			Width(38)

	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))

	playingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00ff88"))
	idleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ffaa00"))
	errorStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ff4444"))
	graphStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Italic(true).MarginTop(1)
)

// bandColors maps AQI status text to its conventional color.
var bandColors = map[string]lipgloss.Color{
	"Good":                           lipgloss.Color("#00e400"),
	"Moderate":                       lipgloss.Color("#ffff00"),
	"Unhealthy for Sensitive Groups": lipgloss.Color("#ff7e00"),
	"Unhealthy":                      lipgloss.Color("#ff0000"),
	"Very Unhealthy":                 lipgloss.Color("#8f3f97"),
	"Hazardous":                      lipgloss.Color("#7e0023"),
}
