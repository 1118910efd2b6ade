package tui

import "github.com/charmbracelet/lipgloss"

// Theme holds the styles used by the views. Colors are ANSI 256 codes.
type Theme struct {
	Tab         lipgloss.Style
	ActiveTab   lipgloss.Style
	Header      lipgloss.Style
	Selected    lipgloss.Style
	Faint       lipgloss.Style
	Acquired    lipgloss.Style
	Help        lipgloss.Style
	AlertError  lipgloss.Style
	AlertInfo   lipgloss.Style
	InputLabel  lipgloss.Style
	FocusedMark lipgloss.Style
}

// DefaultTheme is the built-in dark-terminal style set.
var DefaultTheme = Theme{
	Tab:         lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("245")),
	ActiveTab:   lipgloss.NewStyle().Padding(0, 1).Bold(true).Foreground(lipgloss.Color("230")).Background(lipgloss.Color("62")),
	Header:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("111")),
	Selected:    lipgloss.NewStyle().Foreground(lipgloss.Color("230")).Background(lipgloss.Color("237")),
	Faint:       lipgloss.NewStyle().Foreground(lipgloss.Color("243")),
	Acquired:    lipgloss.NewStyle().Strikethrough(true).Foreground(lipgloss.Color("243")),
	Help:        lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	AlertError:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("231")).Background(lipgloss.Color("124")).Padding(0, 1),
	AlertInfo:   lipgloss.NewStyle().Foreground(lipgloss.Color("231")).Background(lipgloss.Color("25")).Padding(0, 1),
	InputLabel:  lipgloss.NewStyle().Width(10).Foreground(lipgloss.Color("250")),
	FocusedMark: lipgloss.NewStyle().Foreground(lipgloss.Color("212")),
}
