package tui

import "github.com/charmbracelet/lipgloss"

var (
	subtle    = lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#383838"}
	highlight = lipgloss.AdaptiveColor{Light: "#E57000", Dark: "#FF8C1A"}
	special   = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}
	warning   = lipgloss.AdaptiveColor{Light: "#D97706", Dark: "#F59E0B"}

	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(highlight).
			Align(lipgloss.Center)

	SectionStyle = lipgloss.NewStyle().
			Bold(true).
			MarginTop(1)

	ItemStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			PaddingLeft(2)

	SelectedItemStyle = lipgloss.NewStyle().
				Foreground(highlight).
				Bold(true).
				PaddingLeft(2)

	RunningStyle = lipgloss.NewStyle().Foreground(special)

	IdleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))

	ErrorStyle = lipgloss.NewStyle().Foreground(warning)

	DividerStyle = lipgloss.NewStyle().Foreground(subtle)

	WindowStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(highlight).
			Padding(0, 1)
)
