package tui

import "github.com/charmbracelet/lipgloss"

// Palette shared by the calculator views.
const (
	ColorHeader  = lipgloss.Color("39")
	ColorLabel   = lipgloss.Color("245")
	ColorValue   = lipgloss.Color("255")
	ColorOK      = lipgloss.Color("42")
	ColorWarning = lipgloss.Color("214")
	ColorError   = lipgloss.Color("196")
	ColorMuted   = lipgloss.Color("240")
	ColorBorder  = lipgloss.Color("63")
	ColorFocus   = lipgloss.Color("212")
)

//nolint:gochecknoglobals // Immutable lipgloss styles.
var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorHeader).
			Border(lipgloss.NormalBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1)

	HeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorHeader)
	LabelStyle  = lipgloss.NewStyle().Foreground(ColorLabel)
	ValueStyle  = lipgloss.NewStyle().Foreground(ColorValue).Bold(true)
	SavingStyle = lipgloss.NewStyle().Foreground(ColorOK).Bold(true)
	FocusStyle  = lipgloss.NewStyle().Foreground(ColorFocus)
	HelpStyle   = lipgloss.NewStyle().Foreground(ColorMuted)

	NotificationStyle = lipgloss.NewStyle().
				Foreground(ColorError).
				Border(lipgloss.RoundedBorder()).
				BorderForeground(ColorError).
				Padding(0, 1)

	AcknowledgementStyle = lipgloss.NewStyle().
				Foreground(ColorOK).
				Border(lipgloss.RoundedBorder()).
				BorderForeground(ColorOK).
				Padding(0, 1)
)
