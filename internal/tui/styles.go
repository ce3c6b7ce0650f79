package tui

import "github.com/charmbracelet/lipgloss"

var (
	PrimaryColor  = lipgloss.Color("#7C3AED")
	PositiveColor = lipgloss.Color("#10B981")
	NegativeColor = lipgloss.Color("#EF4444")
	NeutralColor  = lipgloss.Color("#6B7280")
	BorderColor   = lipgloss.Color("#374151")
	TextColor     = lipgloss.Color("#F9FAFB")
	MutedColor    = lipgloss.Color("#9CA3AF")
	WarningColor  = lipgloss.Color("#F59E0B")
)

var (
	PanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(BorderColor).
			Padding(0, 1)

	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(PrimaryColor)

	MutedStyle = lipgloss.NewStyle().
			Foreground(MutedColor)

	PositiveStyle = lipgloss.NewStyle().
			Foreground(PositiveColor)

	NegativeStyle = lipgloss.NewStyle().
			Foreground(NegativeColor)

	NeutralStyle = lipgloss.NewStyle().
			Foreground(NeutralColor)

	WarningStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(WarningColor)

	ActiveWindowStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(TextColor).
				Background(PrimaryColor).
				Padding(0, 1)

	WindowStyle = lipgloss.NewStyle().
			Foreground(MutedColor).
			Padding(0, 1)
)

// labelStyle colors a sentiment label.
func labelStyle(label string) lipgloss.Style {
	switch label {
	case "positive":
		return PositiveStyle
	case "negative":
		return NegativeStyle
	default:
		return NeutralStyle
	}
}
