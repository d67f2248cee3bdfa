// internal/ui/styles.go
package ui

import (
	"github.com/charmbracelet/lipgloss"

	"relicpanel/internal/models"
)

var (
	// Colors
	Sky      = lipgloss.Color("#0EA5E9")
	Green    = lipgloss.Color("#22C55E")
	Amber    = lipgloss.Color("#F59E0B")
	Red      = lipgloss.Color("#FF6B6B")
	Violet   = lipgloss.Color("#A78BFA")
	Dim      = lipgloss.Color("#555555")
	White    = lipgloss.Color("#FFFFFF")
	DarkGray = lipgloss.Color("#333333")

	// Box styles
	ActiveBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Sky)

	InactiveBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Dim)

	// Text styles
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(Sky)

	CardTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(White)

	SelectedCardStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(Sky)

	SystemStyle = lipgloss.NewStyle().
			Foreground(Amber)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(Red).
			Bold(true)

	DimStyle = lipgloss.NewStyle().
			Foreground(Dim)

	// Status indicators
	StatusOK   = lipgloss.NewStyle().Foreground(Green).Bold(true)
	StatusWarn = lipgloss.NewStyle().Foreground(Amber).Bold(true)
	StatusCrit = lipgloss.NewStyle().Foreground(Red).Bold(true)
)

// SpeakerStyle returns the name style for a participant
func SpeakerStyle(p models.Participant) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(SpeakerColor(p)).Bold(true)
}

// SpeakerColor returns the participant's accent color
func SpeakerColor(p models.Participant) lipgloss.Color {
	if p.AccentColor == "" {
		return White
	}
	return lipgloss.Color(p.AccentColor)
}
