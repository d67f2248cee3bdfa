// internal/ui/help.go
package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	helpSectionStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(Amber).
				MarginTop(1)

	helpKeyStyle = lipgloss.NewStyle().
			Foreground(Green).
			Bold(true)

	helpCmdStyle = lipgloss.NewStyle().
			Foreground(Violet)

	helpDescStyle = lipgloss.NewStyle().
			Foreground(White)
)

// HelpContent returns the formatted help overlay content
func HelpContent(width, height int) string {
	var content strings.Builder

	content.WriteString(TitleStyle.Render("RELICPANEL HELP"))
	content.WriteString("\n\n")

	content.WriteString(helpSectionStyle.Render("KEYBINDINGS"))
	content.WriteString("\n\n")

	keybindings := []struct {
		key  string
		desc string
	}{
		{"Up/Down, k/j", "Select a feature card"},
		{"Enter / Space", "Expand or collapse the card"},
		{"r", "Read the card aloud (again to stop)"},
		{"d", "Discuss the card in the panel"},
		{"p", "Show or hide the panel (hiding clears it)"},
		{"s", "Start or stop the discussion"},
		{"PgUp/PgDn", "Scroll the transcript"},
		{":", "Command line"},
		{"h", "Discussion history"},
		{"e", "Export transcript"},
		{"?", "Toggle this help"},
		{"q / Ctrl+C", "Quit"},
	}

	for _, kb := range keybindings {
		key := helpKeyStyle.Width(16).Render(kb.key)
		content.WriteString("  " + key + "  " + helpDescStyle.Render(kb.desc) + "\n")
	}

	content.WriteString("\n")
	content.WriteString(helpSectionStyle.Render("COMMANDS"))
	content.WriteString("\n\n")

	commands := []struct {
		cmd  string
		desc string
	}{
		{"/start [topic]", "Start or resume, optionally on a topic"},
		{"/stop", "Stop the discussion"},
		{"/panel", "Show or hide the panel"},
		{"/close", "Stop and clear the discussion"},
		{"/discuss <card#>", "Discuss a feature card"},
		{"/read <card#>", "Read a feature card aloud"},
		{"/voices", "List voices and assignments"},
		{"/history", "Discussion history"},
		{"/export [dir]", "Save transcript as markdown"},
		{"/quit", "Quit"},
	}

	for _, cmd := range commands {
		c := helpCmdStyle.Width(18).Render(cmd.cmd)
		content.WriteString("  " + c + "  " + helpDescStyle.Render(cmd.desc) + "\n")
	}

	content.WriteString("\n")
	footer := DimStyle.Render("Press ? or Esc to close this help")
	content.WriteString(lipgloss.PlaceHorizontal(width-8, lipgloss.Center, footer))

	overlayStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Sky).
		Padding(1, 3).
		MaxWidth(width - 10).
		MaxHeight(height - 4)

	return lipgloss.Place(
		width,
		height,
		lipgloss.Center,
		lipgloss.Center,
		overlayStyle.Render(content.String()),
	)
}
