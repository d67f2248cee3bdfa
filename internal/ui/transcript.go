// internal/ui/transcript.go
package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"

	"relicpanel/internal/discussion"
	"relicpanel/internal/models"
)

// RenderTranscript renders the transcript lines with colored speaker
// names, wrapped to width
func RenderTranscript(lines []models.TranscriptLine, roster models.Roster, width int) string {
	var sb strings.Builder
	body := lipgloss.NewStyle().PaddingLeft(2)
	if width > 4 {
		body = body.Width(width - 2)
	}

	for _, line := range lines {
		p := roster.Get(line.Speaker)
		sb.WriteString(SpeakerStyle(p).Render(p.Label() + ":"))
		sb.WriteString("\n")
		sb.WriteString(body.Render(line.Text))
		sb.WriteString("\n\n")
	}

	return sb.String()
}

// stateLabel is the short state shown in the panel title
func stateLabel(snap discussion.Snapshot) string {
	switch {
	case snap.Generating:
		return StatusWarn.Render("denkt nach")
	case snap.State == discussion.StateSpeaking:
		return StatusOK.Render("spricht")
	case snap.Running:
		return StatusWarn.Render("läuft")
	case snap.State == discussion.StateStopped:
		return DimStyle.Render("gestoppt")
	default:
		return DimStyle.Render("bereit")
	}
}

// TranscriptView wraps the transcript with a viewport for scrolling
type TranscriptView struct {
	Viewport viewport.Model

	lines int
	width int
}

func NewTranscriptView(width, height int) *TranscriptView {
	vp := viewport.New(width, height)
	vp.Style = lipgloss.NewStyle()
	vp.MouseWheelEnabled = true

	return &TranscriptView{Viewport: vp}
}

// SetSize resizes the viewport; content is re-wrapped on the next Sync
func (v *TranscriptView) SetSize(width, height int) {
	if width != v.width {
		v.lines = -1
	}
	v.width = width
	v.Viewport.Width = width
	v.Viewport.Height = height
}

// Sync re-renders the transcript and scrolls to the bottom when the
// number of lines changed, so manual scrolling sticks between lines
func (v *TranscriptView) Sync(lines []models.TranscriptLine, roster models.Roster) {
	if len(lines) == v.lines {
		return
	}
	v.lines = len(lines)
	v.Viewport.SetContent(RenderTranscript(lines, roster, v.Viewport.Width))
	v.Viewport.GotoBottom()
}
