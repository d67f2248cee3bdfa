// internal/ui/history.go
package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"relicpanel/internal/db"
)

// ViewMode represents the current view state
type ViewMode int

const (
	ViewNormal ViewMode = iota
	ViewCommand
	ViewHistory
	ViewHelp
	ViewMessage
)

// historyLimit caps how many runs the overlay loads
const historyLimit = 200

// HistoryState holds the state for the run history browser
type HistoryState struct {
	runs      []db.Run
	err       error
	cursor    int
	scrollTop int
	maxHeight int
}

// NewHistoryState creates a new history state
func NewHistoryState() *HistoryState {
	return &HistoryState{
		maxHeight: 20, // updated from the terminal size
	}
}

// Up moves the cursor up
func (h *HistoryState) Up() {
	if h.cursor > 0 {
		h.cursor--
		if h.cursor < h.scrollTop {
			h.scrollTop = h.cursor
		}
	}
}

// Down moves the cursor down
func (h *HistoryState) Down() {
	if h.cursor < len(h.runs)-1 {
		h.cursor++
		if h.cursor >= h.scrollTop+h.maxHeight {
			h.scrollTop = h.cursor - h.maxHeight + 1
		}
	}
}

// Selected returns the currently selected run, or nil if none
func (h *HistoryState) Selected() *db.Run {
	if h.cursor >= 0 && h.cursor < len(h.runs) {
		return &h.runs[h.cursor]
	}
	return nil
}

// Load replaces the list with runs from load. A failure is kept and
// shown in the overlay.
func (h *HistoryState) Load(load func(limit int) ([]db.Run, error)) {
	h.runs, h.err = load(historyLimit)
	h.cursor = 0
	h.scrollTop = 0
}

// SetMaxHeight updates the max visible height
func (h *HistoryState) SetMaxHeight(height int) {
	h.maxHeight = height - 10 // header and footer
	if h.maxHeight < 5 {
		h.maxHeight = 5
	}
}

func reasonStyle(reason string) lipgloss.Style {
	switch reason {
	case "":
		return StatusWarn
	case "user_stopped", "context_done":
		return DimStyle
	default:
		return StatusCrit
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// Render renders the history overlay
func (h *HistoryState) Render(width, height int) string {
	var content strings.Builder

	content.WriteString(TitleStyle.Render("DISCUSSION HISTORY"))
	content.WriteString("\n")
	content.WriteString(DimStyle.Render("Past panel runs, newest first"))
	content.WriteString("\n\n")

	switch {
	case h.err != nil:
		content.WriteString(ErrorStyle.Render(h.err.Error()))
	case len(h.runs) == 0:
		content.WriteString(DimStyle.Render("No discussions yet."))
		content.WriteString("\n\n")
		content.WriteString(DimStyle.Render("Press s with the panel open to start one."))
	default:
		visibleEnd := h.scrollTop + h.maxHeight
		if visibleEnd > len(h.runs) {
			visibleEnd = len(h.runs)
		}

		header := fmt.Sprintf("  %-8s  %-22s  %-16s  %-17s  %5s  %s",
			"ID", "Topic", "Ended", "Started", "Lines", "Duration")
		content.WriteString(DimStyle.Render(header))
		content.WriteString("\n")
		content.WriteString(DimStyle.Render(strings.Repeat("-", 90)))
		content.WriteString("\n")

		for i := h.scrollTop; i < visibleEnd; i++ {
			r := h.runs[i]

			topic := r.Topic
			if topic == "" {
				topic = "(frei)"
			}
			if runes := []rune(topic); len(runes) > 20 {
				topic = string(runes[:20]) + ".."
			}

			timeStr := r.StartedAt.Local().Format("2006-01-02 15:04")
			if time.Since(r.StartedAt) < 24*time.Hour {
				timeStr = r.StartedAt.Local().Format("Today 15:04")
			}

			reason := r.EndReason
			if r.Running() {
				reason = "running"
			}

			cursor := "  "
			lineStyle := DimStyle
			if i == h.cursor {
				cursor = "> "
				lineStyle = lipgloss.NewStyle().Foreground(Sky)
			}

			reasonStr := reasonStyle(r.EndReason).Width(16).Render(reason)
			line := fmt.Sprintf("%-8s  %-22s  %s  %-17s  %5d  %s",
				shortID(r.ID), topic, reasonStr, timeStr, r.Lines, r.Duration().Round(time.Second))

			content.WriteString(cursor)
			content.WriteString(lineStyle.Render(line))
			content.WriteString("\n")
		}

		if len(h.runs) > h.maxHeight {
			scrollInfo := fmt.Sprintf("Showing %d-%d of %d",
				h.scrollTop+1, visibleEnd, len(h.runs))
			content.WriteString("\n")
			content.WriteString(DimStyle.Render(scrollInfo))
		}
	}

	content.WriteString("\n\n")
	content.WriteString(DimStyle.Render("Up/Down: Navigate | Esc: Close"))

	overlayStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Sky).
		Padding(1, 2).
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
