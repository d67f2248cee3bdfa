// internal/export/markdown.go
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"relicpanel/internal/models"
)

// Transcript contains the data needed to export a discussion
type Transcript struct {
	RunID      string
	Project    string
	Topic      string
	ExportedAt time.Time
	Roster     models.Roster
	Lines      []models.TranscriptLine
}

// Markdown renders a discussion as a markdown document
func Markdown(t *Transcript) string {
	var sb strings.Builder

	title := t.Project + " Panel"
	if t.Topic != "" {
		title += ": " + t.Topic
	}
	sb.WriteString("# ")
	sb.WriteString(title)
	sb.WriteString("\n\n")

	sb.WriteString("---\n\n")
	if t.RunID != "" {
		sb.WriteString(fmt.Sprintf("**Run:** `%s`\n\n", t.RunID))
	}
	sb.WriteString(fmt.Sprintf("**Exported:** %s\n\n", t.ExportedAt.Format("2006-01-02 15:04:05")))

	if t.Roster.Count() > 0 {
		labels := make([]string, 0, t.Roster.Count())
		for _, p := range t.Roster.All() {
			labels = append(labels, p.Label())
		}
		sb.WriteString("**Panel:** ")
		sb.WriteString(strings.Join(labels, ", "))
		sb.WriteString("\n\n")
	}
	sb.WriteString("---\n\n")

	sb.WriteString("## Transcript\n\n")
	if len(t.Lines) == 0 {
		sb.WriteString("*Nothing was said.*\n")
	}
	for _, line := range t.Lines {
		p := t.Roster.Get(line.Speaker)
		sb.WriteString(fmt.Sprintf("**%s:**\n", p.Label()))
		for _, l := range strings.Split(strings.TrimSpace(line.Text), "\n") {
			sb.WriteString("> ")
			sb.WriteString(l)
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// Write exports the transcript to a markdown file in dir and returns its
// path. Files are named YYYY-MM-DD-HHMMSS-topic.md.
func Write(t *Transcript, dir string) (string, error) {
	name := sanitizeFilename(t.Topic)
	filename := fmt.Sprintf("%s-%s.md", t.ExportedAt.Format("2006-01-02-150405"), name)

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create export directory: %w", err)
	}

	path := filepath.Join(dir, filename)
	if err := os.WriteFile(path, []byte(Markdown(t)), 0644); err != nil {
		return "", fmt.Errorf("write transcript: %w", err)
	}
	return path, nil
}

// umlauts are spelled out so German topics keep readable file names
var umlauts = strings.NewReplacer("ä", "ae", "ö", "oe", "ü", "ue", "ß", "ss")

// sanitizeFilename removes/replaces characters unsuitable for filenames
func sanitizeFilename(name string) string {
	name = umlauts.Replace(strings.ToLower(name))

	var sb strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_':
			sb.WriteRune(r)
		case r == '-' || r == ' ':
			sb.WriteRune('-')
		}
	}

	result := sb.String()
	for strings.Contains(result, "--") {
		result = strings.ReplaceAll(result, "--", "-")
	}
	result = strings.Trim(result, "-")

	if result == "" {
		result = "panel"
	}
	if len(result) > 50 {
		result = strings.TrimRight(result[:50], "-")
	}
	return result
}
