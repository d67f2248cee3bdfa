// internal/dialogue/sanitize.go
package dialogue

import (
	"regexp"
	"strings"

	"relicpanel/internal/models"
)

const quoteChars = "\"„“”«»"

// speakerPrefix builds a pattern for "Name:", "Name (Role):" and the
// markdown-bold variants models like to emit.
func speakerPrefix(roster models.Roster) *regexp.Regexp {
	names := roster.Names()
	if len(names) == 0 {
		return nil
	}
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = regexp.QuoteMeta(n)
	}
	return regexp.MustCompile(`(?i)^\**\s*(?:` + strings.Join(quoted, "|") + `)\s*(?:\([^)]*\))?\s*\**\s*:\s*\**\s*`)
}

// Clean trims a generated line, strips wrapping quotes and a leading
// speaker-name prefix.
func Clean(text string, roster models.Roster) string {
	text = strings.TrimSpace(text)
	if re := speakerPrefix(roster); re != nil {
		text = re.ReplaceAllString(text, "")
	}
	text = strings.TrimSpace(text)
	text = strings.TrimLeft(text, quoteChars)
	text = strings.TrimRight(text, quoteChars)
	return strings.TrimSpace(text)
}
