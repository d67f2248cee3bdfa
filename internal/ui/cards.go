// internal/ui/cards.go
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"relicpanel/internal/models"
)

var cardIcons = map[string]string{
	"database":    "▤",
	"brain":       "◉",
	"blockchain":  "⛓",
	"integration": "⚙",
}

// CardList holds the feature cards, the cursor and which cards are
// expanded
type CardList struct {
	features []models.Feature
	cursor   int
	expanded map[int]bool

	// rendered details per card, invalidated on width change
	details  map[int]string
	renderer *glamour.TermRenderer
	wrap     int
}

func NewCardList(features []models.Feature) *CardList {
	return &CardList{
		features: features,
		expanded: make(map[int]bool),
		details:  make(map[int]string),
	}
}

func (c *CardList) Up() {
	if c.cursor > 0 {
		c.cursor--
	}
}

func (c *CardList) Down() {
	if c.cursor < len(c.features)-1 {
		c.cursor++
	}
}

// Cursor returns the selected card index
func (c *CardList) Cursor() int {
	return c.cursor
}

// Selected returns the selected card
func (c *CardList) Selected() (models.Feature, bool) {
	if c.cursor < 0 || c.cursor >= len(c.features) {
		return models.Feature{}, false
	}
	return c.features[c.cursor], true
}

// Toggle expands or collapses the selected card
func (c *CardList) Toggle() {
	c.expanded[c.cursor] = !c.expanded[c.cursor]
}

// Expanded reports whether card i shows its details
func (c *CardList) Expanded(i int) bool {
	return c.expanded[i]
}

// DetailsMarkdown is the markdown rendered for an expanded card
func DetailsMarkdown(f models.Feature) string {
	var sb strings.Builder
	for _, d := range f.Details {
		sb.WriteString("- ")
		sb.WriteString(d)
		sb.WriteString("\n")
	}
	return sb.String()
}

func (c *CardList) renderDetails(i, width int) string {
	if width != c.wrap || c.renderer == nil {
		r, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle("dark"),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return DetailsMarkdown(c.features[i])
		}
		c.renderer = r
		c.wrap = width
		c.details = make(map[int]string)
	}

	if out, ok := c.details[i]; ok {
		return out
	}
	out, err := c.renderer.Render(DetailsMarkdown(c.features[i]))
	if err != nil {
		out = DetailsMarkdown(c.features[i])
	}
	out = strings.Trim(out, "\n")
	c.details[i] = out
	return out
}

// Render renders the card list. reading is the index of the card being
// read aloud, or -1
func (c *CardList) Render(width int, reading int) string {
	var sb strings.Builder
	inner := width - 4
	if inner < 20 {
		inner = 20
	}

	for i, f := range c.features {
		titleStyle := CardTitleStyle
		marker := "  "
		if i == c.cursor {
			titleStyle = SelectedCardStyle
			marker = "> "
		}

		icon := cardIcons[f.Icon]
		if icon == "" {
			icon = "•"
		}
		title := fmt.Sprintf("%s%d %s %s", marker, i+1, icon, f.Title)
		sb.WriteString(titleStyle.Render(title))
		if i == reading {
			sb.WriteString(" " + StatusOK.Render("♪ liest vor"))
		}
		sb.WriteString("\n")
		sb.WriteString(DimStyle.Width(inner).PaddingLeft(4).Render(f.Summary))
		sb.WriteString("\n")

		if c.expanded[i] {
			sb.WriteString(c.renderDetails(i, inner))
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}

	return sb.String()
}
