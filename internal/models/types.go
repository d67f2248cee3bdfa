// internal/models/types.go
package models

import "fmt"

// Participant is a member of the discussion panel
type Participant struct {
	Name        string `yaml:"name" json:"name"`
	Role        string `yaml:"role" json:"role"`
	AccentColor string `yaml:"accent_color" json:"accent_color"` // Hex color for UI
	Persona     string `yaml:"persona,omitempty" json:"persona,omitempty"`
}

// Label returns "name (role)", the form used in prompts and history
func (p Participant) Label() string {
	if p.Role == "" {
		return p.Name
	}
	return fmt.Sprintf("%s (%s)", p.Name, p.Role)
}

// TranscriptLine is one spoken line of the discussion
type TranscriptLine struct {
	Speaker int    `json:"speaker"` // index into the roster
	Text    string `json:"text"`
}

// Feature is a card presented on the landing view
type Feature struct {
	Title   string   `yaml:"title" json:"title"`
	Icon    string   `yaml:"icon" json:"icon"`
	Summary string   `yaml:"summary" json:"summary"`
	Details []string `yaml:"details" json:"details"`
}
