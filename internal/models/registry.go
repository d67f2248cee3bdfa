// internal/models/registry.go
package models

import (
	"errors"
	"fmt"
	"strings"
)

// ErrEmptyRoster is returned when a roster has no participants
var ErrEmptyRoster = errors.New("roster has no participants")

// Roster is the fixed, ordered set of panel participants.
// Index 0 is always the moderator.
type Roster struct {
	participants []Participant
}

// NewRoster creates a roster, rejecting empty or duplicate names
func NewRoster(participants ...Participant) (Roster, error) {
	if len(participants) == 0 {
		return Roster{}, ErrEmptyRoster
	}

	seen := make(map[string]struct{}, len(participants))
	for i, p := range participants {
		name := strings.TrimSpace(p.Name)
		if name == "" {
			return Roster{}, fmt.Errorf("participant %d: empty name", i)
		}
		if _, dup := seen[name]; dup {
			return Roster{}, fmt.Errorf("participant %d: duplicate name %q", i, name)
		}
		seen[name] = struct{}{}
	}

	r := Roster{participants: make([]Participant, len(participants))}
	copy(r.participants, participants)
	return r, nil
}

// MustRoster is NewRoster for built-in data
func MustRoster(participants ...Participant) Roster {
	r, err := NewRoster(participants...)
	if err != nil {
		panic(err)
	}
	return r
}

// Get returns the participant at index i
func (r Roster) Get(i int) Participant {
	return r.participants[i]
}

// Moderator returns the first participant
func (r Roster) Moderator() Participant {
	return r.participants[0]
}

// All returns a copy of the participants in order
func (r Roster) All() []Participant {
	result := make([]Participant, len(r.participants))
	copy(result, r.participants)
	return result
}

// Names returns participant names in order
func (r Roster) Names() []string {
	names := make([]string, len(r.participants))
	for i, p := range r.participants {
		names[i] = p.Name
	}
	return names
}

// Count returns the roster size
func (r Roster) Count() int {
	return len(r.participants)
}

// Valid reports whether i is an index into the roster
func (r Roster) Valid(i int) bool {
	return i >= 0 && i < len(r.participants)
}

// Next returns the round-robin successor of i
func (r Roster) Next(i int) int {
	return (i + 1) % len(r.participants)
}
