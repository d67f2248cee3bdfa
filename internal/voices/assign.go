// internal/voices/assign.go
package voices

import (
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"relicpanel/internal/models"
	"relicpanel/internal/speech"
)

// DefaultPreferences maps participant names to voice-name fragments,
// tried in order.
func DefaultPreferences() map[string][]string {
	return map[string][]string{
		"Lena":            {"Anna", "Google Deutsch"},
		"Dr. Aris Thorne": {"Markus", "Yannick"},
		"Clara Vale":      {"Petra", "Sarah"},
		"Dr. Evelyn Reed": {"Elena", "Tina"},
		"Marco Voss":      {"Viktor", "Felix"},
	}
}

// Assigner binds participants to voices of one language.
type Assigner struct {
	lang  string
	prefs map[string][]string
	log   zerolog.Logger

	mu    sync.RWMutex
	bound map[string]speech.Voice
}

// New creates an Assigner for lang. Entries in overrides replace the
// default preference list of the same participant.
func New(lang string, overrides map[string][]string, logger zerolog.Logger) *Assigner {
	prefs := DefaultPreferences()
	for name, list := range overrides {
		prefs[name] = list
	}
	return &Assigner{
		lang:  lang,
		prefs: prefs,
		log:   logger,
		bound: make(map[string]speech.Voice),
	}
}

// Assign maps every participant to a voice and returns the number of
// bindings made. With no voice of the required language nothing changes.
func (a *Assigner) Assign(roster models.Roster, voices []speech.Voice) int {
	var candidates []speech.Voice
	for _, v := range voices {
		if speech.MatchesLanguage(v.Lang, a.lang) {
			candidates = append(candidates, v)
		}
	}
	if len(candidates) == 0 {
		a.log.Warn().Str("lang", a.lang).Int("voices", len(voices)).Msg("no voices for language")
		return 0
	}

	claimed := make(map[string]bool, len(candidates))
	bound := make(map[string]speech.Voice, roster.Count())
	for _, p := range roster.All() {
		v := a.pick(p.Name, candidates, claimed)
		claimed[v.ID] = true
		bound[p.Name] = v
		a.log.Debug().Str("participant", p.Name).Str("voice", v.Name).Msg("voice assigned")
	}

	a.mu.Lock()
	a.bound = bound
	a.mu.Unlock()
	return len(bound)
}

func (a *Assigner) pick(name string, candidates []speech.Voice, claimed map[string]bool) speech.Voice {
	for _, pref := range a.prefs[name] {
		needle := strings.ToLower(pref)
		for _, v := range candidates {
			if !claimed[v.ID] && strings.Contains(strings.ToLower(v.Name), needle) {
				return v
			}
		}
	}
	for _, v := range candidates {
		if !claimed[v.ID] {
			return v
		}
	}
	return candidates[0]
}

// VoiceFor returns the voice bound to name, or nil.
func (a *Assigner) VoiceFor(name string) *speech.Voice {
	a.mu.RLock()
	defer a.mu.RUnlock()
	v, ok := a.bound[name]
	if !ok {
		return nil
	}
	return &v
}

// Assignments returns a copy of the current bindings.
func (a *Assigner) Assignments() map[string]speech.Voice {
	a.mu.RLock()
	defer a.mu.RUnlock()
	out := make(map[string]speech.Voice, len(a.bound))
	for k, v := range a.bound {
		out[k] = v
	}
	return out
}

// Bind assigns from the catalog now and again whenever its list changes
// and is non-empty.
func (a *Assigner) Bind(catalog *speech.Catalog, roster models.Roster) (unbind func()) {
	unbind = catalog.Subscribe(func(list []speech.Voice) {
		if len(list) > 0 {
			a.Assign(roster, list)
		}
	})
	if list := catalog.Voices(); len(list) > 0 {
		a.Assign(roster, list)
	}
	return unbind
}
