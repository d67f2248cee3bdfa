// Package speech plays synthesized utterances through a text-to-speech
// engine and tracks which logical channel currently owns the audio output.
//
// One [Output] wraps one [Engine]. At most one utterance is active per
// Output; a new utterance supersedes the active one. Channel ids scope the
// observable "currently playing" state so that, for example, reading a
// card aloud does not look like the discussion speaking.
package speech

import (
	"context"
	"errors"
	"strings"
)

var (
	// ErrUnsupported means the engine capability is absent.
	ErrUnsupported = errors.New("speech: synthesis not supported")
	// ErrInterrupted is returned to a Speak caller whose utterance was
	// cancelled by Stop or superseded by another utterance.
	ErrInterrupted = errors.New("speech: utterance interrupted")
)

// Voice is an opaque synthesizer voice handle.
type Voice struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Lang string `json:"lang"`
}

// Utterance is one request to the engine.
type Utterance struct {
	Text  string
	Lang  string
	Voice *Voice // nil selects the engine default for Lang
	Rate  float64
	Pitch float64
}

// Engine is a text-to-speech backend.
type Engine interface {
	// Probe reports whether the engine can be used at all.
	Probe(ctx context.Context) error

	// Speak plays u and blocks until playback ends. started is called
	// once audio begins. Cancelling ctx must stop playback promptly.
	Speak(ctx context.Context, u Utterance, started func()) error

	// Voices lists the voices currently available.
	Voices(ctx context.Context) ([]Voice, error)
}

// MatchesLanguage reports whether a voice tagged lang serves the
// required tag. Matching is a case-insensitive prefix match on
// normalized tags; a voice without a region ("de") also serves a
// regional requirement ("de-DE").
func MatchesLanguage(lang, required string) bool {
	l := normalizeTag(lang)
	r := normalizeTag(required)
	if r == "" {
		return true
	}
	if l == "" {
		return false
	}
	if strings.HasPrefix(l, r) {
		return true
	}
	if !strings.Contains(l, "-") {
		primary, _, _ := strings.Cut(r, "-")
		return l == primary
	}
	return false
}

func normalizeTag(tag string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(tag), "_", "-"))
}

func equalVoices(a, b []Voice) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
