// internal/discussion/state.go
package discussion

import (
	"fmt"

	"relicpanel/internal/models"
)

// State is the phase of the discussion.
type State int

const (
	StateIdle State = iota
	StateOpening
	StateSpeaking
	StateAwaitingNextLine
	StateStopped
)

var stateNames = [...]string{"idle", "opening", "speaking", "awaiting_next_line", "stopped"}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("state(%d)", int(s))
	}
	return stateNames[s]
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *State) UnmarshalText(b []byte) error {
	for i, n := range stateNames {
		if n == string(b) {
			*s = State(i)
			return nil
		}
	}
	return fmt.Errorf("unknown discussion state %q", b)
}

// EndReason explains why a session ended.
type EndReason string

const (
	ReasonUserStopped     EndReason = "user_stopped"
	ReasonOpeningFailed   EndReason = "opening_failed"
	ReasonGenerationEnded EndReason = "generation_ended"
	ReasonPlaybackFailed  EndReason = "playback_failed"
	ReasonContextDone     EndReason = "context_done"
)

// Lines appended in the moderator slot when a session ends on a failure.
const (
	FallbackOpeningFailed  = "Fehler beim Starten der Diskussion. Bitte erneut versuchen."
	FallbackSilence        = "Es gab einen Moment der Stille. Die Diskussion ist beendet."
	FallbackOpeningAudio   = "Audio-Wiedergabe fehlgeschlagen. Die Sprachausgabe ist möglicherweise nicht verfügbar."
	FallbackPlaybackFailed = "Audio-Wiedergabe fehlgeschlagen."
)

// Snapshot is a copy of the observable discussion state.
type Snapshot struct {
	Transcript     []models.TranscriptLine `json:"transcript"`
	CurrentSpeaker int                     `json:"current_speaker"`
	Running        bool                    `json:"running"`
	Generating     bool                    `json:"generating"`
	State          State                   `json:"state"`
	Topic          string                  `json:"topic,omitempty"`
	RunID          string                  `json:"run_id,omitempty"`

	rev uint64
}

func (s Snapshot) clone() Snapshot {
	s.Transcript = append([]models.TranscriptLine(nil), s.Transcript...)
	return s
}

// Last returns the newest transcript line.
func (s Snapshot) Last() (models.TranscriptLine, bool) {
	if len(s.Transcript) == 0 {
		return models.TranscriptLine{}, false
	}
	return s.Transcript[len(s.Transcript)-1], true
}
