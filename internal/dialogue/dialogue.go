// Package dialogue produces the lines spoken in a panel discussion.
//
// A [Generator] turns the roster, the transcript so far and an optional
// topic into prompts and asks a [Backend] for the next line. Failures
// are returned as errors together with an empty string; the caller
// decides how to end the discussion.
package dialogue

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"relicpanel/internal/models"
)

var (
	// ErrNoText means the backend answered without usable text.
	ErrNoText = errors.New("dialogue: response contained no text")
	// ErrEmptyHistory is returned when a follow-up line is requested
	// before anything was said.
	ErrEmptyHistory = errors.New("dialogue: history is empty")
)

// Message roles understood by backends
const (
	RoleUser  = "user"
	RoleModel = "model"
)

type Message struct {
	Role string
	Text string
}

// Sampling holds the generation parameters of one kind of request.
type Sampling struct {
	Temperature     float32
	TopP            float32
	MaxOutputTokens int32
	DisableThinking bool
}

// Request is a single, non-streaming generation call.
type Request struct {
	Model    string
	System   string
	Contents []Message
	Sampling
}

// Backend generates text for a Request.
type Backend interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// Options configure a Generator.
type Options struct {
	Model    string
	Project  string
	Opening  Sampling
	NextLine Sampling
}

// DefaultOptions mirror the values the panel was tuned with.
func DefaultOptions() Options {
	return Options{
		Model:    "gemini-2.5-flash",
		Project:  models.ProjectTitle,
		Opening:  Sampling{Temperature: 1.0, TopP: 0.95},
		NextLine: Sampling{Temperature: 0.85, TopP: 0.95, MaxOutputTokens: 100, DisableThinking: true},
	}
}

// Generator builds prompts and cleans up backend output.
type Generator struct {
	backend Backend
	opts    Options
	roster  models.Roster
	log     zerolog.Logger
}

// NewGenerator creates a Generator for roster. The roster supplies the
// personas of the system instruction.
func NewGenerator(backend Backend, roster models.Roster, opts Options, logger zerolog.Logger) *Generator {
	if opts.Project == "" {
		opts.Project = models.ProjectTitle
	}
	return &Generator{backend: backend, opts: opts, roster: roster, log: logger}
}

// GenerateOpeningLine asks the moderator for an opening question. topic
// may be empty.
func (g *Generator) GenerateOpeningLine(ctx context.Context, moderator models.Participant, topic string) (string, error) {
	req := Request{
		Model:    g.opts.Model,
		System:   SystemInstruction(g.opts.Project, g.roster),
		Contents: []Message{{Role: RoleUser, Text: openingPrompt(g.opts.Project, moderator, topic)}},
		Sampling: g.opts.Opening,
	}
	return g.generate(ctx, "opening", req, g.roster)
}

// GenerateNextLine asks roster[next] to respond to the last line of
// history.
func (g *Generator) GenerateNextLine(ctx context.Context, history []models.TranscriptLine, roster models.Roster, next int, topic string) (string, error) {
	if len(history) == 0 {
		return "", ErrEmptyHistory
	}
	if !roster.Valid(next) {
		return "", fmt.Errorf("dialogue: speaker index %d out of range", next)
	}
	req := Request{
		Model:    g.opts.Model,
		System:   SystemInstruction(g.opts.Project, roster),
		Contents: []Message{{Role: RoleUser, Text: nextLinePrompt(history, roster, next, topic)}},
		Sampling: g.opts.NextLine,
	}
	return g.generate(ctx, "next_line", req, roster)
}

func (g *Generator) generate(ctx context.Context, kind string, req Request, roster models.Roster) (string, error) {
	text, err := g.backend.Generate(ctx, req)
	if err != nil {
		g.log.Error().Err(err).Str("kind", kind).Msg("generation failed")
		return "", err
	}
	text = Clean(text, roster)
	if text == "" {
		g.log.Error().Str("kind", kind).Msg("generation returned no text")
		return "", ErrNoText
	}
	return text, nil
}
