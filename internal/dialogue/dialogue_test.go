package dialogue

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"relicpanel/internal/models"
)

type fakeBackend struct {
	reply string
	err   error
	reqs  []Request
}

func (f *fakeBackend) Generate(ctx context.Context, req Request) (string, error) {
	f.reqs = append(f.reqs, req)
	return f.reply, f.err
}

func newGenerator(b Backend) *Generator {
	return NewGenerator(b, models.DefaultRoster(), DefaultOptions(), zerolog.Nop())
}

func TestOpeningLineRequest(t *testing.T) {
	backend := &fakeBackend{reply: "  Willkommen! Was macht die Datenbank so besonders?  "}
	g := newGenerator(backend)
	roster := models.DefaultRoster()

	line, err := g.GenerateOpeningLine(context.Background(), roster.Moderator(), "")
	require.NoError(t, err)
	assert.Equal(t, "Willkommen! Was macht die Datenbank so besonders?", line)

	require.Len(t, backend.reqs, 1)
	req := backend.reqs[0]
	assert.Equal(t, "gemini-2.5-flash", req.Model)
	assert.Equal(t, float32(1.0), req.Temperature)
	assert.Equal(t, float32(0.95), req.TopP)
	assert.False(t, req.DisableThinking)
	assert.Contains(t, req.System, "Rust-Relics")
	assert.Contains(t, req.System, "Dr. Aris Thorne (Backend-Architekt): Ein technischer Purist.")
	assert.Contains(t, req.System, "NUR TEXT AUSGEBEN")
	require.Len(t, req.Contents, 1)
	assert.Equal(t, RoleUser, req.Contents[0].Role)
	assert.Contains(t, req.Contents[0].Text, "Du bist Lena")
	assert.Contains(t, req.Contents[0].Text, "einem der technischen Features")
}

func TestOpeningLineWithTopic(t *testing.T) {
	backend := &fakeBackend{reply: "Frage?"}
	g := newGenerator(backend)

	_, err := g.GenerateOpeningLine(context.Background(), models.DefaultRoster().Moderator(), "Private Proof-of-Authority Blockchain")
	require.NoError(t, err)
	assert.Contains(t, backend.reqs[0].Contents[0].Text, `zum Feature "Private Proof-of-Authority Blockchain"`)
}

func TestNextLineRequest(t *testing.T) {
	backend := &fakeBackend{reply: `"Effizient vielleicht, aber macht es Spass?"`}
	g := newGenerator(backend)
	roster := models.DefaultRoster()
	history := []models.TranscriptLine{
		{Speaker: 0, Text: "Ist die Blockchain nötig?"},
		{Speaker: 1, Text: "Sie ist elegant."},
	}

	line, err := g.GenerateNextLine(context.Background(), history, roster, 2, "")
	require.NoError(t, err)
	assert.Equal(t, "Effizient vielleicht, aber macht es Spass?", line)

	req := backend.reqs[0]
	assert.Equal(t, float32(0.85), req.Temperature)
	assert.Equal(t, int32(100), req.MaxOutputTokens)
	assert.True(t, req.DisableThinking)

	prompt := req.Contents[0].Text
	assert.Contains(t, prompt, "Lena (Moderatorin): Ist die Blockchain nötig?\nDr. Aris Thorne (Backend-Architekt): Sie ist elegant.")
	assert.Contains(t, prompt, "Du bist jetzt Clara Vale.")
	assert.Contains(t, prompt, "letzte Aussage von Dr. Aris Thorne")
	assert.NotContains(t, prompt, "Thema der Runde")
}

func TestNextLineTopicAndValidation(t *testing.T) {
	backend := &fakeBackend{reply: "ok"}
	g := newGenerator(backend)
	roster := models.DefaultRoster()
	history := []models.TranscriptLine{{Speaker: 0, Text: "Hallo"}}

	_, err := g.GenerateNextLine(context.Background(), history, roster, 1, "Hybrid Vector-SQL Database")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(backend.reqs[0].Contents[0].Text, `Thema der Runde: "Hybrid Vector-SQL Database"`))

	_, err = g.GenerateNextLine(context.Background(), nil, roster, 1, "")
	assert.ErrorIs(t, err, ErrEmptyHistory)

	_, err = g.GenerateNextLine(context.Background(), history, roster, 7, "")
	assert.Error(t, err)
	assert.Len(t, backend.reqs, 1, "invalid requests must not reach the backend")
}

func TestGenerateFailures(t *testing.T) {
	roster := models.DefaultRoster()
	history := []models.TranscriptLine{{Speaker: 0, Text: "Hallo"}}

	boom := errors.New("quota exceeded")
	line, err := newGenerator(&fakeBackend{err: boom}).GenerateNextLine(context.Background(), history, roster, 1, "")
	assert.Empty(t, line)
	assert.ErrorIs(t, err, boom)

	line, err = newGenerator(&fakeBackend{reply: "  \"\"  "}).GenerateOpeningLine(context.Background(), roster.Moderator(), "")
	assert.Empty(t, line)
	assert.ErrorIs(t, err, ErrNoText)
}

func TestClean(t *testing.T) {
	roster := models.DefaultRoster()
	tests := []struct {
		in, want string
	}{
		{"  Hallo Welt  ", "Hallo Welt"},
		{`"Zitat"`, "Zitat"},
		{"„Zitat“", "Zitat"},
		{"Clara Vale: Das ist zu technisch.", "Das ist zu technisch."},
		{"Dr. Aris Thorne (Backend-Architekt): Eleganz zählt.", "Eleganz zählt."},
		{"**Lena:** Und jetzt?", "Und jetzt?"},
		{`lena: "Klein geschrieben"`, "Klein geschrieben"},
		{"Marco Voss: bleibt", "Marco Voss: bleibt"},
		{"Ein Satz mit Clara Vale: drin", "Ein Satz mit Clara Vale: drin"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Clean(tt.in, roster), "Clean(%q)", tt.in)
	}
}

func TestSystemInstructionUsesRoster(t *testing.T) {
	roster := models.MustRoster(
		models.Participant{Name: "Lena", Role: "Moderatorin"},
		models.Participant{Name: "Marco Voss", Role: "Produzent", Persona: "Denkt nur an Budgets."},
	)
	s := SystemInstruction("Rust-Relics", roster)
	assert.Contains(t, s, "- Lena (Moderatorin)\n")
	assert.Contains(t, s, "- Marco Voss (Produzent): Denkt nur an Budgets.\n")
	assert.NotContains(t, s, "Clara Vale")
}

func TestGeminiRequestMapping(t *testing.T) {
	cfg, contents := geminiRequest(Request{
		Model:    "gemini-2.5-flash",
		System:   "sys",
		Contents: []Message{{Text: "hallo"}},
		Sampling: Sampling{Temperature: 0.85, TopP: 0.95, MaxOutputTokens: 100, DisableThinking: true},
	})

	require.NotNil(t, cfg.Temperature)
	assert.Equal(t, float32(0.85), *cfg.Temperature)
	assert.Equal(t, float32(0.95), *cfg.TopP)
	assert.Equal(t, int32(100), cfg.MaxOutputTokens)
	require.NotNil(t, cfg.ThinkingConfig)
	assert.Equal(t, int32(0), *cfg.ThinkingConfig.ThinkingBudget)
	assert.Equal(t, "sys", cfg.SystemInstruction.Parts[0].Text)

	require.Len(t, contents, 1)
	assert.Equal(t, genai.RoleUser, contents[0].Role)
	assert.Equal(t, "hallo", contents[0].Parts[0].Text)

	cfg, _ = geminiRequest(Request{Sampling: Sampling{Temperature: 1, TopP: 0.95}})
	assert.Nil(t, cfg.ThinkingConfig)
	assert.Nil(t, cfg.SystemInstruction)
}
