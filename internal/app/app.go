// Package app wires configuration, speech, voices, the dialogue backend,
// the run log and the discussion controller into one process.
package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"relicpanel/internal/config"
	"relicpanel/internal/db"
	"relicpanel/internal/dialogue"
	"relicpanel/internal/discussion"
	"relicpanel/internal/events"
	"relicpanel/internal/export"
	"relicpanel/internal/logging"
	"relicpanel/internal/models"
	"relicpanel/internal/signal"
	"relicpanel/internal/speech"
	"relicpanel/internal/voices"
)

var (
	ErrNoCard  = errors.New("no such card")
	ErrNoStore = errors.New("run log disabled")

	ErrEmptyTranscript = errors.New("transcript is empty")
)

// Deps are the external backends. New builds them from configuration;
// tests pass fakes to Assemble.
type Deps struct {
	Engine  speech.Engine
	Backend dialogue.Backend
	Store   *db.Store // optional
}

// App is the running process state shared by the TUI and the control
// server.
type App struct {
	cfg      *config.Config
	log      zerolog.Logger
	roster   models.Roster
	features []models.Feature

	Output     *speech.Output
	Catalog    *speech.Catalog
	Voices     *voices.Assigner
	Controller *discussion.Controller
	Store      *db.Store
	Events     *events.Client

	panel *signal.Value[bool]

	mu     sync.Mutex
	ctx    context.Context
	cancel context.CancelFunc
	unbind func()
}

// New validates cfg and builds the configured backends.
func New(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	engine, err := NewEngine(cfg)
	if err != nil {
		return nil, err
	}

	backend, err := dialogue.NewGeminiBackend(ctx, cfg.Gemini.APIKey, logging.Component(logger, "gemini"))
	if err != nil {
		return nil, err
	}

	var store *db.Store
	if !cfg.Store.Disabled {
		path, err := cfg.StorePath()
		if err != nil {
			return nil, fmt.Errorf("run log path: %w", err)
		}
		store, err = db.Open(path)
		if err != nil {
			return nil, err
		}
	}

	return Assemble(cfg, logger, Deps{Engine: engine, Backend: backend, Store: store}), nil
}

// NewEngine returns the speech engine named by the configuration.
func NewEngine(cfg *config.Config) (speech.Engine, error) {
	switch cfg.Speech.Engine {
	case "exec":
		return speech.NewExecEngine(cfg.Speech.Binary), nil
	case "http":
		return speech.NewHTTPEngine(cfg.Speech.Endpoint), nil
	default:
		return nil, fmt.Errorf("unknown speech engine %q", cfg.Speech.Engine)
	}
}

// Assemble connects the components around the given backends.
func Assemble(cfg *config.Config, logger zerolog.Logger, deps Deps) *App {
	roster := cfg.Roster()

	output := speech.NewOutput(deps.Engine, speech.Options{
		Lang:  cfg.Speech.Language,
		Rate:  cfg.Speech.Rate,
		Pitch: cfg.Speech.Pitch,
	}, logging.Component(logger, "speech"))

	catalog := speech.NewCatalog(deps.Engine, logging.Component(logger, "catalog"))
	assigner := voices.New(cfg.Speech.Language, cfg.Discussion.Preferences, logging.Component(logger, "voices"))

	gen := dialogue.NewGenerator(deps.Backend, roster, dialogue.Options{
		Model:    cfg.Gemini.Model,
		Project:  models.ProjectTitle,
		Opening:  sampling(cfg.Gemini.Opening),
		NextLine: sampling(cfg.Gemini.NextLine),
	}, logging.Component(logger, "dialogue"))

	notifier := events.NewClient(cfg.Events.Endpoint, logging.Component(logger, "events"))

	opts := discussion.Options{
		TurnTimeout: cfg.TurnTimeout(),
		Voices:      assigner,
		Logger:      logging.Component(logger, "discussion"),
	}
	if deps.Store != nil {
		opts.Runs = deps.Store
		if n, err := deps.Store.CloseDangling(string(discussion.ReasonContextDone), time.Now()); err != nil {
			logger.Warn().Err(err).Msg("closing dangling runs failed")
		} else if n > 0 {
			logger.Info().Int64("runs", n).Msg("closed runs left open by a previous process")
		}
	}
	if notifier.Enabled() {
		opts.Events = notifier
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &App{
		cfg:        cfg,
		log:        logger,
		roster:     roster,
		features:   models.DefaultFeatures(),
		Output:     output,
		Catalog:    catalog,
		Voices:     assigner,
		Controller: discussion.New(gen, output, roster, opts),
		Store:      deps.Store,
		Events:     notifier,
		panel:      signal.NewComparable(false),
		ctx:        ctx,
		cancel:     cancel,
	}
}

func sampling(c config.SamplingConfig) dialogue.Sampling {
	return dialogue.Sampling{
		Temperature:     c.Temperature,
		TopP:            c.TopP,
		MaxOutputTokens: c.MaxOutputTokens,
		DisableThinking: c.DisableThinking,
	}
}

// Start binds voice assignment to the catalog and starts polling it.
// Discussions started later live until ctx is done or Close is called.
func (a *App) Start(ctx context.Context) {
	a.mu.Lock()
	a.cancel()
	a.ctx, a.cancel = context.WithCancel(ctx)
	runCtx := a.ctx
	if a.unbind == nil {
		a.unbind = a.Voices.Bind(a.Catalog, a.roster)
	}
	a.mu.Unlock()

	go a.Catalog.Run(runCtx, a.cfg.CatalogPoll())
}

// Close stops the discussion and releases resources.
func (a *App) Close() error {
	a.Controller.Stop()
	select {
	case <-a.Controller.Done():
	case <-time.After(2 * time.Second):
		a.log.Warn().Msg("discussion loop did not exit in time")
	}

	a.mu.Lock()
	a.cancel()
	if a.unbind != nil {
		a.unbind()
		a.unbind = nil
	}
	a.mu.Unlock()

	a.Output.Stop()
	a.Events.Wait()

	if a.Store != nil {
		return a.Store.Close()
	}
	return nil
}

func (a *App) sessionContext() context.Context {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.ctx
}

// Config returns the configuration the app was built from.
func (a *App) Config() *config.Config {
	return a.cfg
}

// Roster returns the panel.
func (a *App) Roster() models.Roster {
	return a.roster
}

// Features returns the feature cards.
func (a *App) Features() []models.Feature {
	return a.features
}

// Feature returns card i.
func (a *App) Feature(i int) (models.Feature, error) {
	if i < 0 || i >= len(a.features) {
		return models.Feature{}, fmt.Errorf("%w: %d", ErrNoCard, i+1)
	}
	return a.features[i], nil
}

// CardChannel is the speech channel of card i.
func CardChannel(i int) string {
	return fmt.Sprintf("card-%d", i)
}

// CardText is what read-aloud speaks for a card.
func CardText(f models.Feature) string {
	return fmt.Sprintf("%s. %s. Details: %s", f.Title, f.Summary, strings.Join(f.Details, ". "))
}

// ReadCard toggles read-aloud of card i in the moderator's voice. It
// reports whether the card is now being read.
func (a *App) ReadCard(i int) (bool, error) {
	f, err := a.Feature(i)
	if err != nil {
		return false, err
	}
	voice := a.Voices.VoiceFor(a.roster.Moderator().Name)
	return a.Output.Toggle(a.sessionContext(), CardChannel(i), CardText(f), voice), nil
}

// PanelOpen reports whether the discussion panel is shown.
func (a *App) PanelOpen() bool {
	return a.panel.Get()
}

// SubscribePanel registers fn for panel visibility changes.
func (a *App) SubscribePanel(fn func(open bool)) (unsubscribe func()) {
	return a.panel.Subscribe(fn)
}

// SetPanel shows or hides the panel. Hiding it stops and clears the
// discussion.
func (a *App) SetPanel(open bool) {
	if !open {
		a.Controller.ClosePanel()
	}
	a.panel.Set(open)
}

// TogglePanel flips panel visibility and returns the new state.
func (a *App) TogglePanel() bool {
	open := !a.panel.Get()
	a.SetPanel(open)
	return open
}

// StartDiscussion opens the panel and starts or resumes the discussion.
func (a *App) StartDiscussion(topic string) error {
	a.panel.Set(true)
	return a.Controller.Start(a.sessionContext(), topic)
}

// StopDiscussion stops the discussion and keeps the transcript.
func (a *App) StopDiscussion() {
	a.Controller.Stop()
}

// ToggleDiscussion starts or stops the discussion and reports whether
// it is running afterwards.
func (a *App) ToggleDiscussion() bool {
	a.panel.Set(true)
	return a.Controller.Toggle(a.sessionContext(), "")
}

// Discuss replaces the current discussion with one about card i.
func (a *App) Discuss(i int) error {
	f, err := a.Feature(i)
	if err != nil {
		return err
	}
	a.Controller.ClosePanel()
	return a.StartDiscussion(f.Title)
}

// Runs returns the newest run log entries.
func (a *App) Runs(limit int) ([]db.Run, error) {
	if a.Store == nil {
		return nil, ErrNoStore
	}
	return a.Store.ListRuns(limit)
}

// Transcript returns the current discussion for export.
func (a *App) Transcript() *export.Transcript {
	snap := a.Controller.Snapshot()
	return &export.Transcript{
		RunID:      snap.RunID,
		Project:    models.ProjectTitle,
		Topic:      snap.Topic,
		ExportedAt: time.Now(),
		Roster:     a.roster,
		Lines:      snap.Transcript,
	}
}

// TranscriptMarkdown renders the current discussion as markdown.
func (a *App) TranscriptMarkdown() string {
	return export.Markdown(a.Transcript())
}

// ExportTranscript writes the current discussion to dir, or to the
// configured export directory when dir is empty, and returns the file
// path.
func (a *App) ExportTranscript(dir string) (string, error) {
	t := a.Transcript()
	if len(t.Lines) == 0 {
		return "", ErrEmptyTranscript
	}
	if dir == "" {
		var err error
		if dir, err = a.cfg.ExportDir(); err != nil {
			return "", fmt.Errorf("export directory: %w", err)
		}
	}
	path, err := export.Write(t, dir)
	if err != nil {
		return "", err
	}
	a.log.Info().Str("path", path).Int("lines", len(t.Lines)).Msg("transcript exported")
	return path, nil
}

// Status is the externally visible state.
type Status struct {
	discussion.Snapshot
	PanelOpen bool   `json:"panel_open"`
	Playing   string `json:"playing,omitempty"`
}

// Status returns the current state.
func (a *App) Status() Status {
	return Status{
		Snapshot:  a.Controller.Snapshot(),
		PanelOpen: a.PanelOpen(),
		Playing:   a.Output.Playing(),
	}
}

// Subscribe calls fn with the new status whenever the discussion, the
// panel or the playing channel changes. fn must not block.
func (a *App) Subscribe(fn func(Status)) (unsubscribe func()) {
	notify := func() { fn(a.Status()) }
	unsubs := []func(){
		a.Controller.Subscribe(func(discussion.Snapshot) { notify() }),
		a.panel.Subscribe(func(bool) { notify() }),
		a.Output.SubscribePlaying(func(string) { notify() }),
	}
	return func() {
		for _, u := range unsubs {
			u()
		}
	}
}

// VoiceInfo is one catalog entry with the participant bound to it.
type VoiceInfo struct {
	speech.Voice
	AssignedTo []string `json:"assigned_to,omitempty"`
}

// VoiceList returns the catalog annotated with current assignments.
func (a *App) VoiceList() []VoiceInfo {
	byID := make(map[string][]string)
	for _, p := range a.roster.All() {
		if v := a.Voices.VoiceFor(p.Name); v != nil {
			byID[v.ID] = append(byID[v.ID], p.Name)
		}
	}

	list := a.Catalog.Voices()
	out := make([]VoiceInfo, 0, len(list))
	for _, v := range list {
		out = append(out, VoiceInfo{Voice: v, AssignedTo: byID[v.ID]})
	}
	return out
}
