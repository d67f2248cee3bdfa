// Package discussion runs the simulated panel: it alternates between
// asking a generator for the next line and speaking that line, until the
// user stops it or something fails.
//
// All per-turn failures are absorbed here. A failed session ends in
// StateStopped with exactly one explanatory line in the moderator slot;
// nothing is returned to the caller of Start.
package discussion

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"relicpanel/internal/models"
	"relicpanel/internal/signal"
	"relicpanel/internal/speech"
)

// Channel is the speech channel of the discussion.
const Channel = "discussion"

// ErrRunning is returned by operations that need a stopped discussion.
var ErrRunning = errors.New("discussion: already running")

// Generator produces discussion lines.
type Generator interface {
	GenerateOpeningLine(ctx context.Context, moderator models.Participant, topic string) (string, error)
	GenerateNextLine(ctx context.Context, history []models.TranscriptLine, roster models.Roster, next int, topic string) (string, error)
}

// Speaker plays lines. Stop must be safe to call at any time.
type Speaker interface {
	Speak(ctx context.Context, channel, text string, voice *speech.Voice) error
	Stop()
}

// VoiceResolver maps a participant name to a voice; nil means default.
type VoiceResolver interface {
	VoiceFor(name string) *speech.Voice
}

// RunRecorder persists session metadata.
type RunRecorder interface {
	StartRun(id, topic, roster string, startedAt time.Time) error
	FinishRun(id, reason string, lines int, endedAt time.Time) error
}

// Notifier receives lifecycle notifications.
type Notifier interface {
	DiscussionStarted(runID, topic string, participants int)
	DiscussionStopped(runID, reason string, lines int)
}

// Options are optional collaborators and tuning.
type Options struct {
	TurnTimeout time.Duration // per generation call, default 30s
	Voices      VoiceResolver
	Runs        RunRecorder
	Events      Notifier
	Logger      zerolog.Logger

	now   func() time.Time
	newID func() string
}

// Controller owns the transcript and drives the turn loop.
type Controller struct {
	gen    Generator
	speech Speaker
	roster models.Roster
	opts   Options
	log    zerolog.Logger

	state *signal.Value[Snapshot]

	mu      sync.Mutex
	snap    Snapshot
	rev     uint64
	session uint64
	done    chan struct{}
	// silence cancels the running session's speech context
	silence context.CancelFunc
}

// New creates a Controller for a non-empty roster.
func New(gen Generator, speaker Speaker, roster models.Roster, opts Options) *Controller {
	if opts.TurnTimeout <= 0 {
		opts.TurnTimeout = 30 * time.Second
	}
	if opts.now == nil {
		opts.now = time.Now
	}
	if opts.newID == nil {
		opts.newID = func() string { return uuid.NewString() }
	}

	done := make(chan struct{})
	close(done)

	return &Controller{
		gen:    gen,
		speech: speaker,
		roster: roster,
		opts:   opts,
		log:    opts.Logger,
		state:  signal.NewWithEqual(Snapshot{}, func(a, b Snapshot) bool { return a.rev == b.rev }),
		done:   done,
	}
}

// Roster returns the panel.
func (c *Controller) Roster() models.Roster {
	return c.roster
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snap.clone()
}

// Subscribe registers fn for state changes. fn runs on the goroutine
// that made the change and must not block.
func (c *Controller) Subscribe(fn func(Snapshot)) (unsubscribe func()) {
	return c.state.Subscribe(fn)
}

// Done is closed when the current session's loop has exited.
func (c *Controller) Done() <-chan struct{} {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.done
}

// Start begins a session. With an empty transcript the moderator opens;
// otherwise the discussion resumes after the last speaker. ctx bounds the
// whole session.
func (c *Controller) Start(ctx context.Context, topic string) error {
	c.mu.Lock()
	if c.snap.Running {
		c.mu.Unlock()
		return ErrRunning
	}
	c.session++
	sess := c.session
	prev := c.done
	done := make(chan struct{})
	c.done = done

	speakCtx, silence := context.WithCancel(ctx)
	c.silence = silence

	resume := len(c.snap.Transcript) > 0
	runID := c.opts.newID()
	c.snap.Running = true
	c.snap.Topic = topic
	c.snap.RunID = runID
	if resume {
		c.snap.State = StateAwaitingNextLine
	} else {
		c.snap.State = StateOpening
	}
	c.mu.Unlock()
	c.publish()

	c.log.Info().Str("run_id", runID).Str("topic", topic).Bool("resume", resume).Msg("discussion started")
	go func() {
		defer silence()
		c.run(ctx, speakCtx, sess, prev, done, runID, topic, resume)
	}()
	return nil
}

// Stop ends the running session. It can be called at any time and from
// any goroutine; a second call is a no-op apart from silencing speech.
// A line whose playback has not been registered with the speaker yet is
// cancelled through the session's speech context.
func (c *Controller) Stop() {
	c.mu.Lock()
	wasRunning := c.snap.Running
	var silence context.CancelFunc
	if wasRunning {
		c.snap.Running = false
		c.snap.State = StateStopped
		silence, c.silence = c.silence, nil
	}
	c.mu.Unlock()

	if silence != nil {
		silence()
	}
	c.speech.Stop()
	if wasRunning {
		c.publish()
	}
}

// Reset clears the transcript of a stopped discussion.
func (c *Controller) Reset() error {
	c.mu.Lock()
	if c.snap.Running {
		c.mu.Unlock()
		return ErrRunning
	}
	// late results of the previous session must not land in the new
	// transcript
	c.session++
	c.snap.Transcript = nil
	c.snap.CurrentSpeaker = 0
	c.snap.State = StateIdle
	c.snap.Topic = ""
	c.snap.RunID = ""
	c.mu.Unlock()
	c.publish()
	return nil
}

// Toggle starts a stopped discussion or stops a running one. It reports
// whether the discussion is running afterwards.
func (c *Controller) Toggle(ctx context.Context, topic string) bool {
	if c.Snapshot().Running {
		c.Stop()
		return false
	}
	if err := c.Start(ctx, topic); err != nil {
		c.log.Debug().Err(err).Msg("toggle lost a race against another start")
	}
	return true
}

// ClosePanel stops the discussion and clears it.
func (c *Controller) ClosePanel() {
	c.Stop()
	if err := c.Reset(); err != nil {
		c.log.Warn().Err(err).Msg("panel closed while a new session started")
	}
}

func (c *Controller) run(ctx, speakCtx context.Context, sess uint64, prev <-chan struct{}, done chan struct{}, runID, topic string, resume bool) {
	defer close(done)

	stopWatch := context.AfterFunc(ctx, func() { c.stopSession(sess) })
	defer stopWatch()

	// one generation in flight at most: the previous loop may still be
	// waiting for a result it will discard
	select {
	case <-prev:
	case <-ctx.Done():
	}

	c.recordStart(runID, topic)
	reason := c.converse(ctx, speakCtx, sess, topic, resume)

	lines := c.lineCount()
	c.log.Info().Str("run_id", runID).Str("reason", string(reason)).Int("lines", lines).Msg("discussion ended")
	c.recordFinish(runID, reason, lines)
}

func (c *Controller) converse(ctx, speakCtx context.Context, sess uint64, topic string, resume bool) EndReason {
	if !resume {
		if reason, ok := c.open(ctx, speakCtx, sess, topic); !ok {
			return reason
		}
	}

	for {
		next, history, ok := c.beginTurn(sess)
		if !ok {
			return c.stopReason(ctx)
		}

		gctx, cancel := context.WithTimeout(ctx, c.opts.TurnTimeout)
		text, err := c.gen.GenerateNextLine(gctx, history, c.roster, next, topic)
		cancel()
		c.setGenerating(false)
		if err != nil {
			c.log.Warn().Err(err).Int("speaker", next).Msg("next line failed")
			text = ""
		}
		text = strings.TrimSpace(text)

		if text == "" {
			if c.fail(sess, FallbackSilence) {
				return ReasonGenerationEnded
			}
			return c.stopReason(ctx)
		}

		committed, active := c.commit(sess, models.TranscriptLine{Speaker: next, Text: text})
		if !committed || !active {
			return c.stopReason(ctx)
		}

		if reason, ok := c.say(ctx, speakCtx, sess, next, text, FallbackPlaybackFailed); !ok {
			return reason
		}
	}
}

func (c *Controller) open(ctx, speakCtx context.Context, sess uint64, topic string) (EndReason, bool) {
	if !c.setGeneratingFor(sess, true) {
		return c.stopReason(ctx), false
	}

	gctx, cancel := context.WithTimeout(ctx, c.opts.TurnTimeout)
	text, err := c.gen.GenerateOpeningLine(gctx, c.roster.Moderator(), topic)
	cancel()
	c.setGenerating(false)
	if err != nil {
		c.log.Warn().Err(err).Msg("opening line failed")
		text = ""
	}
	text = strings.TrimSpace(text)

	if !c.active(sess) {
		return c.stopReason(ctx), false
	}
	if text == "" {
		if c.fail(sess, FallbackOpeningFailed) {
			return ReasonOpeningFailed, false
		}
		return c.stopReason(ctx), false
	}

	c.mu.Lock()
	c.snap.CurrentSpeaker = 0
	c.mu.Unlock()
	if committed, active := c.commit(sess, models.TranscriptLine{Speaker: 0, Text: text}); !committed || !active {
		return c.stopReason(ctx), false
	}

	return c.say(ctx, speakCtx, sess, 0, text, FallbackOpeningAudio)
}

// say speaks a committed line on speakCtx, which Stop cancels. It reports
// false when the session is over.
func (c *Controller) say(ctx, speakCtx context.Context, sess uint64, speaker int, text, fallback string) (EndReason, bool) {
	if !c.setState(sess, StateSpeaking) {
		return c.stopReason(ctx), false
	}

	var voice *speech.Voice
	if c.opts.Voices != nil {
		voice = c.opts.Voices.VoiceFor(c.roster.Get(speaker).Name)
	}

	err := c.speech.Speak(speakCtx, Channel, text, voice)
	if err == nil {
		return "", true
	}
	if !c.active(sess) || ctx.Err() != nil {
		return c.stopReason(ctx), false
	}

	// still running: either the engine failed or another channel took
	// the audio output away
	c.log.Warn().Err(err).Int("speaker", speaker).Msg("playback failed")
	if c.fail(sess, fallback) {
		return ReasonPlaybackFailed, false
	}
	return c.stopReason(ctx), false
}

func (c *Controller) stopReason(ctx context.Context) EndReason {
	if ctx.Err() != nil {
		return ReasonContextDone
	}
	return ReasonUserStopped
}

// active reports whether sess is the running session.
func (c *Controller) active(sess uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.activeLocked(sess)
}

func (c *Controller) activeLocked(sess uint64) bool {
	return c.snap.Running && c.session == sess
}

// stopSession stops sess if it is still the running session.
func (c *Controller) stopSession(sess uint64) {
	if c.active(sess) {
		c.Stop()
	}
}

// beginTurn advances the speaker and marks generation in progress.
func (c *Controller) beginTurn(sess uint64) (int, []models.TranscriptLine, bool) {
	c.mu.Lock()
	if !c.activeLocked(sess) {
		c.mu.Unlock()
		return 0, nil, false
	}
	next := c.roster.Next(c.snap.CurrentSpeaker)
	c.snap.CurrentSpeaker = next
	c.snap.Generating = true
	c.snap.State = StateAwaitingNextLine
	history := append([]models.TranscriptLine(nil), c.snap.Transcript...)
	c.mu.Unlock()
	c.publish()
	return next, history, true
}

// commit appends line unless a newer session or a reset took over. The
// line is kept even if the session was stopped meanwhile.
func (c *Controller) commit(sess uint64, line models.TranscriptLine) (committed, active bool) {
	c.mu.Lock()
	if c.session != sess {
		c.mu.Unlock()
		return false, false
	}
	c.snap.Transcript = append(c.snap.Transcript, line)
	active = c.snap.Running
	c.mu.Unlock()
	c.publish()
	return true, active
}

// fail appends a fallback line and stops, if sess is still running.
func (c *Controller) fail(sess uint64, text string) bool {
	c.mu.Lock()
	if !c.activeLocked(sess) {
		c.mu.Unlock()
		return false
	}
	c.snap.Transcript = append(c.snap.Transcript, models.TranscriptLine{Speaker: 0, Text: text})
	c.mu.Unlock()
	c.Stop()
	return true
}

func (c *Controller) setState(sess uint64, s State) bool {
	c.mu.Lock()
	if !c.activeLocked(sess) {
		c.mu.Unlock()
		return false
	}
	c.snap.State = s
	c.mu.Unlock()
	c.publish()
	return true
}

func (c *Controller) setGeneratingFor(sess uint64, v bool) bool {
	c.mu.Lock()
	if !c.activeLocked(sess) {
		c.mu.Unlock()
		return false
	}
	c.snap.Generating = v
	c.mu.Unlock()
	c.publish()
	return true
}

// setGenerating clears or sets the flag regardless of session; only one
// generation is ever in flight.
func (c *Controller) setGenerating(v bool) {
	c.mu.Lock()
	c.snap.Generating = v
	c.mu.Unlock()
	c.publish()
}

func (c *Controller) lineCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.snap.Transcript)
}

// publish pushes the latest snapshot to subscribers. Revisions keep a
// slow publisher from overwriting a newer snapshot.
func (c *Controller) publish() {
	c.mu.Lock()
	c.rev++
	s := c.snap.clone()
	s.rev = c.rev
	c.mu.Unlock()

	c.state.Update(func(cur Snapshot) Snapshot {
		if cur.rev >= s.rev {
			return cur
		}
		return s
	})
}

func (c *Controller) recordStart(runID, topic string) {
	at := c.opts.now()
	if c.opts.Runs != nil {
		if err := c.opts.Runs.StartRun(runID, topic, strings.Join(c.roster.Names(), ","), at); err != nil {
			c.log.Warn().Err(err).Str("run_id", runID).Msg("run log start failed")
		}
	}
	if c.opts.Events != nil {
		c.opts.Events.DiscussionStarted(runID, topic, c.roster.Count())
	}
}

func (c *Controller) recordFinish(runID string, reason EndReason, lines int) {
	at := c.opts.now()
	if c.opts.Runs != nil {
		if err := c.opts.Runs.FinishRun(runID, string(reason), lines, at); err != nil {
			c.log.Warn().Err(err).Str("run_id", runID).Msg("run log finish failed")
		}
	}
	if c.opts.Events != nil {
		c.opts.Events.DiscussionStopped(runID, string(reason), lines)
	}
}
