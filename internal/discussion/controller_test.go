// internal/discussion/controller_test.go
package discussion

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"relicpanel/internal/models"
	"relicpanel/internal/speech"
)

// fakeGenerator returns scripted lines. nextFn, when set, takes over
// follow-up lines.
type fakeGenerator struct {
	mu           sync.Mutex
	openingText  string
	openingErr   error
	openingGate  chan struct{}
	lines        []string
	nextFn       func(ctx context.Context, next int) (string, error)
	openingCalls int
	nextCalls    []int
	topics       []string
}

func (g *fakeGenerator) GenerateOpeningLine(ctx context.Context, moderator models.Participant, topic string) (string, error) {
	g.mu.Lock()
	g.openingCalls++
	g.topics = append(g.topics, topic)
	gate := g.openingGate
	g.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return g.openingText, g.openingErr
}

func (g *fakeGenerator) GenerateNextLine(ctx context.Context, history []models.TranscriptLine, roster models.Roster, next int, topic string) (string, error) {
	g.mu.Lock()
	g.nextCalls = append(g.nextCalls, next)
	fn := g.nextFn
	var text string
	if fn == nil && len(g.lines) > 0 {
		text, g.lines = g.lines[0], g.lines[1:]
	}
	g.mu.Unlock()

	if fn != nil {
		return fn(ctx, next)
	}
	return text, nil
}

func (g *fakeGenerator) calls() []int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]int(nil), g.nextCalls...)
}

// fakeSpeaker records utterances. With hold set, Speak blocks until the
// hold channel closes or Stop is called.
type fakeSpeaker struct {
	mu        sync.Mutex
	spoken    []string
	voices    []string
	stops     int
	failOn    int // 1-based utterance number that fails
	hold      chan struct{}
	interrupt chan struct{}
	started   chan string
	onSpeak   func()
	playing   atomic.Bool
}

func newFakeSpeaker() *fakeSpeaker {
	return &fakeSpeaker{interrupt: make(chan struct{}), started: make(chan string, 64)}
}

func (s *fakeSpeaker) Speak(ctx context.Context, channel, text string, voice *speech.Voice) error {
	s.mu.Lock()
	s.spoken = append(s.spoken, text)
	if voice != nil {
		s.voices = append(s.voices, voice.ID)
	} else {
		s.voices = append(s.voices, "")
	}
	n := len(s.spoken)
	hold, intr, hook := s.hold, s.interrupt, s.onSpeak
	s.mu.Unlock()

	s.playing.Store(true)
	defer s.playing.Store(false)
	if hook != nil {
		hook()
	}
	s.started <- text

	if s.failOn == n {
		return errors.New("audio device exploded")
	}
	if hold == nil {
		return nil
	}
	select {
	case <-hold:
		return nil
	case <-intr:
		return speech.ErrInterrupted
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *fakeSpeaker) Stop() {
	s.mu.Lock()
	s.stops++
	close(s.interrupt)
	s.interrupt = make(chan struct{})
	s.mu.Unlock()
}

func (s *fakeSpeaker) said() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.spoken...)
}

func (s *fakeSpeaker) stopCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stops
}

type fakeRuns struct {
	mu       sync.Mutex
	started  []string
	finished map[string]string
	lines    map[string]int
}

func (r *fakeRuns) StartRun(id, topic, roster string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.started = append(r.started, id)
	return nil
}

func (r *fakeRuns) FinishRun(id, reason string, lines int, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.finished == nil {
		r.finished = map[string]string{}
		r.lines = map[string]int{}
	}
	r.finished[id] = reason
	r.lines[id] = lines
	return nil
}

func (r *fakeRuns) reason(id string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.finished[id]
}

type fakeNotifier struct {
	mu     sync.Mutex
	events []string
}

func (n *fakeNotifier) DiscussionStarted(runID, topic string, participants int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, fmt.Sprintf("started:%s:%d", runID, participants))
}

func (n *fakeNotifier) DiscussionStopped(runID, reason string, lines int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, fmt.Sprintf("stopped:%s:%s:%d", runID, reason, lines))
}

type voiceTable map[string]*speech.Voice

func (v voiceTable) VoiceFor(name string) *speech.Voice { return v[name] }

// slowEngine is a speech engine whose readiness check waits for the test.
// Playback runs until cancelled or for two seconds.
type slowEngine struct {
	checking chan struct{}
	ready    chan struct{}
	played   atomic.Int32
}

func (e *slowEngine) Probe(ctx context.Context) error {
	e.checking <- struct{}{}
	<-e.ready
	return nil
}

func (e *slowEngine) Speak(ctx context.Context, u speech.Utterance, started func()) error {
	e.played.Add(1)
	started()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(2 * time.Second):
		return nil
	}
}

func (e *slowEngine) Voices(ctx context.Context) ([]speech.Voice, error) { return nil, nil }

// unregisteredSpeaker calls stop before its playback is known to Stop,
// so only the context passed to Speak can end it.
type unregisteredSpeaker struct {
	stop func()
	err  chan error
}

func (s *unregisteredSpeaker) Speak(ctx context.Context, channel, text string, voice *speech.Voice) error {
	s.stop()
	select {
	case <-ctx.Done():
		s.err <- ctx.Err()
		return speech.ErrInterrupted
	case <-time.After(2 * time.Second):
		s.err <- nil
		return nil
	}
}

func (s *unregisteredSpeaker) Stop() {}

func newController(gen Generator, sp Speaker, roster models.Roster, opts Options) *Controller {
	opts.Logger = zerolog.Nop()
	var n atomic.Int64
	opts.newID = func() string { return fmt.Sprintf("run-%d", n.Add(1)) }
	return New(gen, sp, roster, opts)
}

func waitDone(t *testing.T, c *Controller) {
	t.Helper()
	select {
	case <-c.Done():
	case <-time.After(3 * time.Second):
		t.Fatal("discussion loop did not exit")
	}
}

func waitSpoken(t *testing.T, s *fakeSpeaker, want string) {
	t.Helper()
	select {
	case got := <-s.started:
		require.Equal(t, want, got)
	case <-time.After(3 * time.Second):
		t.Fatalf("%q was never spoken", want)
	}
}

func line(speaker int, text string) models.TranscriptLine {
	return models.TranscriptLine{Speaker: speaker, Text: text}
}

func TestScenarioSilenceEndsDiscussion(t *testing.T) {
	gen := &fakeGenerator{openingText: "Q1", lines: []string{"R1", ""}}
	sp := newFakeSpeaker()
	runs := &fakeRuns{}
	notes := &fakeNotifier{}
	c := newController(gen, sp, models.DefaultRoster(), Options{Runs: runs, Events: notes})

	require.NoError(t, c.Start(context.Background(), ""))
	waitDone(t, c)

	snap := c.Snapshot()
	assert.Equal(t, []models.TranscriptLine{
		line(0, "Q1"),
		line(1, "R1"),
		line(0, FallbackSilence),
	}, snap.Transcript)
	assert.Equal(t, StateStopped, snap.State)
	assert.False(t, snap.Running)
	assert.False(t, snap.Generating)
	assert.Equal(t, []string{"Q1", "R1"}, sp.said())
	assert.Equal(t, []int{1, 2}, gen.calls())

	assert.Equal(t, string(ReasonGenerationEnded), runs.reason("run-1"))
	assert.Equal(t, []string{"started:run-1:3", "stopped:run-1:generation_ended:3"}, notes.events)
}

func TestStartThenImmediateStop(t *testing.T) {
	gate := make(chan struct{})
	gen := &fakeGenerator{openingText: "Q1", openingGate: gate}
	sp := newFakeSpeaker()
	runs := &fakeRuns{}
	c := newController(gen, sp, models.DefaultRoster(), Options{Runs: runs})

	require.NoError(t, c.Start(context.Background(), ""))
	c.Stop()
	close(gate)
	waitDone(t, c)

	snap := c.Snapshot()
	assert.Empty(t, snap.Transcript)
	assert.Equal(t, StateStopped, snap.State)
	assert.Empty(t, sp.said())
	assert.Equal(t, string(ReasonUserStopped), runs.reason("run-1"))
}

func TestRoundRobin(t *testing.T) {
	for _, n := range []int{1, 2, 4} {
		t.Run(fmt.Sprintf("roster of %d", n), func(t *testing.T) {
			participants := make([]models.Participant, n)
			for i := range participants {
				participants[i] = models.Participant{Name: fmt.Sprintf("P%d", i), Role: "Gast"}
			}
			roster := models.MustRoster(participants...)

			gen := &fakeGenerator{openingText: "open", lines: []string{"a", "b", "c", "d", "e", "f"}}
			c := newController(gen, newFakeSpeaker(), roster, Options{})
			require.NoError(t, c.Start(context.Background(), ""))
			waitDone(t, c)

			snap := c.Snapshot()
			require.Len(t, snap.Transcript, 8)
			for i, l := range snap.Transcript[:7] {
				assert.Equal(t, i%n, l.Speaker, "line %d", i)
			}
			assert.Equal(t, line(0, FallbackSilence), snap.Transcript[7])
		})
	}
}

func TestStopIsIdempotent(t *testing.T) {
	sp := newFakeSpeaker()
	sp.hold = make(chan struct{})
	gen := &fakeGenerator{openingText: "Q1"}
	c := newController(gen, sp, models.DefaultRoster(), Options{})

	var notified atomic.Int32
	c.Subscribe(func(Snapshot) { notified.Add(1) })

	// stopping an idle controller changes nothing
	c.Stop()
	assert.Zero(t, notified.Load())
	assert.Equal(t, StateIdle, c.Snapshot().State)

	require.NoError(t, c.Start(context.Background(), ""))
	waitSpoken(t, sp, "Q1")

	c.Stop()
	c.Stop()
	waitDone(t, c)

	snap := c.Snapshot()
	assert.Equal(t, []models.TranscriptLine{line(0, "Q1")}, snap.Transcript)
	assert.Equal(t, StateStopped, snap.State)
	assert.GreaterOrEqual(t, sp.stopCount(), 3, "every Stop silences speech")
}

func TestGeneratingAndPlayingNeverOverlap(t *testing.T) {
	sp := newFakeSpeaker()
	var violations atomic.Int32
	var c *Controller

	gen := &fakeGenerator{openingText: "Q1"}
	var count atomic.Int32
	gen.nextFn = func(ctx context.Context, next int) (string, error) {
		if sp.playing.Load() {
			violations.Add(1)
		}
		if count.Add(1) > 6 {
			return "", nil
		}
		return fmt.Sprintf("line %d", count.Load()), nil
	}
	sp.onSpeak = func() {
		if c.Snapshot().Generating {
			violations.Add(1)
		}
	}

	c = newController(gen, sp, models.DefaultRoster(), Options{})
	c.Subscribe(func(s Snapshot) {
		if s.Generating && sp.playing.Load() {
			violations.Add(1)
		}
	})
	require.NoError(t, c.Start(context.Background(), ""))
	waitDone(t, c)

	assert.Zero(t, violations.Load())
	assert.Len(t, sp.said(), 7)
}

func TestPlaybackFailure(t *testing.T) {
	sp := newFakeSpeaker()
	sp.failOn = 2
	gen := &fakeGenerator{openingText: "Q1", lines: []string{"R1", "R2"}}
	runs := &fakeRuns{}
	c := newController(gen, sp, models.DefaultRoster(), Options{Runs: runs})

	require.NoError(t, c.Start(context.Background(), ""))
	waitDone(t, c)

	snap := c.Snapshot()
	assert.Equal(t, []models.TranscriptLine{
		line(0, "Q1"),
		line(1, "R1"),
		line(0, FallbackPlaybackFailed),
	}, snap.Transcript)
	assert.Equal(t, StateStopped, snap.State)
	assert.Equal(t, string(ReasonPlaybackFailed), runs.reason("run-1"))
}

func TestOpeningPlaybackFailure(t *testing.T) {
	sp := newFakeSpeaker()
	sp.failOn = 1
	gen := &fakeGenerator{openingText: "Q1"}
	c := newController(gen, sp, models.DefaultRoster(), Options{})

	require.NoError(t, c.Start(context.Background(), ""))
	waitDone(t, c)

	assert.Equal(t, []models.TranscriptLine{
		line(0, "Q1"),
		line(0, FallbackOpeningAudio),
	}, c.Snapshot().Transcript)
	assert.Empty(t, gen.calls())
}

func TestOpeningFailure(t *testing.T) {
	for name, gen := range map[string]*fakeGenerator{
		"empty": {openingText: "   "},
		"error": {openingErr: errors.New("quota exceeded")},
	} {
		t.Run(name, func(t *testing.T) {
			sp := newFakeSpeaker()
			runs := &fakeRuns{}
			c := newController(gen, sp, models.DefaultRoster(), Options{Runs: runs})

			require.NoError(t, c.Start(context.Background(), ""))
			waitDone(t, c)

			snap := c.Snapshot()
			assert.Equal(t, []models.TranscriptLine{line(0, FallbackOpeningFailed)}, snap.Transcript)
			assert.Equal(t, StateStopped, snap.State)
			assert.False(t, snap.Running)
			assert.Empty(t, sp.said())
			assert.Equal(t, string(ReasonOpeningFailed), runs.reason("run-1"))
		})
	}
}

func TestNextLineErrorIsTreatedAsSilence(t *testing.T) {
	gen := &fakeGenerator{openingText: "Q1"}
	gen.nextFn = func(ctx context.Context, next int) (string, error) {
		return "partial", errors.New("blocked: SAFETY")
	}
	c := newController(gen, newFakeSpeaker(), models.DefaultRoster(), Options{})

	require.NoError(t, c.Start(context.Background(), ""))
	waitDone(t, c)

	assert.Equal(t, []models.TranscriptLine{
		line(0, "Q1"),
		line(0, FallbackSilence),
	}, c.Snapshot().Transcript)
}

func TestStartWhileRunningAndResetWhileRunning(t *testing.T) {
	sp := newFakeSpeaker()
	sp.hold = make(chan struct{})
	c := newController(&fakeGenerator{openingText: "Q1"}, sp, models.DefaultRoster(), Options{})

	require.NoError(t, c.Start(context.Background(), ""))
	waitSpoken(t, sp, "Q1")

	assert.ErrorIs(t, c.Start(context.Background(), ""), ErrRunning)
	assert.ErrorIs(t, c.Reset(), ErrRunning)
	assert.Len(t, c.Snapshot().Transcript, 1)

	c.Stop()
	waitDone(t, c)
	require.NoError(t, c.Reset())

	snap := c.Snapshot()
	assert.Empty(t, snap.Transcript)
	assert.Equal(t, 0, snap.CurrentSpeaker)
	assert.Equal(t, StateIdle, snap.State)
}

func TestResumeContinuesRoundRobin(t *testing.T) {
	sp := newFakeSpeaker()
	gen := &fakeGenerator{openingText: "Q1", lines: []string{"R1", ""}}
	c := newController(gen, sp, models.DefaultRoster(), Options{})

	require.NoError(t, c.Start(context.Background(), ""))
	waitDone(t, c)
	require.Len(t, c.Snapshot().Transcript, 3)

	gen.mu.Lock()
	gen.lines = []string{"R2", ""}
	gen.mu.Unlock()

	require.NoError(t, c.Start(context.Background(), ""))
	waitDone(t, c)

	assert.Equal(t, 1, gen.openingCalls, "resume must not reopen")
	// the silence fallback left the pointer at speaker 2
	assert.Equal(t, []int{1, 2, 0, 1}, gen.calls())
	snap := c.Snapshot()
	assert.Equal(t, line(0, "R2"), snap.Transcript[3])
}

func TestLateLineIsCommittedButNotSpoken(t *testing.T) {
	release := make(chan struct{})
	entered := make(chan struct{})
	gen := &fakeGenerator{openingText: "Q1"}
	gen.nextFn = func(ctx context.Context, next int) (string, error) {
		close(entered)
		<-release
		return "zu spät", nil
	}
	sp := newFakeSpeaker()
	c := newController(gen, sp, models.DefaultRoster(), Options{})

	require.NoError(t, c.Start(context.Background(), ""))
	<-entered
	assert.True(t, c.Snapshot().Generating)

	c.Stop()
	close(release)
	waitDone(t, c)

	snap := c.Snapshot()
	assert.Equal(t, []models.TranscriptLine{line(0, "Q1"), line(1, "zu spät")}, snap.Transcript)
	assert.False(t, snap.Generating)
	assert.Equal(t, []string{"Q1"}, sp.said())
}

func TestLateLineAfterResetIsDiscarded(t *testing.T) {
	release := make(chan struct{})
	entered := make(chan struct{})
	gen := &fakeGenerator{openingText: "Q1"}
	gen.nextFn = func(ctx context.Context, next int) (string, error) {
		close(entered)
		<-release
		return "zu spät", nil
	}
	c := newController(gen, newFakeSpeaker(), models.DefaultRoster(), Options{})

	require.NoError(t, c.Start(context.Background(), ""))
	<-entered
	c.ClosePanel()
	close(release)
	waitDone(t, c)

	assert.Empty(t, c.Snapshot().Transcript)
	assert.Equal(t, StateIdle, c.Snapshot().State)
}

func TestRestartWaitsForPreviousGeneration(t *testing.T) {
	release := make(chan struct{})
	entered := make(chan struct{}, 4)
	var inFlight, maxInFlight atomic.Int32

	gen := &fakeGenerator{openingText: "Q1"}
	var calls atomic.Int32
	gen.nextFn = func(ctx context.Context, next int) (string, error) {
		cur := inFlight.Add(1)
		defer inFlight.Add(-1)
		if cur > maxInFlight.Load() {
			maxInFlight.Store(cur)
		}
		if calls.Add(1) == 1 {
			entered <- struct{}{}
			<-release
			return "alt", nil
		}
		return "", nil
	}
	c := newController(gen, newFakeSpeaker(), models.DefaultRoster(), Options{})

	require.NoError(t, c.Start(context.Background(), ""))
	<-entered
	first := c.Done()
	c.Stop()
	require.NoError(t, c.Start(context.Background(), ""))

	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load(), "new session must wait for the old generation")

	close(release)
	<-first
	waitDone(t, c)
	assert.Equal(t, int32(1), maxInFlight.Load())
}

func TestContextCancelStops(t *testing.T) {
	sp := newFakeSpeaker()
	sp.hold = make(chan struct{})
	runs := &fakeRuns{}
	c := newController(&fakeGenerator{openingText: "Q1"}, sp, models.DefaultRoster(), Options{Runs: runs})

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, c.Start(ctx, ""))
	waitSpoken(t, sp, "Q1")
	cancel()
	waitDone(t, c)

	snap := c.Snapshot()
	assert.False(t, snap.Running)
	assert.Equal(t, []models.TranscriptLine{line(0, "Q1")}, snap.Transcript)
	assert.Equal(t, string(ReasonContextDone), runs.reason("run-1"))
}

func TestVoicesAndTopicArePassedThrough(t *testing.T) {
	sp := newFakeSpeaker()
	gen := &fakeGenerator{openingText: "Q1", lines: []string{"R1", ""}}
	voices := voiceTable{
		"Lena":            {ID: "anna"},
		"Dr. Aris Thorne": {ID: "markus"},
	}
	c := newController(gen, sp, models.DefaultRoster(), Options{Voices: voices})

	require.NoError(t, c.Start(context.Background(), "Hybrid Vector-SQL Database"))
	waitDone(t, c)

	sp.mu.Lock()
	assert.Equal(t, []string{"anna", "markus"}, sp.voices)
	sp.mu.Unlock()
	assert.Equal(t, []string{"Hybrid Vector-SQL Database"}, gen.topics)
	assert.Equal(t, "Hybrid Vector-SQL Database", c.Snapshot().Topic)
}

func TestToggleAndClosePanel(t *testing.T) {
	sp := newFakeSpeaker()
	sp.hold = make(chan struct{})
	c := newController(&fakeGenerator{openingText: "Q1"}, sp, models.DefaultRoster(), Options{})

	assert.True(t, c.Toggle(context.Background(), ""))
	waitSpoken(t, sp, "Q1")
	assert.False(t, c.Toggle(context.Background(), ""))
	waitDone(t, c)
	assert.Len(t, c.Snapshot().Transcript, 1)

	c.ClosePanel()
	assert.Empty(t, c.Snapshot().Transcript)
	assert.Equal(t, StateIdle, c.Snapshot().State)
}

func TestStopWhileSpeechEngineIsCheckedPlaysNothing(t *testing.T) {
	engine := &slowEngine{checking: make(chan struct{}, 1), ready: make(chan struct{})}
	out := speech.NewOutput(engine, speech.DefaultOptions(), zerolog.Nop())
	runs := &fakeRuns{}
	c := newController(&fakeGenerator{openingText: "Q1", lines: []string{"R1"}}, out, models.DefaultRoster(), Options{Runs: runs})

	require.NoError(t, c.Start(context.Background(), ""))
	select {
	case <-engine.checking:
	case <-time.After(2 * time.Second):
		t.Fatal("speech engine was never checked")
	}
	c.Stop()
	close(engine.ready)

	select {
	case <-c.Done():
	case <-time.After(time.Second):
		t.Fatal("discussion loop waited for playback after Stop")
	}
	assert.Zero(t, engine.played.Load(), "nothing may be spoken after Stop")
	assert.Equal(t, "", out.Playing())

	snap := c.Snapshot()
	assert.Equal(t, StateStopped, snap.State)
	assert.Equal(t, []models.TranscriptLine{line(0, "Q1")}, snap.Transcript)
	assert.Equal(t, string(ReasonUserStopped), runs.reason("run-1"))
}

func TestStopCancelsSpeechNotYetKnownToSpeaker(t *testing.T) {
	sp := &unregisteredSpeaker{err: make(chan error, 1)}
	runs := &fakeRuns{}
	c := newController(&fakeGenerator{openingText: "Q1"}, sp, models.DefaultRoster(), Options{Runs: runs})
	sp.stop = c.Stop

	require.NoError(t, c.Start(context.Background(), ""))
	select {
	case err := <-sp.err:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(3 * time.Second):
		t.Fatal("speaker never returned")
	}
	waitDone(t, c)

	snap := c.Snapshot()
	assert.Equal(t, []models.TranscriptLine{line(0, "Q1")}, snap.Transcript)
	assert.Equal(t, string(ReasonUserStopped), runs.reason("run-1"))
}

func TestSubscribersSeeFinalState(t *testing.T) {
	gen := &fakeGenerator{openingText: "Q1", lines: []string{""}}
	c := newController(gen, newFakeSpeaker(), models.DefaultRoster(), Options{})

	var mu sync.Mutex
	var last Snapshot
	var states []State
	c.Subscribe(func(s Snapshot) {
		mu.Lock()
		defer mu.Unlock()
		last = s
		states = append(states, s.State)
	})

	require.NoError(t, c.Start(context.Background(), ""))
	waitDone(t, c)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, StateStopped, last.State)
	assert.Len(t, last.Transcript, 2)
	assert.Equal(t, StateOpening, states[0])
	assert.Contains(t, states, StateSpeaking)
	assert.Contains(t, states, StateAwaitingNextLine)
}

func TestStateText(t *testing.T) {
	b, err := StateAwaitingNextLine.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "awaiting_next_line", string(b))

	var s State
	require.NoError(t, s.UnmarshalText([]byte("speaking")))
	assert.Equal(t, StateSpeaking, s)
	assert.Error(t, s.UnmarshalText([]byte("dancing")))
}
