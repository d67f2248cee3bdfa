package speech

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"relicpanel/internal/signal"
)

// Options are applied to every utterance of an Output.
type Options struct {
	Lang  string
	Rate  float64
	Pitch float64
}

// DefaultOptions matches the panel's German voices.
func DefaultOptions() Options {
	return Options{Lang: "de-DE", Rate: 0.95, Pitch: 1.0}
}

type utterance struct {
	id      uint64
	channel string
	cancel  context.CancelFunc
}

// Output serializes utterances on a single engine.
type Output struct {
	engine Engine
	opts   Options
	log    zerolog.Logger

	playing *signal.Value[string]

	mu       sync.Mutex
	active   *utterance
	seq      uint64
	speaking map[string]*signal.Computed[bool]

	probeMu sync.Mutex
	probed  bool
}

// NewOutput creates an Output for engine.
func NewOutput(engine Engine, opts Options, logger zerolog.Logger) *Output {
	return &Output{
		engine:   engine,
		opts:     opts,
		log:      logger,
		playing:  signal.NewComparable(""),
		speaking: make(map[string]*signal.Computed[bool]),
	}
}

// Speak plays text on channel and blocks until it ends. It returns
// ErrUnsupported if the engine is unavailable, ErrInterrupted if Stop or
// another utterance cut it short, and a wrapped engine error otherwise.
func (o *Output) Speak(ctx context.Context, channel, text string, voice *Voice) error {
	u, uctx := o.begin(ctx, channel)
	return o.play(ctx, uctx, u, text, voice)
}

// begin registers an utterance on channel, superseding the active one.
// From here on Stop cancels it, even before audio starts.
func (o *Output) begin(ctx context.Context, channel string) (*utterance, context.Context) {
	uctx, cancel := context.WithCancel(ctx)

	o.mu.Lock()
	if o.active != nil {
		// Supersede without touching the playing id; the superseded
		// caller clears it on its way out.
		o.active.cancel()
	}
	o.seq++
	u := &utterance{id: o.seq, channel: channel, cancel: cancel}
	o.active = u
	o.mu.Unlock()

	o.log.Debug().Str("channel", channel).Uint64("utterance", u.id).Msg("speak")
	return u, uctx
}

func (o *Output) play(ctx, uctx context.Context, u *utterance, text string, voice *Voice) error {
	defer u.cancel()

	err := o.probe(uctx)
	if err != nil && uctx.Err() == nil {
		o.finish(u)
		o.log.Error().Err(err).Msg("speech synthesis not supported")
		return fmt.Errorf("%w: %v", ErrUnsupported, err)
	}
	if err == nil {
		// Stop may land while the engine is checked; nothing starts after it
		err = uctx.Err()
	}
	if err == nil {
		err = o.engine.Speak(uctx, Utterance{
			Text:  text,
			Lang:  o.opts.Lang,
			Voice: voice,
			Rate:  o.opts.Rate,
			Pitch: o.opts.Pitch,
		}, func() {
			o.mu.Lock()
			current := o.active == u
			o.mu.Unlock()
			if current {
				o.playing.Set(u.channel)
			}
		})
	}

	o.finish(u)

	switch {
	case err == nil:
		return nil
	case ctx.Err() != nil:
		return ctx.Err()
	case uctx.Err() != nil:
		return ErrInterrupted
	default:
		o.log.Error().Err(err).Str("channel", u.channel).Msg("utterance failed")
		return fmt.Errorf("speech: playback failed: %w", err)
	}
}

// finish releases u and clears the playing id if it still names u's
// channel and no newer utterance of that channel took over.
func (o *Output) finish(u *utterance) {
	o.mu.Lock()
	if o.active == u {
		o.active = nil
	}
	newer := o.active
	o.mu.Unlock()

	if newer == nil || newer.channel != u.channel {
		o.playing.CompareAndSet(u.channel, "", func(a, b string) bool { return a == b })
	}
}

// Stop cancels the active utterance, if any. It is idempotent and only
// clears the playing id when there was something to cancel.
func (o *Output) Stop() {
	o.mu.Lock()
	u := o.active
	o.active = nil
	o.mu.Unlock()

	if u == nil {
		return
	}
	o.playing.Set("")
	u.cancel()
}

// Toggle implements read-aloud buttons: if channel is speaking it is
// stopped, otherwise everything is stopped and text starts playing in
// the background. It reports whether playback was started. The
// utterance is registered before Toggle returns, so a second call for
// the same channel always stops it.
func (o *Output) Toggle(ctx context.Context, channel, text string, voice *Voice) bool {
	if o.activeChannel() == channel {
		o.Stop()
		return false
	}
	o.Stop()

	u, uctx := o.begin(ctx, channel)
	go func() {
		if err := o.play(ctx, uctx, u, text, voice); err != nil && !errors.Is(err, ErrInterrupted) {
			o.log.Warn().Err(err).Str("channel", channel).Msg("read-aloud failed")
		}
	}()
	return true
}

// Playing returns the channel currently producing audio, or "".
func (o *Output) Playing() string {
	return o.playing.Get()
}

// IsSpeaking reports whether channel currently produces audio.
func (o *Output) IsSpeaking(channel string) bool {
	return o.playing.Get() == channel
}

// Speaking returns a cached derived value for channel.
func (o *Output) Speaking(channel string) *signal.Computed[bool] {
	o.mu.Lock()
	defer o.mu.Unlock()
	if c, ok := o.speaking[channel]; ok {
		return c
	}
	c := signal.NewComputed(func() bool { return o.playing.Get() == channel }, o.playing)
	o.speaking[channel] = c
	return c
}

// SubscribePlaying registers fn for playing-id transitions.
func (o *Output) SubscribePlaying(fn func(channel string)) (unsubscribe func()) {
	return o.playing.Subscribe(fn)
}

// Voices lists the engine's voices.
func (o *Output) Voices(ctx context.Context) ([]Voice, error) {
	return o.engine.Voices(ctx)
}

func (o *Output) activeChannel() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.active == nil {
		return ""
	}
	return o.active.channel
}

// probe checks the engine once; failures are re-probed on the next call
// because a daemon may come up later.
func (o *Output) probe(ctx context.Context) error {
	o.probeMu.Lock()
	defer o.probeMu.Unlock()
	if o.probed {
		return nil
	}
	if err := o.engine.Probe(ctx); err != nil {
		return err
	}
	o.probed = true
	return nil
}
