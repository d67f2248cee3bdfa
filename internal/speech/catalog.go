package speech

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"relicpanel/internal/signal"
)

// Catalog is the observable list of voices an engine offers. The list may
// start empty and fill in later, so it is polled.
type Catalog struct {
	engine Engine
	log    zerolog.Logger

	voices *signal.Value[[]Voice]
	loaded *signal.Computed[bool]
}

func NewCatalog(engine Engine, logger zerolog.Logger) *Catalog {
	voices := signal.NewWithEqual[[]Voice](nil, equalVoices)
	return &Catalog{
		engine: engine,
		log:    logger,
		voices: voices,
		loaded: signal.NewComputed(func() bool { return len(voices.Get()) > 0 }, voices),
	}
}

// Voices returns the current list.
func (c *Catalog) Voices() []Voice {
	return c.voices.Get()
}

// Loaded reports whether at least one voice has been seen.
func (c *Catalog) Loaded() bool {
	return c.loaded.Get()
}

// Version changes whenever the list changes.
func (c *Catalog) Version() uint64 {
	return c.voices.Version()
}

// Subscribe registers fn for list changes.
func (c *Catalog) Subscribe(fn func([]Voice)) (unsubscribe func()) {
	return c.voices.Subscribe(fn)
}

// Refresh queries the engine once and reports whether the list changed.
// A failed query keeps the previous list.
func (c *Catalog) Refresh(ctx context.Context) (bool, error) {
	list, err := c.engine.Voices(ctx)
	if err != nil {
		return false, err
	}
	changed := c.voices.Set(list)
	if changed {
		c.log.Debug().Int("voices", len(list)).Msg("voice catalog changed")
	}
	return changed, nil
}

// Run refreshes immediately and then every interval until ctx is done.
func (c *Catalog) Run(ctx context.Context, interval time.Duration) {
	if _, err := c.Refresh(ctx); err != nil {
		c.log.Warn().Err(err).Msg("voice catalog unavailable")
	}
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := c.Refresh(ctx); err != nil && ctx.Err() == nil {
				c.log.Debug().Err(err).Msg("voice catalog refresh failed")
			}
		}
	}
}
