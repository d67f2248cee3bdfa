package signal

import "sync"

// Computed is a cached value derived from dependencies.
type Computed[T any] struct {
	mu      sync.Mutex
	fn      func() T
	deps    []Dependency
	seen    []uint64
	v       T
	valid   bool
	version uint64
}

// NewComputed creates a Computed that evaluates fn lazily.
func NewComputed[T any](fn func() T, deps ...Dependency) *Computed[T] {
	return &Computed[T]{
		fn:   fn,
		deps: deps,
		seen: make([]uint64, len(deps)),
	}
}

// Get returns the cached value, recomputing it if any dependency was
// written since the last evaluation.
func (c *Computed[T]) Get() T {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.valid && !c.stale() {
		return c.v
	}
	for i, d := range c.deps {
		c.seen[i] = d.Version()
	}
	c.v = c.fn()
	c.valid = true
	c.version++
	return c.v
}

// Version lets a Computed act as a dependency of another Computed.
func (c *Computed[T]) Version() uint64 {
	var sum uint64
	for _, d := range c.deps {
		sum += d.Version()
	}
	return sum
}

// Evaluations returns how many times the value has been computed.
func (c *Computed[T]) Evaluations() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.version
}

func (c *Computed[T]) stale() bool {
	for i, d := range c.deps {
		if d.Version() != c.seen[i] {
			return true
		}
	}
	return false
}
