package assetcache

import (
	"context"
	"log/slog"
	"sync"
)

// LoaderFunc performs the actual fetch and parse of one asset. The cache
// treats it as opaque; it is invoked at most once per in-flight load.
type LoaderFunc func(ctx context.Context) (Asset, error)

type entryState int

const (
	stateQueued entryState = iota
	stateLoading
	stateReady
	stateFailed
)

type entry struct {
	state entryState
	asset Asset
	err   error

	// done is closed once the load settles; asset and err are written
	// before the close and never rewritten, so waiters may read them
	// without the cache lock after done.
	done chan struct{}
}

// Cache is a keyed loader for large binary assets with request
// deduplication. Concurrent Requests for the same key share a single
// loader invocation and receive the identical outcome; a failed load is
// retryable by a later Request. Construct one per client process and
// tear it down with ReleaseAll.
type Cache struct {
	mu      sync.Mutex
	entries map[string]*entry
	logger  *slog.Logger
}

// New creates an empty cache
func New(logger *slog.Logger) *Cache {
	return &Cache{
		entries: make(map[string]*entry),
		logger:  logger.With(slog.String("component", "assetcache")),
	}
}

// Request returns the asset for key, loading it with load if needed.
// If a load for key is already in flight the call attaches to it instead
// of starting a second one. ctx cancels the caller's wait, not the load
// itself; the shared load runs to completion so other waiters still get
// its result.
func (c *Cache) Request(ctx context.Context, key string, load LoaderFunc) (Asset, error) {
	c.mu.Lock()
	if e, ok := c.entries[key]; ok {
		switch e.state {
		case stateReady:
			asset := e.asset
			c.mu.Unlock()
			return asset, nil
		case stateQueued, stateLoading:
			c.mu.Unlock()
			return c.wait(ctx, e)
		case stateFailed:
			// Retryable: fall through and start a fresh load
		}
	}

	e := &entry{state: stateQueued, done: make(chan struct{})}
	c.entries[key] = e
	c.mu.Unlock()

	go c.load(context.WithoutCancel(ctx), key, e, load)

	return c.wait(ctx, e)
}

// Get returns the asset for key without triggering a load. The second
// return is false when the key is absent, still loading, or failed.
func (c *Cache) Get(key string) (Asset, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok || e.state != stateReady {
		return nil, false
	}
	return e.asset, true
}

// Release disposes the payload for key, if ready, and removes the entry.
// Releasing an absent key is a no-op. Releasing a key with a load still
// in flight detaches the entry: waiters receive the load's outcome, but
// the cache no longer holds it.
func (c *Cache) Release(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return
	}
	delete(c.entries, key)
	if e.state == stateReady {
		e.asset.Release()
	}
}

// ReleaseAll disposes every ready payload exactly once and clears the
// cache. Used on full teardown, e.g. returning to a menu.
func (c *Cache) ReleaseAll() {
	c.mu.Lock()
	defer c.mu.Unlock()

	released := 0
	for key, e := range c.entries {
		delete(c.entries, key)
		if e.state == stateReady {
			e.asset.Release()
			released++
		}
	}
	if released > 0 {
		c.logger.Info("cache cleared", slog.Int("released", released))
	}
}

// Len returns the number of entries, in any state
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *Cache) load(ctx context.Context, key string, e *entry, load LoaderFunc) {
	c.mu.Lock()
	e.state = stateLoading
	c.mu.Unlock()

	asset, err := load(ctx)

	c.mu.Lock()
	if err != nil {
		e.state = stateFailed
		e.err = err
		c.logger.Warn("asset load failed",
			slog.String("key", key),
			slog.Any("error", err))
	} else {
		e.state = stateReady
		e.asset = asset
	}
	c.mu.Unlock()

	close(e.done)
}

func (c *Cache) wait(ctx context.Context, e *entry) (Asset, error) {
	select {
	case <-e.done:
		return e.asset, e.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
