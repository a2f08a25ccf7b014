package appctx

import (
	"sort"
	"sync"
)

// TrackingContext wraps another Context and records every property key that
// callers read via Property().
//
// The engine uses it to report which configuration properties each check
// consulted when running in verbose mode.
type TrackingContext struct {
	inner    Context
	mu       sync.Mutex
	accessed map[string]struct{}
}

func NewTrackingContext(inner Context) *TrackingContext {
	return &TrackingContext{
		inner:    inner,
		accessed: make(map[string]struct{}),
	}
}

func (c *TrackingContext) LocalPort() (int, bool) {
	if c == nil || c.inner == nil {
		return 0, false
	}
	return c.inner.LocalPort()
}

func (c *TrackingContext) Property(key string) (string, bool) {
	if c == nil {
		return "", false
	}
	c.mu.Lock()
	c.accessed[key] = struct{}{}
	c.mu.Unlock()
	if c.inner == nil {
		return "", false
	}
	return c.inner.Property(key)
}

func (c *TrackingContext) ActiveProfiles() []string {
	if c == nil || c.inner == nil {
		return nil
	}
	return c.inner.ActiveProfiles()
}

func (c *TrackingContext) AccessedKeys() []string {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	keys := make([]string, 0, len(c.accessed))
	for k := range c.accessed {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
