package advisor

import (
	"context"
	"sync"
	"time"

	"github.com/RyanBlaney/sonido-aid/logging"
	"github.com/RyanBlaney/sonido-aid/strategy"
)

// defaultCacheTTL is how long a cached proposal stays fresh per scene
const defaultCacheTTL = 30 * time.Second

type cacheEntry struct {
	strategy strategy.Strategy
	storedAt time.Time
}

// CachedAdvisor wraps another advisor with a per-scene cache. Fresh
// cache hits skip the inner call entirely; when the inner advisor
// fails, the last good proposal for the scene is served regardless of
// age, so transient advisor outages degrade to a stale-but-validated
// strategy instead of a fallback.
type CachedAdvisor struct {
	inner Advisor
	ttl   time.Duration
	clock func() time.Time

	mu    sync.Mutex
	cache map[string]cacheEntry

	logger logging.Logger
}

// NewCachedAdvisor wraps inner with a scene cache. A non-positive TTL
// uses the default.
func NewCachedAdvisor(inner Advisor, ttl time.Duration) *CachedAdvisor {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &CachedAdvisor{
		inner: inner,
		ttl:   ttl,
		clock: time.Now,
		cache: make(map[string]cacheEntry),
		logger: logging.WithFields(logging.Fields{
			"component": "cached_advisor",
			"inner":     inner.Name(),
		}),
	}
}

func (c *CachedAdvisor) Name() string {
	return "cached(" + c.inner.Name() + ")"
}

// Propose serves a fresh cached proposal when available, otherwise
// consults the inner advisor and on failure falls back to whatever was
// cached last for the scene.
func (c *CachedAdvisor) Propose(ctx context.Context, obs Observation, profile strategy.UserProfile) (strategy.Strategy, error) {
	scene := obs.AcousticScene
	now := c.clock()

	c.mu.Lock()
	entry, cached := c.cache[scene]
	c.mu.Unlock()

	if cached && now.Sub(entry.storedAt) < c.ttl {
		return entry.strategy.Clone(), nil
	}

	st, err := c.inner.Propose(ctx, obs, profile)
	if err != nil {
		if cached {
			c.logger.Warn("inner advisor failed, serving cached strategy", logging.Fields{
				"scene": scene,
				"age":   now.Sub(entry.storedAt).String(),
				"error": err.Error(),
			})
			return entry.strategy.Clone(), nil
		}
		return strategy.Strategy{}, err
	}

	c.mu.Lock()
	c.cache[scene] = cacheEntry{strategy: st.Clone(), storedAt: now}
	c.mu.Unlock()

	return st, nil
}

// Invalidate drops the cached proposal for a scene, forcing the next
// call through to the inner advisor
func (c *CachedAdvisor) Invalidate(scene string) {
	c.mu.Lock()
	delete(c.cache, scene)
	c.mu.Unlock()
}
