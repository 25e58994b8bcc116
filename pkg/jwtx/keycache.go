package jwtx

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/aussiebroadwan/coffeeshop/pkg/slogx"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"
)

// Cache defaults. Each kid can trigger at most one fetch per
// DefaultMinRefreshInterval, so replaying a token with an unknown kid cannot
// be used to hammer the key source.
const (
	DefaultMinRefreshInterval = 10 * time.Second
	DefaultMaxAge             = time.Hour

	// maxMissedKIDs bounds the throttle's memory. Once that many distinct
	// kids have missed within one interval, further new kids are throttled.
	maxMissedKIDs = 1024
)

// KeyCacheOptions tunes a KeyCache. Zero values pick the defaults; use a
// negative duration to disable MinRefreshInterval or MaxAge.
type KeyCacheOptions struct {
	FetchTimeout       time.Duration
	MinRefreshInterval time.Duration
	MaxAge             time.Duration

	// OnRefresh, when set, is called after every fetch attempt.
	OnRefresh func(err error, took time.Duration)

	Logger *slog.Logger
}

// KeyCache holds the current KeySet for a KeySource. The set is loaded
// lazily, swapped atomically on refresh, and shared by every verifier in the
// process. Lookups that hit never block; only a miss waits on a fetch, and
// concurrent misses share a single fetch.
type KeyCache struct {
	source KeySource
	opts   KeyCacheOptions

	current    atomic.Pointer[KeySet]
	lastErr    atomic.Pointer[error]
	refreshing atomic.Bool

	group singleflight.Group
	now   func() time.Time

	missMu sync.Mutex
	missed map[string]*rate.Limiter
}

// NewKeyCache creates an empty cache over source.
func NewKeyCache(source KeySource, opts KeyCacheOptions) *KeyCache {
	if opts.FetchTimeout <= 0 {
		opts.FetchTimeout = DefaultFetchTimeout
	}
	if opts.MinRefreshInterval == 0 {
		opts.MinRefreshInterval = DefaultMinRefreshInterval
	}
	if opts.MaxAge == 0 {
		opts.MaxAge = DefaultMaxAge
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	return &KeyCache{
		source: source,
		opts:   opts,
		missed: make(map[string]*rate.Limiter),
		now:    time.Now,
	}
}

// Key returns the signing key for kid. On a miss the set is refreshed once
// and the lookup retried; a key still absent is ErrKeyNotFound, a failed
// fetch is ErrKeySourceUnavailable. A kid that already caused a refresh
// within MinRefreshInterval is answered from the current set.
func (c *KeyCache) Key(ctx context.Context, kid string) (SigningKey, error) {
	if set := c.current.Load(); set != nil {
		if k, ok := set.Get(kid); ok {
			c.maybeRefreshStale(ctx, set)
			return k, nil
		}
	}

	set, err := c.refresh(ctx, kid, false)
	if err != nil {
		return SigningKey{}, err
	}
	if k, ok := set.Get(kid); ok {
		return k, nil
	}
	return SigningKey{}, fmt.Errorf("%w: kid %q", ErrKeyNotFound, kid)
}

// Refresh forces a fetch, bypassing the refresh throttle.
func (c *KeyCache) Refresh(ctx context.Context) error {
	_, err := c.refresh(ctx, "", true)
	return err
}

// Current returns the loaded snapshot, nil before the first successful fetch.
func (c *KeyCache) Current() *KeySet {
	return c.current.Load()
}

// Ready reports whether a key set has been loaded.
func (c *KeyCache) Ready() bool {
	return c.current.Load() != nil
}

// refresh runs at most one fetch at a time. Callers that arrive while a
// fetch is in flight wait for it and share its result.
func (c *KeyCache) refresh(ctx context.Context, kid string, force bool) (*KeySet, error) {
	if !force && !c.allowMiss(kid) {
		// Throttled: answer from what we already know.
		if last := c.lastErr.Load(); last != nil {
			return nil, *last
		}
		return c.current.Load(), nil
	}

	v, err, _ := c.group.Do("jwks", func() (any, error) {
		return c.fetch(ctx)
	})
	if err != nil {
		return nil, err
	}
	set, _ := v.(*KeySet)
	return set, nil
}

func (c *KeyCache) fetch(ctx context.Context) (*KeySet, error) {
	log := slogx.FromContextOr(ctx, c.opts.Logger)

	// The fetch is shared by every waiter, so it must not die with the
	// request that happened to start it.
	fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.opts.FetchTimeout)
	defer cancel()

	start := c.now()
	set, err := c.source.Fetch(fetchCtx)
	took := c.now().Sub(start)
	if c.opts.OnRefresh != nil {
		c.opts.OnRefresh(err, took)
	}

	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			err = fmt.Errorf("timed out after %s: %w", c.opts.FetchTimeout, err)
		}
		err = fmt.Errorf("%w: %w", ErrKeySourceUnavailable, err)
		c.lastErr.Store(&err)
		log.Error("jwks refresh failed", "error", err, "took", took)
		return nil, err
	}

	c.current.Store(set)
	c.lastErr.Store(nil)
	log.Info("jwks refreshed", "keys", set.Len(), "kids", set.KIDs(), "took", took)
	return set, nil
}

// allowMiss reports whether a miss on kid may fetch. Every kid has its own
// one-token limiter refilling once per MinRefreshInterval.
func (c *KeyCache) allowMiss(kid string) bool {
	if c.opts.MinRefreshInterval < 0 {
		return true
	}

	c.missMu.Lock()
	defer c.missMu.Unlock()

	now := c.now()
	lim, ok := c.missed[kid]
	if !ok {
		if len(c.missed) >= maxMissedKIDs {
			// Full limiters have been idle for an interval.
			for k, l := range c.missed {
				if l.TokensAt(now) >= 1 {
					delete(c.missed, k)
				}
			}
			if len(c.missed) >= maxMissedKIDs {
				return false
			}
		}
		lim = rate.NewLimiter(rate.Every(c.opts.MinRefreshInterval), 1)
		c.missed[kid] = lim
	}
	return lim.AllowN(now, 1)
}

// maybeRefreshStale starts a background refresh when the set is older than
// MaxAge. The caller carries on with the set it already has.
func (c *KeyCache) maybeRefreshStale(ctx context.Context, set *KeySet) {
	if c.opts.MaxAge < 0 || c.now().Sub(set.FetchedAt) < c.opts.MaxAge {
		return
	}
	if !c.refreshing.CompareAndSwap(false, true) {
		return
	}

	bg := context.WithoutCancel(ctx)
	go func() {
		defer c.refreshing.Store(false)
		_, _ = c.refresh(bg, "", true)
	}()
}
