// Package query is an in-process cache for backend reads. Entries are keyed
// by tuples, go stale after a per-resource window, refetch in the background
// when read stale and can be invalidated by key prefix.
package query

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/tetsunavi/tetsunavi/internal/api"
	"golang.org/x/sync/singleflight"
)

type entry struct {
	key         Key
	value       any
	hasValue    bool
	err         error
	updatedAt   time.Time
	invalidated bool
	refetching  bool
	// gen increases on every write or invalidation. A fetch that started
	// under an older generation may not store its result.
	gen uint64
}

// Client owns the cache. Create one per process and share it.
type Client struct {
	mu      sync.Mutex
	entries map[string]*entry
	group   singleflight.Group

	retry              RetryPolicy
	sleep              SleepFunc
	now                func() time.Time
	observer           Observer
	refetchOnReconnect bool
	refetchOnFocus     bool
	// offline is set when a fetch ends in a transient failure and cleared
	// by the next success.
	offline bool

	bg     sync.WaitGroup
	bgCtx  context.Context
	cancel context.CancelFunc
}

// Option customizes a Client.
type Option func(*Client)

func WithRetry(p RetryPolicy) Option { return func(c *Client) { c.retry = p } }

func WithSleep(sleep SleepFunc) Option { return func(c *Client) { c.sleep = sleep } }

func WithClock(now func() time.Time) Option { return func(c *Client) { c.now = now } }

func WithObserver(o Observer) Option {
	return func(c *Client) {
		if o != nil {
			c.observer = o
		}
	}
}

// WithRefetchOnReconnect controls whether Reconnected invalidates the cache.
func WithRefetchOnReconnect(on bool) Option { return func(c *Client) { c.refetchOnReconnect = on } }

// WithRefetchOnFocus controls whether Focused invalidates the cache.
func WithRefetchOnFocus(on bool) Option { return func(c *Client) { c.refetchOnFocus = on } }

// NewClient creates an empty cache with the default retry policy,
// refetch-on-reconnect enabled and refetch-on-focus disabled.
func NewClient(opts ...Option) *Client {
	ctx, cancel := context.WithCancel(context.Background())
	c := &Client{
		entries:            make(map[string]*entry),
		retry:              DefaultRetryPolicy(),
		sleep:              sleepContext,
		now:                time.Now,
		observer:           NoopObserver{},
		refetchOnReconnect: true,
		bgCtx:              ctx,
		cancel:             cancel,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch returns the cached value for key, loading it with fn when the entry
// is absent or invalidated. A value older than staleTime is returned as is
// while a background refetch replaces it.
func Fetch[T any](ctx context.Context, c *Client, key Key, staleTime time.Duration, fn func(context.Context) (T, error)) (T, error) {
	load := func(ctx context.Context) (any, error) { return fn(ctx) }

	c.mu.Lock()
	e := c.entryLocked(key)
	if e.hasValue && !e.invalidated {
		v := e.value
		if c.now().Sub(e.updatedAt) < staleTime {
			c.mu.Unlock()
			c.observer.OnQuery(Event{Key: key, Outcome: OutcomeHit})
			return cast[T](key, v)
		}
		start := !e.refetching
		e.refetching = true
		gen := e.gen
		c.mu.Unlock()

		c.observer.OnQuery(Event{Key: key, Outcome: OutcomeStale})
		if start {
			c.refetchInBackground(key, gen, load)
		}
		return cast[T](key, v)
	}
	gen := e.gen
	c.mu.Unlock()

	c.observer.OnQuery(Event{Key: key, Outcome: OutcomeMiss})
	v, err := c.fetch(ctx, key, gen, load)
	if err != nil {
		var zero T
		return zero, err
	}
	return cast[T](key, v)
}

func cast[T any](key Key, v any) (T, error) {
	t, ok := v.(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("cached value for %s has type %T, want %T", key, v, zero)
	}
	return t, nil
}

func (c *Client) entryLocked(key Key) *entry {
	id := key.id()
	e, ok := c.entries[id]
	if !ok {
		e = &entry{key: append(Key(nil), key...)}
		c.entries[id] = e
	}
	return e
}

// fetch runs fn with retries, deduplicated per key and generation.
func (c *Client) fetch(ctx context.Context, key Key, gen uint64, fn func(context.Context) (any, error)) (any, error) {
	sfKey := key.id() + "#" + strconv.FormatUint(gen, 10)
	v, err, _ := c.group.Do(sfKey, func() (any, error) {
		v, attempts, err := c.retry.run(ctx, c.sleep, fn)
		c.store(key, gen, v, err, attempts)
		c.trackConnectivity(key, attempts, err)
		return v, err
	})
	return v, err
}

func (c *Client) store(key Key, gen uint64, v any, err error, attempts int) {
	c.mu.Lock()
	e, ok := c.entries[key.id()]
	if !ok || e.gen != gen {
		c.mu.Unlock()
		c.observer.OnQuery(Event{Key: key, Outcome: OutcomeSuperseded, Attempts: attempts, Err: err})
		return
	}
	if err != nil {
		e.err = err
		c.mu.Unlock()
		c.observer.OnQuery(Event{Key: key, Outcome: OutcomeError, Attempts: attempts, Err: err})
		return
	}
	e.value = v
	e.hasValue = true
	e.err = nil
	e.updatedAt = c.now()
	e.invalidated = false
	c.mu.Unlock()
	c.observer.OnQuery(Event{Key: key, Outcome: OutcomeFetched, Attempts: attempts})
}

func (c *Client) refetchInBackground(key Key, gen uint64, fn func(context.Context) (any, error)) {
	c.bg.Add(1)
	go func() {
		defer c.bg.Done()
		_, _ = c.fetch(c.bgCtx, key, gen, fn)
		c.mu.Lock()
		if e, ok := c.entries[key.id()]; ok {
			e.refetching = false
		}
		c.mu.Unlock()
	}()
}

// State is a read-only view of an entry. Data stays available after a
// failed refetch so callers can show it next to Err.
type State[T any] struct {
	Data        T
	HasData     bool
	Err         error
	UpdatedAt   time.Time
	Invalidated bool
}

// Peek returns the entry for key without fetching.
func Peek[T any](c *Client, key Key) State[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	var s State[T]
	e, ok := c.entries[key.id()]
	if !ok {
		return s
	}
	s.Err = e.err
	s.UpdatedAt = e.updatedAt
	s.Invalidated = e.invalidated
	if e.hasValue {
		if v, ok := e.value.(T); ok {
			s.Data = v
			s.HasData = true
		}
	}
	return s
}

// Set writes v as the fresh value of key.
func Set[T any](c *Client, key Key, v T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e := c.entryLocked(key)
	e.value = v
	e.hasValue = true
	e.err = nil
	e.updatedAt = c.now()
	e.invalidated = false
	e.gen++
}

// Invalidate marks every entry under any of the prefixes as invalid. The
// next read fetches fresh data and in-flight fetches are discarded. It
// returns the number of entries touched.
func (c *Client) Invalidate(prefixes ...Key) int {
	c.mu.Lock()
	n := 0
	for _, e := range c.entries {
		if matchesAny(e.key, prefixes) {
			e.invalidated = true
			e.gen++
			n++
		}
	}
	c.mu.Unlock()
	for _, p := range prefixes {
		c.observer.OnQuery(Event{Key: p, Outcome: OutcomeInvalidated})
	}
	return n
}

// Remove drops every entry under prefix.
func (c *Client) Remove(prefix Key) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for id, e := range c.entries {
		if e.key.HasPrefix(prefix) {
			delete(c.entries, id)
		}
	}
}

// trackConnectivity treats a success after a transient failure, in this
// fetch or an earlier one, as the backend coming back and calls the
// reconnect hook for every other entry.
func (c *Client) trackConnectivity(key Key, attempts int, err error) {
	c.mu.Lock()
	recovered := err == nil && (c.offline || attempts > 1)
	switch {
	case err == nil:
		c.offline = false
	case c.transient(err):
		c.offline = true
	}
	c.mu.Unlock()
	if recovered {
		c.reconnected(key)
	}
}

func (c *Client) transient(err error) bool {
	if c.retry.ShouldRetry != nil {
		return c.retry.ShouldRetry(err)
	}
	return api.IsTransient(err)
}

// Reconnected is called when connectivity returns.
func (c *Client) Reconnected() {
	c.reconnected(nil)
}

// reconnected invalidates every entry except skip, which was just fetched.
func (c *Client) reconnected(skip Key) {
	if !c.refetchOnReconnect {
		return
	}
	c.mu.Lock()
	for _, e := range c.entries {
		if skip != nil && e.key.id() == skip.id() {
			continue
		}
		e.invalidated = true
		e.gen++
	}
	c.mu.Unlock()
	c.observer.OnQuery(Event{Key: Key{}, Outcome: OutcomeInvalidated})
}

// Focused is called when the user returns to the program. Refetch on focus
// is off by default, so this does nothing unless enabled.
func (c *Client) Focused() {
	if c.refetchOnFocus {
		c.Invalidate(Key{})
	}
}

// Wait blocks until background refetches finish.
func (c *Client) Wait() {
	c.bg.Wait()
}

// Close cancels background refetches and waits for them.
func (c *Client) Close() {
	c.cancel()
	c.bg.Wait()
}

func matchesAny(k Key, prefixes []Key) bool {
	for _, p := range prefixes {
		if k.HasPrefix(p) {
			return true
		}
	}
	return false
}
