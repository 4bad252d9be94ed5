package fetcher

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// EntryStatus is the state of one cached query.
type EntryStatus int

const (
	EntryPending EntryStatus = iota
	EntrySuccess
	EntryError
)

func (s EntryStatus) String() string {
	switch s {
	case EntryPending:
		return "pending"
	case EntrySuccess:
		return "success"
	case EntryError:
		return "error"
	}
	return fmt.Sprintf("EntryStatus(%d)", int(s))
}

// Entry is a snapshot of one cached query.
type Entry struct {
	Status    EntryStatus
	Data      any
	Err       error
	FetchedAt time.Time
}

// Cache maps a query key to its latest result. Concurrent fetches of one
// key share a single in-flight call. Successful results are served from
// the cache until they are older than the stale window.
type Cache struct {
	stale time.Duration
	now   func() time.Time

	mu      sync.Mutex
	entries map[string]*Entry
	group   singleflight.Group
}

// NewCache returns a Cache whose successful entries stay fresh for stale.
// A zero window disables reuse but keeps request coalescing.
func NewCache(stale time.Duration) *Cache {
	return &Cache{stale: stale, now: time.Now, entries: make(map[string]*Entry)}
}

// Fetch returns the fresh cached value for key or runs fn to produce it.
// fn runs detached from ctx's cancellation: a caller that gives up gets
// ctx.Err(), and the result is still cached for the next caller.
func Fetch[T any](ctx context.Context, c *Cache, key string, fn func(context.Context) (T, error)) (T, error) {
	var zero T

	if v, ok := c.fresh(key); ok {
		if t, ok := v.(T); ok {
			return t, nil
		}
	}

	detached := context.WithoutCancel(ctx)
	ch := c.group.DoChan(key, func() (any, error) {
		c.mu.Lock()
		if e, ok := c.entries[key]; ok {
			e.Status = EntryPending
		} else {
			c.entries[key] = &Entry{Status: EntryPending}
		}
		c.mu.Unlock()

		v, err := fn(detached)
		c.store(key, v, err)
		return v, err
	})

	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		t, ok := res.Val.(T)
		if !ok {
			return zero, fmt.Errorf("cache: key %q holds %T", key, res.Val)
		}
		return t, nil
	}
}

func (c *Cache) fresh(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok || e.Status != EntrySuccess {
		return nil, false
	}
	if c.now().Sub(e.FetchedAt) >= c.stale {
		return nil, false
	}
	return e.Data, true
}

func (c *Cache) store(key string, v any, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e := &Entry{FetchedAt: c.now()}
	if err != nil {
		e.Status, e.Err = EntryError, err
		// Keep the last good data visible alongside the error.
		if prev, ok := c.entries[key]; ok {
			e.Data = prev.Data
		}
	} else {
		e.Status, e.Data = EntrySuccess, v
	}
	c.entries[key] = e
}

// Get returns a snapshot of the entry for key.
func (c *Cache) Get(key string) (Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return Entry{}, false
	}
	return *e, true
}

// Invalidate drops key so the next Fetch goes upstream.
func (c *Cache) Invalidate(keys ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.entries, k)
	}
}

// Len returns the number of cached keys.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
