// Package cache is a keyed request cache: concurrent reads of one key share a single
// in-flight call, results stay cached until a mutation marks them stale or removes them.
package cache

import (
	"context"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Key identifies a query, e.g. Key{"board", id}.
type Key []string

func (k Key) String() string {
	return strings.Join(k, "\x00")
}

// hasPrefix reports whether k starts with every element of prefix.
func (k Key) hasPrefix(prefix Key) bool {
	if len(prefix) > len(k) {
		return false
	}
	for i := range prefix {
		if k[i] != prefix[i] {
			return false
		}
	}
	return true
}

type entry struct {
	key   Key
	value any
	stale bool
}

// Client holds cached query results.
type Client struct {
	mu      sync.Mutex
	entries map[string]*entry
	group   singleflight.Group
}

func NewClient() *Client {
	return &Client{entries: make(map[string]*entry)}
}

// Fetch returns the fresh cached value for key or runs fn once for all concurrent
// callers of the same key. Errors are returned to every waiting caller and not cached.
// fn runs detached from any one caller's cancellation; a caller whose ctx ends stops
// waiting without failing the others.
func Fetch[T any](ctx context.Context, c *Client, key Key, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	if v, ok := c.fresh(key); ok {
		return v.(T), nil
	}

	shared := context.WithoutCancel(ctx)
	ch := c.group.DoChan(key.String(), func() (any, error) {
		// a call for key may have finished between the check above and DoChan
		if v, ok := c.fresh(key); ok {
			return v, nil
		}
		res, err := fn(shared)
		if err != nil {
			return nil, err
		}
		c.SetQueryData(key, res)
		return res, nil
	})

	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case r := <-ch:
		if r.Err != nil {
			return zero, r.Err
		}
		return r.Val.(T), nil
	}
}

func (c *Client) fresh(key Key) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key.String()]
	if !ok || e.stale {
		return nil, false
	}
	return e.value, true
}

// GetQueryData returns the cached value for key, stale or not.
func (c *Client) GetQueryData(key Key) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key.String()]
	if !ok {
		return nil, false
	}
	return e.value, true
}

// SetQueryData stores value as the fresh result for key.
func (c *Client) SetQueryData(key Key, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key.String()] = &entry{key: append(Key(nil), key...), value: value}
}

// InvalidateQueries marks every entry whose key starts with prefix as stale; the next
// Fetch of such a key calls its fetcher again.
func (c *Client) InvalidateQueries(prefix Key) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, e := range c.entries {
		if e.key.hasPrefix(prefix) {
			e.stale = true
		}
	}
}

// RemoveQueries drops every entry whose key starts with prefix.
func (c *Client) RemoveQueries(prefix Key) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for k, e := range c.entries {
		if e.key.hasPrefix(prefix) {
			delete(c.entries, k)
		}
	}
}
