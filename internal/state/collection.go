// Package state implements the normalized client-side caches the entity
// stores are built on: one collection per entity kind plus loading and
// error bookkeeping, mutated reducer-style through its own methods only.
package state

import (
	"context"
	"sync"

	pkgerrors "github.com/inventrack/console/pkg/errors"
)

// Collection holds one entity kind's list. Loads are fenced: each load
// takes a monotonically increasing sequence number and a completing load
// is discarded unless it is the latest issued, so rapid filter changes
// cannot apply stale results out of order.
type Collection[T any] struct {
	mu      sync.Mutex
	id      func(T) string
	items   []T
	loading bool
	errMsg  string
	seq     uint64
}

// NewCollection builds a collection keyed by the given id extractor.
func NewCollection[T any](id func(T) string) *Collection[T] {
	return &Collection[T]{id: id}
}

// BeginLoad marks a fresh list fetch: loading on, error cleared. The
// returned sequence number must be handed back to CompleteLoad.
func (c *Collection[T]) BeginLoad() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	c.loading = true
	c.errMsg = ""
	return c.seq
}

// CompleteLoad applies a finished fetch. A load whose sequence is not the
// latest issued is dropped without touching any state; the newer load owns
// the collection now. On failure the visible collection is left untouched
// and only the error message is recorded. Reports whether the result was
// applied.
func (c *Collection[T]) CompleteLoad(seq uint64, items []T, errMsg string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if seq != c.seq {
		return false
	}
	c.loading = false
	if errMsg != "" {
		c.errMsg = errMsg
		return true
	}
	c.items = items
	return true
}

// BeginMutation marks an in-flight create/update/remove.
func (c *Collection[T]) BeginMutation() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.loading = true
	c.errMsg = ""
}

// CompleteMutation clears the loading flag and records the outcome.
func (c *Collection[T]) CompleteMutation(errMsg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.loading = false
	c.errMsg = errMsg
}

// ApplyCreate appends the confirmed entity to the end of the list.
func (c *Collection[T]) ApplyCreate(item T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = append(c.items, item)
}

// ApplyPrepend inserts the confirmed entity at the head of the list
// (movements arrive newest-first from the server).
func (c *Collection[T]) ApplyPrepend(item T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = append([]T{item}, c.items...)
}

// ApplyUpdate replaces the entity with a matching id in place, preserving
// order and length. Reports whether a match was found.
func (c *Collection[T]) ApplyUpdate(item T) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := c.id(item)
	for i := range c.items {
		if c.id(c.items[i]) == key {
			c.items[i] = item
			return true
		}
	}
	return false
}

// ApplyRemove filters out the entity with the given id. Removing a
// missing id is a no-op.
func (c *Collection[T]) ApplyRemove(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	kept := c.items[:0]
	removed := false
	for _, item := range c.items {
		if c.id(item) == id {
			removed = true
			continue
		}
		kept = append(kept, item)
	}
	c.items = kept
	return removed
}

// Contains reports whether an entity with the given id is present.
func (c *Collection[T]) Contains(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, item := range c.items {
		if c.id(item) == id {
			return true
		}
	}
	return false
}

// Find returns the entity with the given id, if present.
func (c *Collection[T]) Find(id string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, item := range c.items {
		if c.id(item) == id {
			return item, true
		}
	}
	var zero T
	return zero, false
}

// Items returns a copy of the collection in server order.
func (c *Collection[T]) Items() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]T, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Collection[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

func (c *Collection[T]) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// Err returns the last recorded user-facing error message, empty when the
// previous operation succeeded.
func (c *Collection[T]) Err() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.errMsg
}

// ClearErr drops the recorded error without touching the collection.
func (c *Collection[T]) ClearErr() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.errMsg = ""
}

// Load runs one fenced list fetch against the collection, collapsing any
// failure to a user-facing message built from the fallback.
func Load[T any](ctx context.Context, c *Collection[T], fallback string, fetch func(context.Context) ([]T, error)) error {
	seq := c.BeginLoad()
	items, err := fetch(ctx)
	if err != nil {
		c.CompleteLoad(seq, nil, pkgerrors.UserMessage(err, fallback))
		return err
	}
	c.CompleteLoad(seq, items, "")
	return nil
}
