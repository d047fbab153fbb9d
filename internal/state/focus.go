package state

import (
	"context"
	"sync"

	pkgerrors "github.com/inventrack/console/pkg/errors"
)

// Focus is the single-entity slot a detail view reads from, independent
// of the list so a detail page can be open against a differently filtered
// collection.
type Focus[T any] struct {
	mu      sync.Mutex
	value   *T
	loading bool
	errMsg  string
	seq     uint64
}

func NewFocus[T any]() *Focus[T] {
	return &Focus[T]{}
}

func (f *Focus[T]) BeginLoad() uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	f.loading = true
	f.errMsg = ""
	return f.seq
}

func (f *Focus[T]) CompleteLoad(seq uint64, value *T, errMsg string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if seq != f.seq {
		return false
	}
	f.loading = false
	if errMsg != "" {
		f.errMsg = errMsg
		return true
	}
	f.value = value
	return true
}

// Set replaces the focused entity directly (a successful update also
// refreshes the focus, as the original screens expect).
func (f *Focus[T]) Set(value *T) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.value = value
}

// Clear empties the focus slot.
func (f *Focus[T]) Clear() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.value = nil
}

// Value returns a copy of the focused entity, or nil when unset.
func (f *Focus[T]) Value() *T {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.value == nil {
		return nil
	}
	copied := *f.value
	return &copied
}

func (f *Focus[T]) Loading() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.loading
}

func (f *Focus[T]) Err() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.errMsg
}

// LoadOne runs one fenced single-entity fetch against the focus slot.
func LoadOne[T any](ctx context.Context, f *Focus[T], fallback string, fetch func(context.Context) (*T, error)) error {
	seq := f.BeginLoad()
	value, err := fetch(ctx)
	if err != nil {
		f.CompleteLoad(seq, nil, pkgerrors.UserMessage(err, fallback))
		return err
	}
	f.CompleteLoad(seq, value, "")
	return nil
}
