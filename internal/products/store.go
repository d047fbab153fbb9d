package products

import (
	"context"
	"fmt"
	"sync"

	"github.com/inventrack/console/internal/state"
	pkgerrors "github.com/inventrack/console/pkg/errors"
)

// Store is the normalized product cache: the filtered collection, an
// independent detail focus, and request/error bookkeeping.
type Store struct {
	api     *API
	list    *state.Collection[Product]
	current *state.Focus[Product]

	mu     sync.Mutex
	filter Filter
}

func NewStore(api *API) (*Store, error) {
	if api == nil {
		return nil, fmt.Errorf("products api required")
	}
	return &Store{
		api:     api,
		list:    state.NewCollection(func(p Product) string { return p.ID }),
		current: state.NewFocus[Product](),
	}, nil
}

// Load replaces the collection with the full filtered result.
func (s *Store) Load(ctx context.Context, filter Filter) error {
	s.mu.Lock()
	s.filter = filter
	s.mu.Unlock()
	return state.Load(ctx, s.list, "could not load products", func(ctx context.Context) ([]Product, error) {
		return s.api.List(ctx, filter)
	})
}

// LoadOne fetches a single product into the detail focus.
func (s *Store) LoadOne(ctx context.Context, id string) error {
	return state.LoadOne(ctx, s.current, "could not load product", func(ctx context.Context) (*Product, error) {
		return s.api.Get(ctx, id)
	})
}

// Create validates the input, submits it, and appends the confirmed
// product to the collection. Validation failures never reach the network.
func (s *Store) Create(ctx context.Context, input CreateInput) (*Product, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}
	s.list.BeginMutation()
	created, err := s.api.Create(ctx, input)
	if err != nil {
		s.list.CompleteMutation(pkgerrors.UserMessage(err, "could not create product"))
		return nil, err
	}
	s.list.CompleteMutation("")
	s.list.ApplyCreate(*created)
	return created, nil
}

// Update submits a partial update and replaces the product in place,
// refreshing the detail focus as well.
func (s *Store) Update(ctx context.Context, id string, input UpdateInput) (*Product, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}
	s.list.BeginMutation()
	updated, err := s.api.Update(ctx, id, input)
	if err != nil {
		s.list.CompleteMutation(pkgerrors.UserMessage(err, "could not update product"))
		return nil, err
	}
	s.list.CompleteMutation("")
	s.list.ApplyUpdate(*updated)
	s.current.Set(updated)
	return updated, nil
}

// Remove deletes the product server-side and filters it out locally.
func (s *Store) Remove(ctx context.Context, id string) error {
	s.list.BeginMutation()
	if err := s.api.Delete(ctx, id); err != nil {
		s.list.CompleteMutation(pkgerrors.UserMessage(err, "could not delete product"))
		return err
	}
	s.list.CompleteMutation("")
	s.list.ApplyRemove(id)
	return nil
}

func (s *Store) Items() []Product  { return s.list.Items() }
func (s *Store) Current() *Product { return s.current.Value() }
func (s *Store) Loading() bool     { return s.list.Loading() }
func (s *Store) Err() string       { return s.list.Err() }
func (s *Store) ClearErr()         { s.list.ClearErr() }
func (s *Store) ClearCurrent()     { s.current.Clear() }

func (s *Store) Filter() Filter {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filter
}
