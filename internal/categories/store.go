package categories

import (
	"context"
	"fmt"
	"sync"

	"github.com/inventrack/console/internal/api"
	"github.com/inventrack/console/internal/state"
	pkgerrors "github.com/inventrack/console/pkg/errors"
)

// API binds the category endpoints onto the shared transport.
type API struct {
	http *api.Client
}

func NewAPI(client *api.Client) (*API, error) {
	if client == nil {
		return nil, fmt.Errorf("categories api transport required")
	}
	return &API{http: client}, nil
}

func (a *API) List(ctx context.Context, filter Filter) ([]Category, error) {
	return api.GetList[Category](ctx, a.http, "/categories", filter.Query())
}

func (a *API) Get(ctx context.Context, id string) (*Category, error) {
	return api.GetOne[Category](ctx, a.http, "/categories/"+id)
}

func (a *API) Create(ctx context.Context, input CreateInput) (*Category, error) {
	return api.Post[Category](ctx, a.http, "/categories", input)
}

func (a *API) Update(ctx context.Context, id string, input UpdateInput) (*Category, error) {
	return api.Patch[Category](ctx, a.http, "/categories/"+id, input)
}

func (a *API) Delete(ctx context.Context, id string) error {
	return api.Delete(ctx, a.http, "/categories/"+id)
}

// Store is the normalized category cache.
type Store struct {
	api     *API
	list    *state.Collection[Category]
	current *state.Focus[Category]

	mu     sync.Mutex
	filter Filter
}

func NewStore(api *API) (*Store, error) {
	if api == nil {
		return nil, fmt.Errorf("categories api required")
	}
	return &Store{
		api:     api,
		list:    state.NewCollection(func(c Category) string { return c.ID }),
		current: state.NewFocus[Category](),
	}, nil
}

func (s *Store) Load(ctx context.Context, filter Filter) error {
	s.mu.Lock()
	s.filter = filter
	s.mu.Unlock()
	return state.Load(ctx, s.list, "could not load categories", func(ctx context.Context) ([]Category, error) {
		return s.api.List(ctx, filter)
	})
}

func (s *Store) LoadOne(ctx context.Context, id string) error {
	return state.LoadOne(ctx, s.current, "could not load category", func(ctx context.Context) (*Category, error) {
		return s.api.Get(ctx, id)
	})
}

func (s *Store) Create(ctx context.Context, input CreateInput) (*Category, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}
	s.list.BeginMutation()
	created, err := s.api.Create(ctx, input)
	if err != nil {
		s.list.CompleteMutation(pkgerrors.UserMessage(err, "could not create category"))
		return nil, err
	}
	s.list.CompleteMutation("")
	s.list.ApplyCreate(*created)
	return created, nil
}

func (s *Store) Update(ctx context.Context, id string, input UpdateInput) (*Category, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}
	s.list.BeginMutation()
	updated, err := s.api.Update(ctx, id, input)
	if err != nil {
		s.list.CompleteMutation(pkgerrors.UserMessage(err, "could not update category"))
		return nil, err
	}
	s.list.CompleteMutation("")
	s.list.ApplyUpdate(*updated)
	s.current.Set(updated)
	return updated, nil
}

func (s *Store) Remove(ctx context.Context, id string) error {
	s.list.BeginMutation()
	if err := s.api.Delete(ctx, id); err != nil {
		s.list.CompleteMutation(pkgerrors.UserMessage(err, "could not delete category"))
		return err
	}
	s.list.CompleteMutation("")
	s.list.ApplyRemove(id)
	return nil
}

func (s *Store) Items() []Category  { return s.list.Items() }
func (s *Store) Current() *Category { return s.current.Value() }
func (s *Store) Loading() bool      { return s.list.Loading() }
func (s *Store) Err() string        { return s.list.Err() }
func (s *Store) ClearErr()          { s.list.ClearErr() }

func (s *Store) Filter() Filter {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filter
}
