package inventory

import (
	"context"
	"fmt"
	"sync"

	"github.com/inventrack/console/internal/api"
	"github.com/inventrack/console/internal/state"
	pkgerrors "github.com/inventrack/console/pkg/errors"
)

// API binds the inventory endpoints onto the shared transport.
type API struct {
	http *api.Client
}

func NewAPI(client *api.Client) (*API, error) {
	if client == nil {
		return nil, fmt.Errorf("inventory api transport required")
	}
	return &API{http: client}, nil
}

func (a *API) ListStock(ctx context.Context, filter StockFilter) ([]Item, error) {
	return api.GetList[Item](ctx, a.http, "/inventory/stock/all", filter.Query())
}

func (a *API) ProductStock(ctx context.Context, productID string) (*Item, error) {
	return api.GetOne[Item](ctx, a.http, "/inventory/stock/"+productID)
}

func (a *API) ListMovements(ctx context.Context, filter MovementFilter) ([]Movement, error) {
	return api.GetList[Movement](ctx, a.http, "/inventory", filter.Query())
}

func (a *API) CreateMovement(ctx context.Context, input CreateMovementInput) (*Movement, error) {
	return api.Post[Movement](ctx, a.http, "/inventory", input)
}

// Store caches the stock projections and the movement log. The two
// collections are independently filterable; a detail screen's product
// stock lives in its own focus slot.
type Store struct {
	api          *API
	items        *state.Collection[Item]
	movements    *state.Collection[Movement]
	productStock *state.Focus[Item]

	mu             sync.Mutex
	stockFilter    StockFilter
	movementFilter MovementFilter
}

func NewStore(api *API) (*Store, error) {
	if api == nil {
		return nil, fmt.Errorf("inventory api required")
	}
	return &Store{
		api:          api,
		items:        state.NewCollection(func(i Item) string { return i.ProductID }),
		movements:    state.NewCollection(func(m Movement) string { return m.ID }),
		productStock: state.NewFocus[Item](),
	}, nil
}

// LoadStock replaces the inventory projection collection.
func (s *Store) LoadStock(ctx context.Context, filter StockFilter) error {
	s.mu.Lock()
	s.stockFilter = filter
	s.mu.Unlock()
	return state.Load(ctx, s.items, "could not load inventory", func(ctx context.Context) ([]Item, error) {
		return s.api.ListStock(ctx, filter)
	})
}

// LoadProductStock refetches one product's projection into the focus
// slot. The coordinator calls this after a movement stales the cached
// figure; the client never recomputes the aggregate locally.
func (s *Store) LoadProductStock(ctx context.Context, productID string) error {
	return state.LoadOne(ctx, s.productStock, "could not load stock", func(ctx context.Context) (*Item, error) {
		return s.api.ProductStock(ctx, productID)
	})
}

// RefreshItem refetches one product's projection and patches it into the
// loaded collection in place, if present.
func (s *Store) RefreshItem(ctx context.Context, productID string) error {
	item, err := s.api.ProductStock(ctx, productID)
	if err != nil {
		return err
	}
	s.items.ApplyUpdate(*item)
	if current := s.productStock.Value(); current != nil && current.ProductID == productID {
		s.productStock.Set(item)
	}
	return nil
}

// LoadMovements replaces the movement collection.
func (s *Store) LoadMovements(ctx context.Context, filter MovementFilter) error {
	s.mu.Lock()
	s.movementFilter = filter
	s.mu.Unlock()
	return state.Load(ctx, s.movements, "could not load movements", func(ctx context.Context) ([]Movement, error) {
		return s.api.ListMovements(ctx, filter)
	})
}

// CreateMovement records a movement and prepends the confirmed record to
// the log, matching the server's newest-first ordering. Movements are
// immutable; there is no update or remove.
func (s *Store) CreateMovement(ctx context.Context, input CreateMovementInput) (*Movement, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}
	s.movements.BeginMutation()
	created, err := s.api.CreateMovement(ctx, input)
	if err != nil {
		s.movements.CompleteMutation(pkgerrors.UserMessage(err, "could not record movement"))
		return nil, err
	}
	s.movements.CompleteMutation("")
	s.movements.ApplyPrepend(*created)
	return created, nil
}

func (s *Store) Items() []Item         { return s.items.Items() }
func (s *Store) Movements() []Movement { return s.movements.Items() }
func (s *Store) ProductStock() *Item   { return s.productStock.Value() }
func (s *Store) Loading() bool         { return s.items.Loading() || s.movements.Loading() }
func (s *Store) StockErr() string      { return s.items.Err() }
func (s *Store) MovementsErr() string  { return s.movements.Err() }

func (s *Store) StockFilter() StockFilter {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stockFilter
}

func (s *Store) MovementFilter() MovementFilter {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.movementFilter
}
