// Package emails reads the backend's notification log. Email records are
// immutable; the client only lists and summarizes them.
package emails

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/inventrack/console/internal/api"
	"github.com/inventrack/console/internal/state"
)

type Type string

const (
	TypeLowStockAlert      Type = "LOW_STOCK_ALERT"
	TypeStockReplenished   Type = "STOCK_REPLENISHED"
	TypeSystemNotification Type = "SYSTEM_NOTIFICATION"
)

// Email is one immutable notification log record. To is a comma-separated
// recipient list, as the backend stores it.
type Email struct {
	ID          string     `json:"_id"`
	To          string     `json:"to"`
	Subject     string     `json:"subject"`
	Type        Type       `json:"type"`
	Success     bool       `json:"success"`
	Error       string     `json:"error,omitempty"`
	SentAt      *time.Time `json:"sentAt,omitempty"`
	ProductName string     `json:"productName,omitempty"`
	ProductSKU  string     `json:"productSku,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// Stats is the aggregate from GET /emails/stats.
type Stats struct {
	TotalEmails   int `json:"totalEmails"`
	SentEmails    int `json:"sentEmails"`
	FailedEmails  int `json:"failedEmails"`
	PendingEmails int `json:"pendingEmails"`
}

// Filter scopes an email list fetch.
type Filter struct {
	Type      Type
	Status    string
	StartDate *time.Time
	EndDate   *time.Time
}

func (f Filter) Query() url.Values {
	q := url.Values{}
	if f.Type != "" {
		q.Set("type", string(f.Type))
	}
	if f.Status != "" {
		q.Set("status", f.Status)
	}
	if f.StartDate != nil {
		q.Set("startDate", f.StartDate.Format(time.RFC3339))
	}
	if f.EndDate != nil {
		q.Set("endDate", f.EndDate.Format(time.RFC3339))
	}
	return q
}

// API binds the email endpoints onto the shared transport.
type API struct {
	http *api.Client
}

func NewAPI(client *api.Client) (*API, error) {
	if client == nil {
		return nil, fmt.Errorf("emails api transport required")
	}
	return &API{http: client}, nil
}

func (a *API) List(ctx context.Context, filter Filter) ([]Email, error) {
	return api.GetList[Email](ctx, a.http, "/emails", filter.Query())
}

func (a *API) Stats(ctx context.Context) (*Stats, error) {
	return api.GetOne[Stats](ctx, a.http, "/emails/stats")
}

// Store is the read-only email log cache.
type Store struct {
	api  *API
	list *state.Collection[Email]

	mu     sync.Mutex
	filter Filter
}

func NewStore(api *API) (*Store, error) {
	if api == nil {
		return nil, fmt.Errorf("emails api required")
	}
	return &Store{
		api:  api,
		list: state.NewCollection(func(e Email) string { return e.ID }),
	}, nil
}

func (s *Store) Load(ctx context.Context, filter Filter) error {
	s.mu.Lock()
	s.filter = filter
	s.mu.Unlock()
	return state.Load(ctx, s.list, "could not load emails", func(ctx context.Context) ([]Email, error) {
		return s.api.List(ctx, filter)
	})
}

func (s *Store) Stats(ctx context.Context) (*Stats, error) {
	return s.api.Stats(ctx)
}

func (s *Store) Items() []Email { return s.list.Items() }
func (s *Store) Loading() bool  { return s.list.Loading() }
func (s *Store) Err() string    { return s.list.Err() }

func (s *Store) Filter() Filter {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filter
}
