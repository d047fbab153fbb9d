// Package coordinator sequences the side effects that cross entity
// store boundaries: a movement staling its product's stock projection,
// an alert resolution's split-merge, and session lifecycle.
package coordinator

import (
	"context"
	"fmt"

	"go.uber.org/multierr"

	"github.com/inventrack/console/internal/alerts"
	"github.com/inventrack/console/internal/api"
	"github.com/inventrack/console/internal/categories"
	"github.com/inventrack/console/internal/emails"
	"github.com/inventrack/console/internal/invalidation"
	"github.com/inventrack/console/internal/inventory"
	"github.com/inventrack/console/internal/products"
	"github.com/inventrack/console/internal/session"
	"github.com/inventrack/console/pkg/logger"
)

type Coordinator struct {
	logg       *logger.Logger
	transport  *api.Client
	session    *session.Store
	products   *products.Store
	categories *categories.Store
	inventory  *inventory.Store
	alerts     *alerts.Store
	emails     *emails.Store
	bus        *invalidation.Bus
}

// Params wires the coordinator's dependencies.
type Params struct {
	Logger     *logger.Logger
	Transport  *api.Client
	Session    *session.Store
	Products   *products.Store
	Categories *categories.Store
	Inventory  *inventory.Store
	Alerts     *alerts.Store
	Emails     *emails.Store
	Bus        *invalidation.Bus
}

// New validates the wiring and registers the global 401 hook: any
// unauthorized response anywhere tears the session down, regardless of
// which store triggered the request.
func New(params Params) (*Coordinator, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("coordinator logger required")
	}
	if params.Transport == nil {
		return nil, fmt.Errorf("coordinator transport required")
	}
	if params.Session == nil {
		return nil, fmt.Errorf("coordinator session store required")
	}
	if params.Products == nil || params.Categories == nil || params.Inventory == nil ||
		params.Alerts == nil || params.Emails == nil {
		return nil, fmt.Errorf("coordinator entity stores required")
	}
	if params.Bus == nil {
		params.Bus = invalidation.NewBus()
	}

	c := &Coordinator{
		logg:       params.Logger,
		transport:  params.Transport,
		session:    params.Session,
		products:   params.Products,
		categories: params.Categories,
		inventory:  params.Inventory,
		alerts:     params.Alerts,
		emails:     params.Emails,
		bus:        params.Bus,
	}
	params.Transport.SetUnauthorizedHook(c.session.HandleUnauthorized)
	return c, nil
}

func (c *Coordinator) Bus() *invalidation.Bus { return c.bus }

// Login authenticates and persists the session.
func (c *Coordinator) Login(ctx context.Context, creds session.Credentials) error {
	return c.session.Login(ctx, creds)
}

// Register creates an account and signs the new user in.
func (c *Coordinator) Register(ctx context.Context, creds session.Credentials) error {
	return c.session.Register(ctx, creds)
}

// Profile refetches the authenticated user's profile.
func (c *Coordinator) Profile(ctx context.Context) error {
	return c.session.RefreshProfile(ctx)
}

// Logout clears the session store and its durable mirror.
func (c *Coordinator) Logout(ctx context.Context) {
	c.session.Logout(ctx)
}

// Session returns the current auth snapshot.
func (c *Coordinator) Session() session.Session {
	return c.session.Snapshot()
}

// RecordMovement appends a movement, then handles the cross-store
// fallout: the product's cached stock projection is stale (the client
// never recomputes aggregates locally), so it is refetched immediately,
// and the product id is published so alert and movement subscribers
// reload. A refetch failure is reported but does not undo the recorded
// movement; the returned movement is valid whenever it is non-nil.
func (c *Coordinator) RecordMovement(ctx context.Context, input inventory.CreateMovementInput) (*inventory.Movement, error) {
	created, err := c.inventory.CreateMovement(ctx, input)
	if err != nil {
		return nil, err
	}

	var refreshErr error
	if err := c.inventory.RefreshItem(ctx, input.ProductID); err != nil {
		c.logg.Warn(c.logg.WithField(ctx, "product_id", input.ProductID), "stale stock refetch failed")
		refreshErr = multierr.Append(refreshErr, err)
	}
	c.bus.Publish(input.ProductID, invalidation.MovementDependents...)
	return created, refreshErr
}

// ResolveAlert resolves the alert server-side and applies the local
// split-merge in the alert store.
func (c *Coordinator) ResolveAlert(ctx context.Context, id string) (*alerts.Alert, error) {
	return c.alerts.Resolve(ctx, id)
}

// LoadDashboard issues the four fetches the dashboard joins over,
// combining any failures. Each store keeps its own error bookkeeping, so
// a partial failure still leaves every view renderable.
func (c *Coordinator) LoadDashboard(ctx context.Context) error {
	var errs error
	errs = multierr.Append(errs, c.products.Load(ctx, products.Filter{}))
	errs = multierr.Append(errs, c.categories.Load(ctx, categories.Filter{}))
	errs = multierr.Append(errs, c.inventory.LoadMovements(ctx, inventory.MovementFilter{}))
	errs = multierr.Append(errs, c.alerts.Load(ctx, alerts.Filter{}))
	return errs
}

// SubscribeRefreshers reloads the active alert view whenever a movement
// publishes its product id; the stock projection itself is refetched
// directly by RecordMovement. Returns a cancel function. Reloads run
// with their own background context; the UI event that published is
// long gone by the time they land.
func (c *Coordinator) SubscribeRefreshers() func() {
	return c.bus.Subscribe(invalidation.ResourceAlerts, func(productID string) {
		ctx := c.logg.WithField(context.Background(), "product_id", productID)
		active := false
		if err := c.alerts.Load(ctx, alerts.Filter{Resolved: &active}); err != nil {
			c.logg.Warn(ctx, "alert reload after movement failed")
		}
	})
}
