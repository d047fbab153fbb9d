package products

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/inventrack/console/internal/api"
	pkgerrors "github.com/inventrack/console/pkg/errors"
)

// API binds the product endpoints onto the shared transport.
type API struct {
	http *api.Client
}

func NewAPI(client *api.Client) (*API, error) {
	if client == nil {
		return nil, fmt.Errorf("products api transport required")
	}
	return &API{http: client}, nil
}

func (a *API) List(ctx context.Context, filter Filter) ([]Product, error) {
	return api.GetList[Product](ctx, a.http, "/products", filter.Query())
}

func (a *API) Get(ctx context.Context, id string) (*Product, error) {
	return api.GetOne[Product](ctx, a.http, "/products/"+id)
}

func (a *API) Create(ctx context.Context, input CreateInput) (*Product, error) {
	return api.Post[Product](ctx, a.http, "/products", input)
}

func (a *API) Update(ctx context.Context, id string, input UpdateInput) (*Product, error) {
	return api.Patch[Product](ctx, a.http, "/products/"+id, input)
}

func (a *API) Delete(ctx context.Context, id string) error {
	return api.Delete(ctx, a.http, "/products/"+id)
}

// validatePrice enforces a non-negative price with at most two decimal
// places, the same constraint the product form applies.
func validatePrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "price must not be negative")
	}
	if price.Exponent() < -2 && !price.Equal(price.Round(2)) {
		return pkgerrors.New(pkgerrors.CodeValidation, "price must have at most two decimal places")
	}
	return nil
}
