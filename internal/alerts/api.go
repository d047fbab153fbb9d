package alerts

import (
	"context"
	"fmt"
	"net/http"

	"github.com/inventrack/console/internal/api"
)

// API binds the alert and alert-rule endpoints onto the shared transport.
type API struct {
	http *api.Client
}

func NewAPI(client *api.Client) (*API, error) {
	if client == nil {
		return nil, fmt.Errorf("alerts api transport required")
	}
	return &API{http: client}, nil
}

func (a *API) List(ctx context.Context, filter Filter) ([]Alert, error) {
	return api.GetList[Alert](ctx, a.http, "/alerts", filter.Query())
}

func (a *API) Stats(ctx context.Context) (*Stats, error) {
	return api.GetOne[Stats](ctx, a.http, "/alerts/stats")
}

// Resolve calls the dedicated resolve endpoint, not the generic update.
// The response may carry the server-stamped alert; a missing payload is
// tolerated and the store falls back to its cached copy.
func (a *API) Resolve(ctx context.Context, id string) (*Alert, error) {
	var resolved Alert
	if err := a.http.Do(ctx, http.MethodPatch, "/alerts/"+id+"/resolve", nil, nil, &resolved); err != nil {
		return nil, err
	}
	return &resolved, nil
}

func (a *API) ListRules(ctx context.Context) ([]Rule, error) {
	return api.GetList[Rule](ctx, a.http, "/alerts/rules", nil)
}

func (a *API) GetRule(ctx context.Context, id string) (*Rule, error) {
	return api.GetOne[Rule](ctx, a.http, "/alerts/rules/"+id)
}

func (a *API) CreateRule(ctx context.Context, input CreateRuleInput) (*Rule, error) {
	return api.Post[Rule](ctx, a.http, "/alerts/rules", input)
}

func (a *API) UpdateRule(ctx context.Context, id string, input UpdateRuleInput) (*Rule, error) {
	return api.Patch[Rule](ctx, a.http, "/alerts/rules/"+id, input)
}

func (a *API) DeleteRule(ctx context.Context, id string) error {
	return api.Delete(ctx, a.http, "/alerts/rules/"+id)
}
