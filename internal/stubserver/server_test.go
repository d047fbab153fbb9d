package stubserver

import (
	"context"
	"io"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/inventrack/console/internal/alerts"
	"github.com/inventrack/console/internal/api"
	"github.com/inventrack/console/internal/categories"
	"github.com/inventrack/console/internal/emails"
	"github.com/inventrack/console/internal/inventory"
	"github.com/inventrack/console/internal/products"
	"github.com/inventrack/console/internal/session"
	"github.com/inventrack/console/pkg/config"
	pkgerrors "github.com/inventrack/console/pkg/errors"
	"github.com/inventrack/console/pkg/logger"
)

type staticToken struct{ token string }

func (t *staticToken) Token() string { return t.token }

func testClient(t *testing.T) (*api.Client, *staticToken, *Server) {
	t.Helper()
	logg := logger.New(logger.Options{ServiceName: "test", Level: zerolog.Disabled, Output: io.Discard})
	server := New(logg)
	ts := httptest.NewServer(server.Handler(prometheus.NewRegistry()))
	t.Cleanup(ts.Close)

	tokens := &staticToken{}
	client, err := api.NewClient(api.ClientParams{
		Config: config.APIConfig{BaseURL: ts.URL},
		Tokens: tokens,
		Logger: logg,
	})
	require.NoError(t, err)
	return client, tokens, server
}

func signIn(t *testing.T, client *api.Client, tokens *staticToken) session.User {
	t.Helper()
	payload, err := api.Post[session.AuthPayload](context.Background(), client, "/auth/register", session.Credentials{
		Email:    "ops@example.com",
		Password: "secret1",
	})
	require.NoError(t, err)
	tokens.token = payload.Token
	return payload.User
}

func createProduct(t *testing.T, client *api.Client, initialStock int) products.Product {
	t.Helper()
	ctx := context.Background()
	cat, err := api.Post[categories.Category](ctx, client, "/categories", categories.CreateInput{Name: "Widgets"})
	require.NoError(t, err)
	prod, err := api.Post[products.Product](ctx, client, "/products", products.CreateInput{
		Name:       "Widget",
		SKU:        "WID-001",
		CategoryID: cat.ID,
	})
	require.NoError(t, err)
	if initialStock > 0 {
		_, err = api.Post[inventory.Movement](ctx, client, "/inventory", inventory.CreateMovementInput{
			ProductID: prod.ID,
			Type:      inventory.MovementIn,
			Quantity:  initialStock,
		})
		require.NoError(t, err)
	}
	return *prod
}

func TestAuthRoundTrip(t *testing.T) {
	client, tokens, _ := testClient(t)
	ctx := context.Background()

	user := signIn(t, client, tokens)
	require.Equal(t, session.RoleAdmin, user.Role, "first account is admin")

	var me struct {
		User session.User `json:"user"`
	}
	require.NoError(t, client.Do(ctx, "GET", "/auth/me", nil, nil, &me))
	require.Equal(t, user.ID, me.User.ID)

	payload, err := api.Post[session.AuthPayload](ctx, client, "/auth/login", session.Credentials{
		Email:    "ops@example.com",
		Password: "secret1",
	})
	require.NoError(t, err)
	require.NotEmpty(t, payload.Token)
}

func TestRequestsWithoutTokenAreUnauthorized(t *testing.T) {
	client, _, _ := testClient(t)
	_, err := api.GetList[products.Product](context.Background(), client, "/products", nil)
	require.Error(t, err)
	coded := pkgerrors.As(err)
	require.NotNil(t, coded)
	require.Equal(t, pkgerrors.CodeUnauthorized, coded.Code())
}

func TestMovementBelowThresholdRaisesAlertAndEmail(t *testing.T) {
	client, tokens, _ := testClient(t)
	ctx := context.Background()
	signIn(t, client, tokens)
	prod := createProduct(t, client, 20)

	_, err := api.Post[alerts.Rule](ctx, client, "/alerts/rules", alerts.CreateRuleInput{
		ProductID:         prod.ID,
		MinStockThreshold: 10,
	})
	require.NoError(t, err)

	// 20 - 15 = 5, below the threshold of 10
	_, err = api.Post[inventory.Movement](ctx, client, "/inventory", inventory.CreateMovementInput{
		ProductID: prod.ID,
		Type:      inventory.MovementOut,
		Quantity:  15,
	})
	require.NoError(t, err)

	raised, err := api.GetList[alerts.Alert](ctx, client, "/alerts", url.Values{"resolved": {"false"}})
	require.NoError(t, err)
	require.Len(t, raised, 1)
	require.Equal(t, alerts.StatusActive, raised[0].Status)
	require.Equal(t, 5, raised[0].CurrentStock, "snapshot taken at raise time")
	require.Equal(t, 10, raised[0].Threshold)

	log, err := api.GetList[emails.Email](ctx, client, "/emails", nil)
	require.NoError(t, err)
	require.Len(t, log, 1)
	require.Equal(t, emails.TypeLowStockAlert, log[0].Type)

	// replenish above the threshold; the active alert auto-resolves
	_, err = api.Post[inventory.Movement](ctx, client, "/inventory", inventory.CreateMovementInput{
		ProductID: prod.ID,
		Type:      inventory.MovementIn,
		Quantity:  10,
	})
	require.NoError(t, err)

	all, err := api.GetList[alerts.Alert](ctx, client, "/alerts", nil)
	require.NoError(t, err)
	require.Len(t, all, 1)
	require.Equal(t, alerts.StatusResolved, all[0].Status)
	require.NotNil(t, all[0].ResolvedAt)

	log, err = api.GetList[emails.Email](ctx, client, "/emails", nil)
	require.NoError(t, err)
	require.Len(t, log, 2)
	require.Equal(t, emails.TypeStockReplenished, log[0].Type, "newest first")
}

func TestOutMovementBeyondStockIsRejected(t *testing.T) {
	client, tokens, _ := testClient(t)
	signIn(t, client, tokens)
	prod := createProduct(t, client, 3)

	_, err := api.Post[inventory.Movement](context.Background(), client, "/inventory", inventory.CreateMovementInput{
		ProductID: prod.ID,
		Type:      inventory.MovementOut,
		Quantity:  5,
	})
	require.Error(t, err)
	coded := pkgerrors.As(err)
	require.NotNil(t, coded)
	require.Equal(t, pkgerrors.CodeValidation, coded.Code())
}

func TestStockProjectionCountsMovements(t *testing.T) {
	client, tokens, _ := testClient(t)
	ctx := context.Background()
	signIn(t, client, tokens)
	prod := createProduct(t, client, 10)

	_, err := api.Post[inventory.Movement](ctx, client, "/inventory", inventory.CreateMovementInput{
		ProductID: prod.ID, Type: inventory.MovementOut, Quantity: 4,
	})
	require.NoError(t, err)
	_, err = api.Post[inventory.Movement](ctx, client, "/inventory", inventory.CreateMovementInput{
		ProductID: prod.ID, Type: inventory.MovementAdjustment, Quantity: 8,
	})
	require.NoError(t, err)

	item, err := api.GetOne[inventory.Item](ctx, client, "/inventory/stock/"+prod.ID)
	require.NoError(t, err)
	require.Equal(t, 8, item.CurrentStock, "adjustment sets the absolute level")
	require.Equal(t, 3, item.Movements.Total)
	require.Equal(t, 1, item.Movements.In)
	require.Equal(t, 1, item.Movements.Out)
	require.Equal(t, 1, item.Movements.Adjustments)
	require.NotNil(t, item.LastMovement)
}

func TestRulesListingIsBareButClientNormalizes(t *testing.T) {
	client, tokens, _ := testClient(t)
	ctx := context.Background()
	signIn(t, client, tokens)
	prod := createProduct(t, client, 0)

	_, err := api.Post[alerts.Rule](ctx, client, "/alerts/rules", alerts.CreateRuleInput{
		ProductID:         prod.ID,
		MinStockThreshold: 5,
	})
	require.NoError(t, err)

	rules, err := api.GetList[alerts.Rule](ctx, client, "/alerts/rules", nil)
	require.NoError(t, err)
	require.Len(t, rules, 1)
	require.Equal(t, prod.ID, rules[0].ProductID)
}

func TestResolvingResolvedAlertConflicts(t *testing.T) {
	client, tokens, _ := testClient(t)
	ctx := context.Background()
	signIn(t, client, tokens)
	prod := createProduct(t, client, 20)

	_, err := api.Post[alerts.Rule](ctx, client, "/alerts/rules", alerts.CreateRuleInput{
		ProductID:         prod.ID,
		MinStockThreshold: 10,
	})
	require.NoError(t, err)
	_, err = api.Post[inventory.Movement](ctx, client, "/inventory", inventory.CreateMovementInput{
		ProductID: prod.ID, Type: inventory.MovementOut, Quantity: 15,
	})
	require.NoError(t, err)

	raised, err := api.GetList[alerts.Alert](ctx, client, "/alerts", nil)
	require.NoError(t, err)
	require.Len(t, raised, 1)

	resolved, err := api.Patch[alerts.Alert](ctx, client, "/alerts/"+raised[0].ID+"/resolve", nil)
	require.NoError(t, err)
	require.Equal(t, alerts.StatusResolved, resolved.Status)

	_, err = api.Patch[alerts.Alert](ctx, client, "/alerts/"+raised[0].ID+"/resolve", nil)
	require.Error(t, err)
	coded := pkgerrors.As(err)
	require.NotNil(t, coded)
	require.Equal(t, pkgerrors.CodeConflict, coded.Code())
}
