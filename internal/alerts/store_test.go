package alerts

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/inventrack/console/internal/api"
	"github.com/inventrack/console/pkg/config"
	"github.com/inventrack/console/pkg/logger"
)

func testStore(t *testing.T, handler http.Handler) *Store {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	logg := logger.New(logger.Options{ServiceName: "test", Level: zerolog.Disabled, Output: io.Discard})
	client, err := api.NewClient(api.ClientParams{
		Config: config.APIConfig{BaseURL: ts.URL},
		Logger: logg,
	})
	require.NoError(t, err)
	alertAPI, err := NewAPI(client)
	require.NoError(t, err)
	store, err := NewStore(alertAPI)
	require.NoError(t, err)
	return store
}

func envelope(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"success": true, "data": data})
}

func TestLoadAllRebuildsSplitViews(t *testing.T) {
	alerts := []Alert{
		{ID: "a1", ProductID: "p1", Status: StatusActive},
		{ID: "a2", ProductID: "p2", Status: StatusResolved},
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/alerts", func(w http.ResponseWriter, r *http.Request) {
		envelope(w, alerts)
	})
	store := testStore(t, mux)

	require.NoError(t, store.Load(context.Background(), Filter{}))
	require.Len(t, store.Items(), 2)
	require.Len(t, store.Active(), 1)
	require.Equal(t, "a1", store.Active()[0].ID)
	require.Len(t, store.Resolved(), 1)
	require.Equal(t, "a2", store.Resolved()[0].ID)
}

func TestScopedLoadReplacesOnlyMatchingView(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/alerts", func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("resolved") {
		case "true":
			envelope(w, []Alert{{ID: "r1", Status: StatusResolved}})
		case "false":
			envelope(w, []Alert{{ID: "a1", Status: StatusActive}})
		default:
			envelope(w, []Alert{})
		}
	})
	store := testStore(t, mux)
	ctx := context.Background()

	active := false
	require.NoError(t, store.Load(ctx, Filter{Resolved: &active}))
	require.Len(t, store.Active(), 1)
	require.Empty(t, store.Resolved(), "resolved view untouched by a scoped active load")

	resolved := true
	require.NoError(t, store.Load(ctx, Filter{Resolved: &resolved}))
	require.Len(t, store.Resolved(), 1)
	require.Len(t, store.Active(), 1)
}

func TestResolveSplitMergeUsesServerTimestamp(t *testing.T) {
	serverStamp := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	mux := http.NewServeMux()
	mux.HandleFunc("/alerts", func(w http.ResponseWriter, r *http.Request) {
		envelope(w, []Alert{
			{ID: "a1", ProductID: "p1", Status: StatusActive},
			{ID: "a2", ProductID: "p2", Status: StatusActive},
		})
	})
	mux.HandleFunc("/alerts/a1/resolve", func(w http.ResponseWriter, r *http.Request) {
		envelope(w, Alert{ID: "a1", ProductID: "p1", Status: StatusResolved, ResolvedAt: &serverStamp})
	})
	store := testStore(t, mux)
	ctx := context.Background()

	require.NoError(t, store.Load(ctx, Filter{}))
	resolved, err := store.Resolve(ctx, "a1")
	require.NoError(t, err)
	require.Equal(t, StatusResolved, resolved.Status)
	require.NotNil(t, resolved.ResolvedAt)
	require.True(t, resolved.ResolvedAt.Equal(serverStamp))

	require.Len(t, store.Active(), 1, "resolved alert left the active view")
	require.Equal(t, "a2", store.Active()[0].ID)
	require.Len(t, store.Resolved(), 1)
	require.Len(t, store.Items(), 2, "full list keeps the row, restamped")
	for _, a := range store.Items() {
		if a.ID == "a1" {
			require.Equal(t, StatusResolved, a.Status)
		}
	}
}

func TestResolveStampsLocalClockWhenServerOmitsPayload(t *testing.T) {
	localStamp := time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC)
	mux := http.NewServeMux()
	mux.HandleFunc("/alerts", func(w http.ResponseWriter, r *http.Request) {
		envelope(w, []Alert{{ID: "a1", ProductID: "p1", Status: StatusActive}})
	})
	mux.HandleFunc("/alerts/a1/resolve", func(w http.ResponseWriter, r *http.Request) {
		envelope(w, map[string]any{})
	})
	store := testStore(t, mux)
	store.now = func() time.Time { return localStamp }
	ctx := context.Background()

	require.NoError(t, store.Load(ctx, Filter{}))
	resolved, err := store.Resolve(ctx, "a1")
	require.NoError(t, err)
	require.NotNil(t, resolved.ResolvedAt)
	require.True(t, resolved.ResolvedAt.Equal(localStamp))
}

func TestResolveIsDuplicateSafe(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/alerts", func(w http.ResponseWriter, r *http.Request) {
		envelope(w, []Alert{{ID: "a1", ProductID: "p1", Status: StatusActive}})
	})
	mux.HandleFunc("/alerts/a1/resolve", func(w http.ResponseWriter, r *http.Request) {
		envelope(w, Alert{ID: "a1", ProductID: "p1", Status: StatusResolved})
	})
	store := testStore(t, mux)
	ctx := context.Background()

	require.NoError(t, store.Load(ctx, Filter{}))
	_, err := store.Resolve(ctx, "a1")
	require.NoError(t, err)
	_, err = store.Resolve(ctx, "a1")
	require.NoError(t, err)

	require.Empty(t, store.Active())
	require.Len(t, store.Resolved(), 1, "second resolve does not duplicate the row")
	require.Len(t, store.Items(), 1)
}

func TestResolveFailureLeavesViewsIntact(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/alerts", func(w http.ResponseWriter, r *http.Request) {
		envelope(w, []Alert{{ID: "a1", ProductID: "p1", Status: StatusActive}})
	})
	mux.HandleFunc("/alerts/a1/resolve", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_ = json.NewEncoder(w).Encode(map[string]any{"success": false, "message": "alert already resolved"})
	})
	store := testStore(t, mux)
	ctx := context.Background()

	require.NoError(t, store.Load(ctx, Filter{}))
	_, err := store.Resolve(ctx, "a1")
	require.Error(t, err)
	require.Len(t, store.Active(), 1, "failed resolve leaves the active view alone")
	require.Empty(t, store.Resolved())
	require.Equal(t, "alert already resolved", store.Err())
}
