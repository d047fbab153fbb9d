package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/inventrack/console/pkg/config"
	pkgerrors "github.com/inventrack/console/pkg/errors"
	"github.com/inventrack/console/pkg/logger"
)

type staticTokens string

func (s staticTokens) Token() string { return string(s) }

func newTestClient(t *testing.T, serverURL string, tokens TokenSource) *Client {
	t.Helper()
	client, err := NewClient(ClientParams{
		Config: config.APIConfig{BaseURL: serverURL, Timeout: 5 * time.Second},
		Tokens: tokens,
		Logger: logger.New(logger.Options{ServiceName: "test"}),
	})
	if err != nil {
		t.Fatalf("building client: %v", err)
	}
	return client
}

func TestBearerTokenAttached(t *testing.T) {
	var gotAuth, gotRequestID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotRequestID = r.Header.Get("X-Request-ID")
		w.Write([]byte(`{"success":true,"data":[]}`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL, staticTokens("tok-123"))
	if _, err := GetList[map[string]any](context.Background(), client, "/products", nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotAuth != "Bearer tok-123" {
		t.Fatalf("expected bearer header, got %q", gotAuth)
	}
	if gotRequestID == "" {
		t.Fatal("expected a request id header")
	}
}

func TestEnvelopeAndBareArrayBothDecode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/wrapped":
			w.Write([]byte(`{"success":true,"data":[{"_id":"a"}]}`))
		case "/bare":
			w.Write([]byte(`[{"_id":"b"}]`))
		}
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL, nil)

	wrapped, err := GetList[map[string]string](context.Background(), client, "/wrapped", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	bare, err := GetList[map[string]string](context.Background(), client, "/bare", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(wrapped) != 1 || wrapped[0]["_id"] != "a" {
		t.Fatalf("unexpected wrapped payload %v", wrapped)
	}
	if len(bare) != 1 || bare[0]["_id"] != "b" {
		t.Fatalf("unexpected bare payload %v", bare)
	}
}

func TestUnauthorizedFiresHookOnce(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"success":false,"message":"token expired"}`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL, staticTokens("stale"))
	calls := 0
	client.SetUnauthorizedHook(func(ctx context.Context) { calls++ })

	_, err := GetList[map[string]any](context.Background(), client, "/alerts", nil)
	if err == nil {
		t.Fatal("expected error")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized code, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected hook to fire once, fired %d times", calls)
	}
	if pkgerrors.UserMessage(err, "") != "token expired" {
		t.Fatalf("expected server message, got %q", pkgerrors.UserMessage(err, ""))
	}
}

func TestServerErrorCollapsesToMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"success":false,"message":"quantity must be positive"}`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL, nil)
	err := client.Do(context.Background(), http.MethodPost, "/inventory", nil, map[string]any{}, nil)
	if err == nil {
		t.Fatal("expected error")
	}
	typed := pkgerrors.As(err)
	if typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation code, got %s", typed.Code())
	}
	if typed.Message() != "quantity must be positive" {
		t.Fatalf("unexpected message %q", typed.Message())
	}
}

func TestTransportErrorHasCode(t *testing.T) {
	client := newTestClient(t, "http://127.0.0.1:1", nil)
	_, err := GetOne[map[string]any](context.Background(), client, "/products/x")
	if err == nil {
		t.Fatal("expected error")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeTransport {
		t.Fatalf("expected transport code, got %v", err)
	}
}
