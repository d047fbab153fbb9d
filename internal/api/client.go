package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/inventrack/console/pkg/config"
	pkgerrors "github.com/inventrack/console/pkg/errors"
	"github.com/inventrack/console/pkg/logger"
	"github.com/inventrack/console/pkg/metrics"
)

// TokenSource supplies the bearer token attached to every request. An
// empty token means the request goes out unauthenticated.
type TokenSource interface {
	Token() string
}

// UnauthorizedHook runs once per 401 response, regardless of which call
// triggered it. Session teardown hangs off this hook so authorization
// failures are handled at the transport layer, not per store.
type UnauthorizedHook func(ctx context.Context)

// Client is the thin REST client every entity store fetches through. It
// centralizes bearer auth, envelope normalization, error mapping, and
// request logging.
type Client struct {
	baseURL        *url.URL
	httpClient     *http.Client
	tokens         TokenSource
	onUnauthorized UnauthorizedHook
	logg           *logger.Logger
	metrics        *metrics.RequestMetrics
}

// ClientParams wires the transport dependencies.
type ClientParams struct {
	Config     config.APIConfig
	HTTPClient *http.Client
	Tokens     TokenSource
	Logger     *logger.Logger
	Metrics    *metrics.RequestMetrics
}

// NewClient validates the wiring and returns a ready transport.
func NewClient(params ClientParams) (*Client, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("api client logger required")
	}
	base, err := url.Parse(strings.TrimSuffix(params.Config.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parsing api base url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("api base url %q is not absolute", params.Config.BaseURL)
	}

	httpClient := params.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: params.Config.Timeout}
	}

	return &Client{
		baseURL:    base,
		httpClient: httpClient,
		tokens:     params.Tokens,
		logg:       params.Logger,
		metrics:    params.Metrics,
	}, nil
}

// SetUnauthorizedHook registers the global 401 handler.
func (c *Client) SetUnauthorizedHook(hook UnauthorizedHook) {
	c.onUnauthorized = hook
}

// Do issues one request and decodes the response payload into dest,
// unwrapping the {success,data} envelope when the endpoint uses one.
// A nil dest discards the body.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body, dest any) error {
	endpoint := *c.baseURL
	endpoint.Path = strings.TrimSuffix(endpoint.Path, "/") + path
	if query != nil {
		endpoint.RawQuery = query.Encode()
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encoding request body")
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint.String(), reader)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "building request")
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)
	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	ctx = c.logg.WithRequestID(ctx, requestID)
	c.logg.Debug(c.logg.WithFields(ctx, map[string]any{
		"method": method,
		"path":   path,
	}), "api request")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.observe(method, path, "transport", start)
		c.logg.Error(ctx, "api request failed", err)
		return pkgerrors.Wrap(pkgerrors.CodeTransport, err, "")
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		c.observe(method, path, "transport", start)
		return pkgerrors.Wrap(pkgerrors.CodeTransport, err, "reading response")
	}

	if resp.StatusCode == http.StatusUnauthorized {
		c.observe(method, path, "unauthorized", start)
		c.logg.Warn(ctx, "unauthorized response, tearing down session")
		if c.onUnauthorized != nil {
			c.onUnauthorized(ctx)
		}
		return statusError(resp.StatusCode, payload)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.observe(method, path, "error", start)
		c.logg.Warn(c.logg.WithFields(ctx, map[string]any{
			"status": resp.StatusCode,
		}), "api request rejected")
		return statusError(resp.StatusCode, payload)
	}

	c.observe(method, path, "success", start)
	if dest == nil {
		return nil
	}
	if err := decodePayload(payload, dest); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDecode, err, "")
	}
	return nil
}

func (c *Client) observe(method, path, outcome string, start time.Time) {
	c.metrics.Observe(method, path, outcome, time.Since(start))
}

func statusError(status int, payload []byte) error {
	return pkgerrors.New(pkgerrors.FromStatus(status), errorMessage(payload))
}
