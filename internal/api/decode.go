package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/inventrack/console/pkg/types"
)

func decodePayload(body []byte, dest any) error {
	return types.DecodePayload(body, dest)
}

func errorMessage(body []byte) string {
	return types.ErrorMessage(body)
}

// GetList fetches a filtered collection.
func GetList[T any](ctx context.Context, c *Client, path string, query url.Values) ([]T, error) {
	var out []T
	if err := c.Do(ctx, http.MethodGet, path, query, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetOne fetches a single entity.
func GetOne[T any](ctx context.Context, c *Client, path string) (*T, error) {
	var out T
	if err := c.Do(ctx, http.MethodGet, path, nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Post submits a creation payload and decodes the created entity.
func Post[T any](ctx context.Context, c *Client, path string, body any) (*T, error) {
	var out T
	if err := c.Do(ctx, http.MethodPost, path, nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Patch submits a partial update and decodes the updated entity.
func Patch[T any](ctx context.Context, c *Client, path string, body any) (*T, error) {
	var out T
	if err := c.Do(ctx, http.MethodPatch, path, nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete issues a deletion and discards the response body.
func Delete(ctx context.Context, c *Client, path string) error {
	return c.Do(ctx, http.MethodDelete, path, nil, nil, nil)
}
