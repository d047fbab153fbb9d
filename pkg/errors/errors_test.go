package errors

import (
	"fmt"
	"net/http"
	"testing"
)

func TestFromStatus(t *testing.T) {
	tests := []struct {
		status int
		code   Code
	}{
		{http.StatusBadRequest, CodeValidation},
		{http.StatusUnprocessableEntity, CodeValidation},
		{http.StatusUnauthorized, CodeUnauthorized},
		{http.StatusForbidden, CodeForbidden},
		{http.StatusNotFound, CodeNotFound},
		{http.StatusConflict, CodeConflict},
		{http.StatusTooManyRequests, CodeRateLimit},
		{http.StatusBadGateway, CodeUnavailable},
		{http.StatusServiceUnavailable, CodeUnavailable},
		{http.StatusInternalServerError, CodeServer},
		{http.StatusTeapot, CodeInternal},
	}
	for _, tt := range tests {
		if got := FromStatus(tt.status); got != tt.code {
			t.Fatalf("status %d expected %s got %s", tt.status, tt.code, got)
		}
	}
}

func TestAsUnwrapsWrappedErrors(t *testing.T) {
	base := New(CodeNotFound, "product not found")
	wrapped := fmt.Errorf("loading product: %w", base)

	typed := As(wrapped)
	if typed == nil {
		t.Fatal("expected typed error")
	}
	if typed.Code() != CodeNotFound {
		t.Fatalf("expected %s got %s", CodeNotFound, typed.Code())
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		fallback string
		want     string
	}{
		{"nil error", nil, "fallback", ""},
		{"server message wins", New(CodeValidation, "sku already exists"), "fallback", "sku already exists"},
		{"empty message uses code metadata", New(CodeUnauthorized, ""), "fallback", "authentication required"},
		{"untyped error uses fallback", fmt.Errorf("dial tcp: refused"), "could not load products", "could not load products"},
		{"untyped error without fallback", fmt.Errorf("dial tcp: refused"), "", "dial tcp: refused"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err, tt.fallback); got != tt.want {
				t.Fatalf("expected %q got %q", tt.want, got)
			}
		})
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := fmt.Errorf("underlying")
	err := Wrap(CodeTransport, cause, "request failed")
	if err.Unwrap() != cause {
		t.Fatal("expected cause to be preserved")
	}
	if err.Error() != "TRANSPORT_ERROR: request failed" {
		t.Fatalf("unexpected error string %q", err.Error())
	}
}
