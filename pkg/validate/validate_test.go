package validate

import (
	"testing"

	pkgerrors "github.com/inventrack/console/pkg/errors"
)

type sample struct {
	Name string `json:"name" validate:"required,min=3,max=50"`
	SKU  string `json:"sku" validate:"required,uppercase_sku"`
	Qty  int    `json:"quantity" validate:"gt=0"`
}

func TestStructPasses(t *testing.T) {
	if err := Struct(sample{Name: "Widget", SKU: "WID-001", Qty: 5}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestStructCollectsFieldFailures(t *testing.T) {
	err := Struct(sample{Name: "ab", SKU: "wid-001", Qty: 0})
	if err == nil {
		t.Fatal("expected error")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation code, got %v", err)
	}
	details, ok := typed.Details().(map[string]string)
	if !ok {
		t.Fatalf("expected details map, got %T", typed.Details())
	}
	for _, field := range []string{"name", "sku", "quantity"} {
		if _, present := details[field]; !present {
			t.Fatalf("expected detail for %q, got %v", field, details)
		}
	}
}

func TestSKUValidator(t *testing.T) {
	tests := []struct {
		sku string
		ok  bool
	}{
		{"ABC-123", true},
		{"A1", true},
		{"abc-123", false},
		{"ABC 123", false},
		{"", false},
	}
	for _, tt := range tests {
		err := Struct(struct {
			SKU string `json:"sku" validate:"uppercase_sku"`
		}{SKU: tt.sku})
		if tt.ok && err != nil {
			t.Fatalf("sku %q: unexpected error %v", tt.sku, err)
		}
		if !tt.ok && err == nil {
			t.Fatalf("sku %q: expected error", tt.sku)
		}
	}
}
