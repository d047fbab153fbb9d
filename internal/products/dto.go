package products

import (
	"net/url"
	"time"

	"github.com/shopspring/decimal"

	"github.com/inventrack/console/pkg/validate"
)

// CategoryRef is the category summary embedded in product payloads.
type CategoryRef struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
}

// Product mirrors the backend's product payload. Stock is the
// server-computed projection; the client only displays it.
type Product struct {
	ID          string          `json:"_id"`
	Name        string          `json:"name"`
	SKU         string          `json:"sku"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Category    CategoryRef     `json:"categoryId"`
	Stock       int             `json:"stock"`
	IsActive    bool            `json:"isActive"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// CreateInput is the validated payload to create a product.
type CreateInput struct {
	Name        string          `json:"name" validate:"required,min=1,max=100"`
	SKU         string          `json:"sku" validate:"required,uppercase_sku"`
	Description string          `json:"description,omitempty" validate:"max=200"`
	Price       decimal.Decimal `json:"price"`
	CategoryID  string          `json:"categoryId" validate:"required"`
}

// Validate runs the pre-submission schema checks, including the price
// constraints the struct tags cannot express.
func (in CreateInput) Validate() error {
	if err := validate.Struct(in); err != nil {
		return err
	}
	return validatePrice(in.Price)
}

// UpdateInput holds optional mutation values for a product.
type UpdateInput struct {
	Name        *string          `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	SKU         *string          `json:"sku,omitempty" validate:"omitempty,uppercase_sku"`
	Description *string          `json:"description,omitempty" validate:"omitempty,max=200"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	CategoryID  *string          `json:"categoryId,omitempty"`
	IsActive    *bool            `json:"isActive,omitempty"`
}

func (in UpdateInput) Validate() error {
	if err := validate.Struct(in); err != nil {
		return err
	}
	if in.Price != nil {
		return validatePrice(*in.Price)
	}
	return nil
}

// Filter scopes a product list fetch.
type Filter struct {
	Name       string
	SKU        string
	CategoryID string
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal
}

// Query renders the filter as request parameters, omitting unset fields.
func (f Filter) Query() url.Values {
	q := url.Values{}
	if f.Name != "" {
		q.Set("name", f.Name)
	}
	if f.SKU != "" {
		q.Set("sku", f.SKU)
	}
	if f.CategoryID != "" {
		q.Set("categoryId", f.CategoryID)
	}
	if f.MinPrice != nil {
		q.Set("minPrice", f.MinPrice.String())
	}
	if f.MaxPrice != nil {
		q.Set("maxPrice", f.MaxPrice.String())
	}
	return q
}
