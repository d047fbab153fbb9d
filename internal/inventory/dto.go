package inventory

import (
	"net/url"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/inventrack/console/pkg/validate"
)

// MovementType classifies a stock movement.
type MovementType string

const (
	MovementIn         MovementType = "IN"
	MovementOut        MovementType = "OUT"
	MovementAdjustment MovementType = "ADJUSTMENT"
)

// ProductRef is the product summary embedded in movement payloads.
type ProductRef struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
	SKU  string `json:"sku"`
}

// UserRef identifies the user who recorded a movement.
type UserRef struct {
	ID    string `json:"_id"`
	Email string `json:"email"`
}

// Movement is an append-only stock change record. There is no update or
// delete; appending movements is the sole mechanism that changes stock,
// and the aggregate is always computed server-side.
type Movement struct {
	ID        string       `json:"_id"`
	ProductID string       `json:"productId"`
	Product   ProductRef   `json:"product"`
	Type      MovementType `json:"type"`
	Quantity  int          `json:"quantity"`
	Reason    string       `json:"reason,omitempty"`
	UserID    string       `json:"userId"`
	User      UserRef      `json:"user"`
	CreatedAt time.Time    `json:"createdAt"`
}

// CreateMovementInput is the validated payload to record a movement.
type CreateMovementInput struct {
	ProductID string       `json:"productId" validate:"required"`
	Type      MovementType `json:"type" validate:"required,oneof=IN OUT ADJUSTMENT"`
	Quantity  int          `json:"quantity" validate:"gt=0"`
	Reason    string       `json:"reason,omitempty" validate:"max=200"`
}

func (in CreateMovementInput) Validate() error {
	return validate.Struct(in)
}

// MovementTotals summarizes a product's movement history.
type MovementTotals struct {
	Total       int `json:"total"`
	In          int `json:"in"`
	Out         int `json:"out"`
	Adjustments int `json:"adjustments"`
}

// ItemProductRef is the richer product summary on inventory projections.
type ItemProductRef struct {
	ID       string          `json:"_id"`
	Name     string          `json:"name"`
	SKU      string          `json:"sku"`
	Price    decimal.Decimal `json:"price"`
	Category struct {
		ID   string `json:"_id"`
		Name string `json:"name"`
	} `json:"categoryId"`
}

// Item is the server's read projection of a product's stock. It is never
// mutated directly from the client; it goes stale whenever a movement
// referencing its product is created and is then refetched.
type Item struct {
	ID           string         `json:"_id,omitempty"`
	ProductID    string         `json:"productId"`
	Product      ItemProductRef `json:"product"`
	CurrentStock int            `json:"currentStock"`
	LastMovement *time.Time     `json:"lastMovement,omitempty"`
	Movements    MovementTotals `json:"movements"`
}

// MovementFilter scopes a movement list fetch.
type MovementFilter struct {
	ProductID string
	Type      MovementType
	StartDate *time.Time
	EndDate   *time.Time
}

func (f MovementFilter) Query() url.Values {
	q := url.Values{}
	if f.ProductID != "" {
		q.Set("productId", f.ProductID)
	}
	if f.Type != "" {
		q.Set("type", string(f.Type))
	}
	if f.StartDate != nil {
		q.Set("startDate", f.StartDate.Format(time.RFC3339))
	}
	if f.EndDate != nil {
		q.Set("endDate", f.EndDate.Format(time.RFC3339))
	}
	return q
}

// StockFilter scopes an inventory projection fetch.
type StockFilter struct {
	ProductName string
	CategoryID  string
	MinStock    *int
	MaxStock    *int
}

func (f StockFilter) Query() url.Values {
	q := url.Values{}
	if f.ProductName != "" {
		q.Set("productName", f.ProductName)
	}
	if f.CategoryID != "" {
		q.Set("categoryId", f.CategoryID)
	}
	if f.MinStock != nil {
		q.Set("minStock", strconv.Itoa(*f.MinStock))
	}
	if f.MaxStock != nil {
		q.Set("maxStock", strconv.Itoa(*f.MaxStock))
	}
	return q
}
