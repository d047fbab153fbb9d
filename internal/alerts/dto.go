package alerts

import (
	"net/url"
	"strconv"
	"time"

	"github.com/inventrack/console/pkg/validate"
)

// Status is an alert's lifecycle state. The only transition is
// ACTIVE -> RESOLVED, and it is terminal.
type Status string

const (
	StatusActive   Status = "ACTIVE"
	StatusResolved Status = "RESOLVED"
)

// ProductRef is the product summary embedded in alert payloads.
type ProductRef struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
	SKU  string `json:"sku"`
}

// Alert is a low-stock alert raised server-side. CurrentStock is a
// snapshot taken when the alert was created, not a live figure; later
// movements do not retroactively change a fetched row.
type Alert struct {
	ID           string     `json:"_id"`
	ProductID    string     `json:"productId"`
	Product      ProductRef `json:"product"`
	Threshold    int        `json:"threshold"`
	CurrentStock int        `json:"currentStock"`
	Status       Status     `json:"status"`
	CreatedAt    time.Time  `json:"createdAt"`
	ResolvedAt   *time.Time `json:"resolvedAt,omitempty"`
}

// Rule configures the per-product low-stock threshold, one rule per
// product by convention.
type Rule struct {
	ID                string     `json:"_id"`
	ProductID         string     `json:"productId"`
	Product           ProductRef `json:"product"`
	MinStockThreshold int        `json:"minStockThreshold"`
	IsActive          bool       `json:"isActive"`
	CreatedAt         time.Time  `json:"createdAt"`
	UpdatedAt         time.Time  `json:"updatedAt"`
}

// CreateRuleInput is the validated payload to create a rule.
type CreateRuleInput struct {
	ProductID         string `json:"productId" validate:"required"`
	MinStockThreshold int    `json:"minStockThreshold" validate:"gt=0"`
	IsActive          *bool  `json:"isActive,omitempty"`
}

func (in CreateRuleInput) Validate() error {
	return validate.Struct(in)
}

// UpdateRuleInput holds optional mutation values for a rule.
type UpdateRuleInput struct {
	MinStockThreshold *int  `json:"minStockThreshold,omitempty" validate:"omitempty,gt=0"`
	IsActive          *bool `json:"isActive,omitempty"`
}

func (in UpdateRuleInput) Validate() error {
	return validate.Struct(in)
}

// Stats is the aggregate from GET /alerts/stats.
type Stats struct {
	TotalAlerts    int `json:"totalAlerts"`
	ActiveAlerts   int `json:"activeAlerts"`
	ResolvedAlerts int `json:"resolvedAlerts"`
}

// Filter scopes an alert list fetch. A nil Resolved loads everything.
type Filter struct {
	Resolved *bool
}

func (f Filter) Query() url.Values {
	q := url.Values{}
	if f.Resolved != nil {
		q.Set("resolved", strconv.FormatBool(*f.Resolved))
	}
	return q
}
