package categories

import (
	"net/url"
	"strconv"
	"time"

	"github.com/inventrack/console/pkg/validate"
)

type Category struct {
	ID          string    `json:"_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type CreateInput struct {
	Name        string `json:"name" validate:"required,min=3,max=50"`
	Description string `json:"description,omitempty" validate:"max=200"`
}

func (in CreateInput) Validate() error {
	return validate.Struct(in)
}

type UpdateInput struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=3,max=50"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=200"`
	IsActive    *bool   `json:"isActive,omitempty"`
}

func (in UpdateInput) Validate() error {
	return validate.Struct(in)
}

// Filter scopes a category list fetch.
type Filter struct {
	IncludeInactive bool
}

func (f Filter) Query() url.Values {
	q := url.Values{}
	if f.IncludeInactive {
		q.Set("includeInactive", strconv.FormatBool(true))
	}
	return q
}
