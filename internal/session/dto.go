package session

import (
	"time"

	"github.com/inventrack/console/pkg/validate"
)

// Role is the backend's coarse authorization level.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleStaff Role = "staff"
)

// User is the authenticated profile.
type User struct {
	ID        string    `json:"_id"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

// Credentials is the validated login/register payload.
type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

func (c Credentials) Validate() error {
	return validate.Struct(c)
}

// AuthPayload is the {token,user} pair login and register return.
type AuthPayload struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// Session is a read-only snapshot of the auth state.
type Session struct {
	User           *User
	Authenticated  bool
	TokenExpiresAt *time.Time
	Loading        bool
	Err            string
}
