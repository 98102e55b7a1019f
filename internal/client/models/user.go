package models

// Role is the authorization level of a board user.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// UserProfile is the identity of the logged-in user as returned by /auth/me.
type UserProfile struct {
	ID       string `json:"user_id"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
}

// User is a user record managed through the /users/ endpoints.
type User struct {
	ID        string `json:"user_id"`
	Username  string `json:"username"`
	Role      Role   `json:"role"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// UserCreate is the body of POST /users/.
type UserCreate struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     Role   `json:"role,omitempty"`
}

// UserUpdate is the body of PUT /users/{id}. Nil fields are left unchanged.
type UserUpdate struct {
	Username *string `json:"username,omitempty"`
	Password *string `json:"password,omitempty"`
	Role     *Role   `json:"role,omitempty"`
}
