package models

// Role distinguishes regular shoppers from administrators.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// User represents a shopper known to this installation.
// It maps to the `users` table in SQLite. PasswordHash is only set for locally
// registered accounts; Token holds the last session token issued for the user.
type User struct {
	ID           int64  `db:"id" json:"id"`
	Name         string `db:"name" json:"name"`
	Email        string `db:"email" json:"email"`
	Phone        string `db:"phone" json:"phone,omitempty"`
	PasswordHash string `db:"password_hash" json:"-"`
	Token        string `db:"token" json:"-"`
	Role         Role   `db:"role" json:"role"`
	CreatedAt    string `db:"created_at" json:"created_at"`
}

// IsAdmin reports whether the user carries the admin role.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}
