package models

// Admin "inherits" from User via embedding. The distinguishing field is Role.
// By convention, Role is "admin" for admins and defaults to "user" for shoppers.
type Admin struct {
	User
}

// NewAdmin creates an admin model with Role preset to "admin".
func NewAdmin(name, email string) *Admin {
	return &Admin{User: User{Name: name, Email: email, Role: RoleAdmin}}
}
