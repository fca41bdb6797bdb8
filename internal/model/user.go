package model

import "time"

// RoleAdmin may modify and delete user accounts.
const RoleAdmin = "admin"

// DefaultRole is assigned to users registered without a role.
const DefaultRole = RoleAdmin

// User is an operator account. PasswordHash never leaves the process.
type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"nombre"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"rol"`
	CreatedAt    time.Time `json:"creado_en"`
}

// UserSummary is the public projection of a user.
type UserSummary struct {
	ID    int64  `json:"id"`
	Name  string `json:"nombre"`
	Email string `json:"email"`
	Role  string `json:"rol,omitempty"`
}

// Summary returns the public projection of u.
func (u *User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}
