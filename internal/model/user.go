package model

import "time"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// ValidRole reports whether role belongs to the closed role set.
func ValidRole(role string) bool {
	return role == RoleUser || role == RoleAdmin
}

// User represents an identity record in the system
type User struct {
	ID            int        `json:"id"`
	Email         string     `json:"email"`
	PasswordHash  string     `json:"-"` // Do not expose password hash in JSON responses
	FullName      string     `json:"fullName"`
	Role          string     `json:"role"`
	Qualification *string    `json:"qualification,omitempty"`
	DateOfBirth   *time.Time `json:"dateOfBirth,omitempty"`
	IsActive      bool       `json:"isActive"`
	LastLogin     *time.Time `json:"lastLogin,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}
