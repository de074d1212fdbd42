package model

import (
	"time"

	"github.com/secmon-lab/warden/pkg/domain/types"
)

// User represents an analyst account. PasswordHash is a bcrypt hash and is
// never serialized to API responses.
type User struct {
	ID            types.UserID     `json:"id"`
	Email         string           `json:"email"`
	PersonalEmail string           `json:"personalEmail"`
	PasswordHash  string           `json:"-"`
	Role          types.Role       `json:"role"`
	Status        types.UserStatus `json:"status"`
	Department    types.Department `json:"department"`
	CreatedAt     time.Time        `json:"createdAt"`
}

// NewUser creates a new User instance with the given attributes
func NewUser(email, personalEmail, passwordHash string, role types.Role, status types.UserStatus, dept types.Department) *User {
	return &User{
		ID:            types.NewUserID(),
		Email:         email,
		PersonalEmail: personalEmail,
		PasswordHash:  passwordHash,
		Role:          role,
		Status:        status,
		Department:    dept,
		CreatedAt:     time.Now(),
	}
}

// IsActive reports whether the account can sign in
func (u *User) IsActive() bool {
	return u.Status == types.UserStatusActive
}
