package domain

import (
	"errors"
	"time"
)

const (
	RoleFreelancer = "freelancer"
	RoleEmployer   = "employer"
	RoleAdmin      = "admin"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
	ErrForbidden          = errors.New("access forbidden")
)

// User models a registered identity.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	Role         string    `json:"role"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Session returns the session payload issued for u.
func (u *User) Session() Session {
	return Session{ID: u.ID, Email: u.Email, Name: u.Name, Role: u.Role}
}
