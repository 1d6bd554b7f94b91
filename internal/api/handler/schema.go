package handler

import (
	"time"

	"github.com/gigindia/marketplace/internal/core/domain"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Auth ---

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Success bool         `json:"success"`
	User    *domain.User `json:"user"`
	Token   string       `json:"token"`
}

type registerRequest struct {
	Email    string             `json:"email"     validate:"required,email"`
	Password string             `json:"password"  validate:"required,min=8"`
	Name     string             `json:"name"      validate:"required"`
	UserType string             `json:"user_type" validate:"required,oneof=freelancer employer"`
	Profile  domain.ProfileData `json:"profile"`
}

type registerResponse struct {
	Success bool                  `json:"success"`
	User    *domain.User          `json:"user"`
	Profile *domain.ProfileRecord `json:"profile,omitempty"`
}

type sessionResponse struct {
	User      domain.Session `json:"user"`
	IssuedAt  time.Time      `json:"issued_at"`
	ExpiresAt time.Time      `json:"expires_at"`
}

type successResponse struct {
	Success bool `json:"success"`
}

// --- Profiles ---

type provisionRequest struct {
	UserID   string             `json:"user_id"   validate:"required"`
	UserType string             `json:"user_type" validate:"required,oneof=freelancer employer"`
	Profile  domain.ProfileData `json:"profile"   validate:"required"`
}

type provisionResponse struct {
	Success bool                  `json:"success"`
	Data    *domain.ProfileRecord `json:"data,omitempty"`
	Error   string                `json:"error,omitempty"`
}
