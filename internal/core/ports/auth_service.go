package ports

import (
	"context"

	"github.com/gigindia/marketplace/internal/core/domain"
)

// RegisterInput carries everything the registration flow collects.
type RegisterInput struct {
	Email    string
	Password string
	Name     string
	UserType domain.UserType
	Profile  domain.ProfileData
}

// RegisterResult is returned after the identity and its profile exist.
type RegisterResult struct {
	User    *domain.User
	Profile ProvisionResult
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*RegisterResult, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	Logout(ctx context.Context, session *domain.VerifiedSession) error
}
