package ports

import (
	"context"

	"github.com/gigindia/marketplace/internal/core/domain"
)

// AuthRepository defines the interface for identity persistence.
type AuthRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	// Delete removes the user and, through the foreign keys, its profile rows.
	Delete(ctx context.Context, id string) error
}
