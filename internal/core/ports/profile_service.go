package ports

import (
	"context"

	"github.com/gigindia/marketplace/internal/core/domain"
)

// ProvisionResult is the outcome of a provisioning call. Err is the typed
// cause for transport mapping and is never serialized.
type ProvisionResult struct {
	Success bool                  `json:"success"`
	Data    *domain.ProfileRecord `json:"data,omitempty"`
	Error   string                `json:"error,omitempty"`
	Err     error                 `json:"-"`
}

// ProfileService defines the profile use cases.
type ProfileService interface {
	Provision(ctx context.Context, userID string, data domain.ProfileData, userType domain.UserType) ProvisionResult
	Get(ctx context.Context, userType domain.UserType, userID string) (*domain.ProfileRecord, error)
}
