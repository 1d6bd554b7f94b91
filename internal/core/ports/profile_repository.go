package ports

import (
	"context"

	"github.com/gigindia/marketplace/internal/core/domain"
)

// ProfileRepository is the privileged write path into the profile tables.
// It bypasses row-level access policy and must only be handed to provisioning.
type ProfileRepository interface {
	// FindByUserID returns domain.ErrProfileNotFound when no row matches.
	FindByUserID(ctx context.Context, userType domain.UserType, userID string) (*domain.ProfileRecord, error)
	// Insert returns domain.ErrProfileExists when the store rejects a second row
	// for the same user_id.
	Insert(ctx context.Context, userType domain.UserType, userID string, data domain.ProfileData) (*domain.ProfileRecord, error)
}

// AuditRepository persists provisioning audit events.
type AuditRepository interface {
	InsertProvisioningEvent(ctx context.Context, event *domain.ProvisioningEvent) error
}

// ProvisioningAuditor receives audit events; implementations must not block the caller for long.
type ProvisioningAuditor interface {
	Record(event domain.ProvisioningEvent)
}
