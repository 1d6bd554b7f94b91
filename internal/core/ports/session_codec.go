package ports

import (
	"context"
	"time"

	"github.com/gigindia/marketplace/internal/core/domain"
)

// SessionCodec issues and verifies the signed session credential.
type SessionCodec interface {
	Create(session domain.Session) (string, error)
	// Verify returns an error wrapping domain.ErrUnauthenticated for every
	// rejected token; it never panics on arbitrary input.
	Verify(token string) (*domain.VerifiedSession, error)
}

// SessionRevocations tracks credentials discarded before their expiry.
type SessionRevocations interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}
