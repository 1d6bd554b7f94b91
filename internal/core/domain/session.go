package domain

import (
	"errors"
	"fmt"
	"time"
)

// ErrUnauthenticated is the umbrella for every reason a session credential is rejected.
// Callers that do not care about the reason match on it with errors.Is.
var ErrUnauthenticated = errors.New("unauthenticated")

var (
	ErrSessionMalformed = fmt.Errorf("%w: malformed session token", ErrUnauthenticated)
	ErrSessionForged    = fmt.Errorf("%w: session signature mismatch", ErrUnauthenticated)
	ErrSessionExpired   = fmt.Errorf("%w: session expired", ErrUnauthenticated)
	ErrSessionRevoked   = fmt.Errorf("%w: session revoked", ErrUnauthenticated)
)

var (
	ErrSigningKeyMissing = errors.New("session signing key is not configured")
	ErrSessionIncomplete = errors.New("session requires id, email, name and role")
)

// Session is the payload carried by the signed session credential.
type Session struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

// Complete reports whether every payload field is set.
func (s Session) Complete() bool {
	return s.ID != "" && s.Email != "" && s.Name != "" && s.Role != ""
}

// VerifiedSession is a decoded credential together with its registered claims.
type VerifiedSession struct {
	Session
	TokenID   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// VerifyReason maps a verification error onto a short label used in logs and metrics.
func VerifyReason(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrSessionExpired):
		return "expired"
	case errors.Is(err, ErrSessionForged):
		return "forged"
	case errors.Is(err, ErrSessionRevoked):
		return "revoked"
	case errors.Is(err, ErrSessionMalformed):
		return "malformed"
	default:
		return "error"
	}
}
