package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/gigindia/marketplace/internal/core/domain"
)

const (
	defaultSessionTTL    = 24 * time.Hour
	defaultSessionIssuer = "gigindia"
)

// sessionClaims is the wire form of the session credential.
type sessionClaims struct {
	UserID string `json:"id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// SessionCodec signs and verifies HS256 session tokens with a fixed TTL.
type SessionCodec struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// NewSessionCodec returns a codec keyed with secret. An empty secret is a
// configuration error and is reported, never replaced with a fallback key.
func NewSessionCodec(secret string, ttl time.Duration, issuer string) (*SessionCodec, error) {
	if secret == "" {
		return nil, domain.ErrSigningKeyMissing
	}
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	if issuer == "" {
		issuer = defaultSessionIssuer
	}
	return &SessionCodec{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

// WithClock replaces the time source used for both issuing and verifying.
func (c *SessionCodec) WithClock(now func() time.Time) *SessionCodec {
	clone := *c
	clone.now = now
	return &clone
}

// TTL is the validity window of issued tokens.
func (c *SessionCodec) TTL() time.Duration { return c.ttl }

// Create signs s into a token valid for the codec's TTL from now.
func (c *SessionCodec) Create(s domain.Session) (string, error) {
	if !s.Complete() {
		return "", domain.ErrSessionIncomplete
	}

	now := c.now().UTC()
	claims := sessionClaims{
		UserID: s.ID,
		Email:  s.Email,
		Name:   s.Name,
		Role:   s.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   s.ID,
			Issuer:    c.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(c.secret)
}

// Verify checks signature, algorithm, issuer and expiry. Every failure wraps
// domain.ErrUnauthenticated; the specific sentinel tells expired, forged and
// malformed tokens apart for logging.
func (c *SessionCodec) Verify(token string) (*domain.VerifiedSession, error) {
	if token == "" {
		return nil, domain.ErrSessionMalformed
	}

	claims := &sessionClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuer(c.issuer),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		return nil, classifyTokenError(err)
	}
	if !parsed.Valid {
		return nil, domain.ErrSessionMalformed
	}

	session := domain.Session{
		ID:    claims.UserID,
		Email: claims.Email,
		Name:  claims.Name,
		Role:  claims.Role,
	}
	if !session.Complete() {
		return nil, domain.ErrSessionMalformed
	}

	verified := &domain.VerifiedSession{
		Session: session,
		TokenID: claims.ID,
	}
	if claims.IssuedAt != nil {
		verified.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		verified.ExpiresAt = claims.ExpiresAt.Time
	}
	return verified, nil
}

func classifyTokenError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return domain.ErrSessionExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return domain.ErrSessionForged
	default:
		return domain.ErrSessionMalformed
	}
}
