package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/gigindia/marketplace/internal/api/metrics"
	"github.com/gigindia/marketplace/internal/core/domain"
	"github.com/gigindia/marketplace/internal/core/ports"
)

// AuthService implements registration, login and logout.
type AuthService struct {
	repo        ports.AuthRepository
	profiles    ports.ProfileService
	codec       ports.SessionCodec
	revocations ports.SessionRevocations
	log         zerolog.Logger
	now         func() time.Time
}

// NewAuthService wires the identity store, provisioning and the session codec.
// revocations may be nil, in which case logout only clears the cookie.
func NewAuthService(
	repo ports.AuthRepository,
	profiles ports.ProfileService,
	codec ports.SessionCodec,
	revocations ports.SessionRevocations,
	log zerolog.Logger,
) *AuthService {
	return &AuthService{
		repo:        repo,
		profiles:    profiles,
		codec:       codec,
		revocations: revocations,
		log:         log,
		now:         time.Now,
	}
}

// Register creates the identity and then provisions its role profile.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*ports.RegisterResult, error) {
	email := normalizeEmail(in.Email)
	name := strings.TrimSpace(in.Name)
	if email == "" || in.Password == "" || name == "" {
		return nil, domain.ErrInvalidCredentials
	}
	if !in.UserType.Valid() {
		return nil, fmt.Errorf("register: %w: user type must be freelancer or employer", domain.ErrValidation)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	user, err := s.repo.Create(ctx, &domain.User{
		Email:        email,
		Name:         name,
		Role:         string(in.UserType),
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return nil, err
	}

	profile := make(domain.ProfileData, len(in.Profile)+2)
	for k, v := range in.Profile {
		profile[k] = v
	}
	if profile.String("full_name") == "" {
		profile["full_name"] = name
	}
	if profile.String("display_name") == "" {
		profile["display_name"] = name
	}

	result := s.profiles.Provision(ctx, user.ID, profile, in.UserType)
	if !result.Success {
		s.log.Error().Str("user_id", user.ID).Str("error", result.Error).Msg("profile provisioning failed during registration")
		// Roll back the identity so the same email can register again.
		if err := s.repo.Delete(context.WithoutCancel(ctx), user.ID); err != nil {
			s.log.Error().Err(err).Str("user_id", user.ID).
				Msg("could not remove identity after failed provisioning; run `gigindia provision` for this user")
		}
		return nil, &domain.ProvisioningError{Message: result.Error, Err: result.Err}
	}

	s.log.Info().Str("user_id", user.ID).Str("role", user.Role).Msg("user registered")
	return &ports.RegisterResult{User: user, Profile: result}, nil
}

// Login checks the password and issues a session credential.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.codec.Create(user.Session())
	if err != nil {
		return "", nil, fmt.Errorf("issue session: %w", err)
	}
	metrics.SessionsIssuedTotal.WithLabelValues(user.Role).Inc()

	return token, user, nil
}

// Logout revokes the credential for the rest of its lifetime.
func (s *AuthService) Logout(ctx context.Context, session *domain.VerifiedSession) error {
	if session == nil {
		return domain.ErrUnauthenticated
	}
	if s.revocations == nil || session.TokenID == "" {
		return nil
	}

	ttl := session.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return nil
	}
	if err := s.revocations.Revoke(ctx, session.TokenID, ttl); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	s.log.Info().Str("user_id", session.ID).Msg("session revoked")
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
