package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/gigindia/marketplace/internal/api/metrics"
	"github.com/gigindia/marketplace/internal/core/domain"
	"github.com/gigindia/marketplace/internal/core/ports"
)

const (
	tracerName                = "github.com/gigindia/marketplace/provisioning"
	genericProvisioningFailed = "failed to create profile"
)

// requiredProfileFields are the keys every profile row needs.
var requiredProfileFields = map[string]interface{}{
	"full_name":    "required",
	"display_name": "required",
}

type profileService struct {
	repo     ports.ProfileRepository
	auditor  ports.ProvisioningAuditor
	validate *validator.Validate
	tracer   trace.Tracer
	log      zerolog.Logger
}

// NewProfileService returns the privileged provisioning service. repo must be
// backed by the elevated store client; auditor may be nil.
func NewProfileService(repo ports.ProfileRepository, auditor ports.ProvisioningAuditor, log zerolog.Logger) ports.ProfileService {
	return &profileService{
		repo:     repo,
		auditor:  auditor,
		validate: validator.New(),
		tracer:   otel.Tracer(tracerName),
		log:      log,
	}
}

// Provision creates the profile row for userID in the table selected by
// userType. It is idempotent per user: an existing row is reported as success
// without a write.
//
// The existence check and the insert are separate statements. Two concurrent
// calls for the same user can both pass the check; only a UNIQUE (user_id)
// constraint in the store keeps the second insert out, and that conflict is
// reported as success as well.
func (s *profileService) Provision(ctx context.Context, userID string, data domain.ProfileData, userType domain.UserType) ports.ProvisionResult {
	ctx, span := s.tracer.Start(ctx, "profile.provision",
		trace.WithAttributes(
			attribute.String("profile.user_id", userID),
			attribute.String("profile.user_type", string(userType)),
		),
	)
	defer span.End()

	s.log.Debug().
		Str("user_id", userID).
		Str("user_type", string(userType)).
		Interface("profile_data", data).
		Msg("provisioning profile")

	if err := s.validateInput(userID, data, userType); err != nil {
		s.log.Warn().Err(err).Str("user_id", userID).Msg("profile provisioning rejected")
		return s.finish(span, userID, userType, domain.OutcomeInvalid, nil, err, err.Error())
	}

	existing, err := s.repo.FindByUserID(ctx, userType, userID)
	switch {
	case err == nil && existing != nil:
		s.log.Info().Str("user_id", userID).Str("table", userType.Table()).Msg("profile already exists")
		return s.finish(span, userID, userType, domain.OutcomeExisting, nil, nil, "")
	case err != nil && !errors.Is(err, domain.ErrProfileNotFound):
		s.log.Error().Err(err).Str("user_id", userID).Msg("profile existence check failed")
		return s.finish(span, userID, userType, domain.OutcomeFailed, nil, err, describeStoreError(err))
	}

	created, err := s.repo.Insert(ctx, userType, userID, data)
	if err != nil {
		if errors.Is(err, domain.ErrProfileExists) {
			s.log.Info().Str("user_id", userID).Msg("profile inserted concurrently, treating as existing")
			return s.finish(span, userID, userType, domain.OutcomeExisting, nil, nil, "")
		}
		s.log.Error().Err(err).Str("user_id", userID).Msg("failed to create profile")
		return s.finish(span, userID, userType, domain.OutcomeFailed, nil, err, describeStoreError(err))
	}

	s.log.Info().
		Str("user_id", userID).
		Str("profile_id", created.ID).
		Str("table", userType.Table()).
		Msg("profile created")

	return s.finish(span, userID, userType, domain.OutcomeCreated, created, nil, "")
}

// Get returns the profile row of userID.
func (s *profileService) Get(ctx context.Context, userType domain.UserType, userID string) (*domain.ProfileRecord, error) {
	if !userType.Valid() {
		return nil, fmt.Errorf("get profile: %w: unsupported user type %q", domain.ErrValidation, userType)
	}
	profile, err := s.repo.FindByUserID(ctx, userType, userID)
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return profile, nil
}

func (s *profileService) validateInput(userID string, data domain.ProfileData, userType domain.UserType) error {
	if strings.TrimSpace(userID) == "" {
		return fmt.Errorf("%w: user id is required", domain.ErrValidation)
	}
	if !userType.Valid() {
		return fmt.Errorf("%w: user type must be freelancer or employer", domain.ErrValidation)
	}

	// Required columns are text; non-string and blank values count as missing.
	values := make(map[string]interface{}, len(requiredProfileFields))
	for field := range requiredProfileFields {
		values[field] = strings.TrimSpace(data.String(field))
	}
	fieldErrs := s.validate.ValidateMap(values, requiredProfileFields)
	if len(fieldErrs) == 0 {
		return nil
	}
	missing := make([]string, 0, len(fieldErrs))
	for field := range fieldErrs {
		missing = append(missing, field)
	}
	sort.Strings(missing)
	return fmt.Errorf("%w: missing required profile fields (%s)", domain.ErrValidation, strings.Join(missing, ", "))
}

func (s *profileService) finish(
	span trace.Span,
	userID string,
	userType domain.UserType,
	outcome domain.ProvisioningOutcome,
	created *domain.ProfileRecord,
	err error,
	msg string,
) ports.ProvisionResult {
	metrics.ProfilesProvisionedTotal.WithLabelValues(string(userType), string(outcome)).Inc()
	span.SetAttributes(attribute.String("profile.outcome", string(outcome)))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, msg)
	}

	if s.auditor != nil {
		s.auditor.Record(domain.ProvisioningEvent{
			UserID:     userID,
			UserType:   userType,
			Outcome:    outcome,
			Error:      msg,
			RecordedAt: time.Now().UTC(),
		})
	}

	if err != nil {
		return ports.ProvisionResult{Success: false, Error: msg, Err: err}
	}
	return ports.ProvisionResult{Success: true, Data: created}
}

// describeStoreError extracts a message from a store failure: the store's own
// message, then its structured detail, then a serialized form.
func describeStoreError(err error) string {
	var dse *domain.DataStoreError
	if errors.As(err, &dse) {
		if msg := dse.Describe(); msg != "" {
			return msg
		}
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return genericProvisioningFailed
}
