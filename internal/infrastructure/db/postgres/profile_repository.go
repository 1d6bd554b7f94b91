package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/gigindia/marketplace/internal/core/domain"
	"github.com/gigindia/marketplace/internal/core/ports"
)

// ProfileRepository reads and writes freelancer_profiles and employer_profiles.
type ProfileRepository struct {
	db querier
}

// NewProfileRepository wraps the privileged pool returned by Connect.
func NewProfileRepository(db querier) ports.ProfileRepository {
	return &ProfileRepository{db: db}
}

func (r *ProfileRepository) FindByUserID(ctx context.Context, userType domain.UserType, userID string) (*domain.ProfileRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	table := userType.Table()
	row := r.db.QueryRow(ctx, fmt.Sprintf(`
		SELECT id, user_id, full_name, display_name, attributes, created_at, updated_at
		FROM %s
		WHERE user_id = $1
		LIMIT 1
	`, table), userID)

	p, err := scanProfile(row, userType)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, storeError("select "+table, err)
	}
	return p, nil
}

func (r *ProfileRepository) Insert(ctx context.Context, userType domain.UserType, userID string, data domain.ProfileData) (*domain.ProfileRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	table := userType.Table()
	now := time.Now().UTC()
	row := r.db.QueryRow(ctx, fmt.Sprintf(`
		INSERT INTO %s (user_id, full_name, display_name, attributes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)
		RETURNING id, user_id, full_name, display_name, attributes, created_at, updated_at
	`, table), userID, data.String("full_name"), data.String("display_name"), data.Attributes(), now)

	p, err := scanProfile(row, userType)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrProfileExists
		}
		return nil, storeError("insert "+table, err)
	}
	return p, nil
}

func scanProfile(row pgx.Row, userType domain.UserType) (*domain.ProfileRecord, error) {
	p := &domain.ProfileRecord{UserType: userType}
	err := row.Scan(
		&p.ID,
		&p.UserID,
		&p.FullName,
		&p.DisplayName,
		&p.Attributes,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}
