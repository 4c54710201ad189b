package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/campus-registry/registry-engine/pkg/apperrors"
	"github.com/campus-registry/registry-engine/pkg/database"
	"github.com/campus-registry/registry-engine/pkg/models"
)

// ProfileRepository defines data access for registration profiles.
type ProfileRepository interface {
	Create(ctx context.Context, profile *models.UserProfile) error
	Get(ctx context.Context, username string) (*models.UserProfile, error)
	ListPending(ctx context.Context) ([]*models.UserProfile, error)
	Delete(ctx context.Context, username string) error
}

type profileRepository struct {
	db *database.DB
}

// NewProfileRepository creates a new profile repository.
func NewProfileRepository(db *database.DB) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) Create(ctx context.Context, profile *models.UserProfile) error {
	query := `
		INSERT INTO users (username, role, full_name, email, phone, city, zip,
			major, level_of_study, ssn, experience, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, now())`

	_, err := r.db.Exec(ctx, query,
		profile.Username,
		profile.Role,
		profile.FullName,
		profile.Email,
		profile.Phone,
		profile.City,
		profile.Zip,
		profile.Major,
		profile.LevelOfStudy,
		profile.SSN,
		profile.Experience,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperrors.ErrUsernameTaken
		}
		return fmt.Errorf("failed to create profile: %w", err)
	}
	return nil
}

func (r *profileRepository) Get(ctx context.Context, username string) (*models.UserProfile, error) {
	query := `
		SELECT username, role, full_name, email, phone, city, zip,
			major, level_of_study, ssn, experience, created_at
		FROM users
		WHERE username = $1`

	profile, err := scanProfile(r.db.QueryRow(ctx, query, username))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return profile, nil
}

// ListPending returns profiles whose credentials are awaiting approval,
// oldest first.
func (r *profileRepository) ListPending(ctx context.Context) ([]*models.UserProfile, error) {
	query := `
		SELECT u.username, u.role, u.full_name, u.email, u.phone, u.city, u.zip,
			u.major, u.level_of_study, u.ssn, u.experience, u.created_at
		FROM users u
		JOIN login_credentials lc ON lc.username = u.username
		WHERE NOT lc.approved
		ORDER BY u.created_at`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending profiles: %w", err)
	}
	defer rows.Close()

	var profiles []*models.UserProfile
	for rows.Next() {
		profile, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan profile: %w", err)
		}
		profiles = append(profiles, profile)
	}
	return profiles, rows.Err()
}

func (r *profileRepository) Delete(ctx context.Context, username string) error {
	query := `DELETE FROM users WHERE username = $1`

	tag, err := r.db.Exec(ctx, query, username)
	if err != nil {
		return fmt.Errorf("failed to delete profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func scanProfile(row pgx.Row) (*models.UserProfile, error) {
	var profile models.UserProfile
	err := row.Scan(
		&profile.Username,
		&profile.Role,
		&profile.FullName,
		&profile.Email,
		&profile.Phone,
		&profile.City,
		&profile.Zip,
		&profile.Major,
		&profile.LevelOfStudy,
		&profile.SSN,
		&profile.Experience,
		&profile.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &profile, nil
}
