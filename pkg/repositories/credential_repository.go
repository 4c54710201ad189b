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

// CredentialRepository defines data access for login credentials.
type CredentialRepository interface {
	Create(ctx context.Context, cred *models.Credential) error
	Get(ctx context.Context, username string) (*models.Credential, error)
	SetApproved(ctx context.Context, username string, approved bool) error
	UpdatePasswordHash(ctx context.Context, username, passwordHash string) error
	Delete(ctx context.Context, username string) error
}

type credentialRepository struct {
	db *database.DB
}

// NewCredentialRepository creates a new credential repository.
func NewCredentialRepository(db *database.DB) CredentialRepository {
	return &credentialRepository{db: db}
}

func (r *credentialRepository) Create(ctx context.Context, cred *models.Credential) error {
	query := `
		INSERT INTO login_credentials (username, password_hash, role, approved)
		VALUES ($1, $2, $3, $4)`

	_, err := r.db.Exec(ctx, query, cred.Username, cred.PasswordHash, cred.Role, cred.Approved)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperrors.ErrUsernameTaken
		}
		return fmt.Errorf("failed to create credential: %w", err)
	}
	return nil
}

func (r *credentialRepository) Get(ctx context.Context, username string) (*models.Credential, error) {
	query := `
		SELECT username, password_hash, role, approved
		FROM login_credentials
		WHERE username = $1`

	var cred models.Credential
	err := r.db.QueryRow(ctx, query, username).Scan(
		&cred.Username, &cred.PasswordHash, &cred.Role, &cred.Approved)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get credential: %w", err)
	}
	return &cred, nil
}

func (r *credentialRepository) SetApproved(ctx context.Context, username string, approved bool) error {
	query := `UPDATE login_credentials SET approved = $2 WHERE username = $1`

	tag, err := r.db.Exec(ctx, query, username, approved)
	if err != nil {
		return fmt.Errorf("failed to update approval: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *credentialRepository) UpdatePasswordHash(ctx context.Context, username, passwordHash string) error {
	query := `UPDATE login_credentials SET password_hash = $2 WHERE username = $1`

	tag, err := r.db.Exec(ctx, query, username, passwordHash)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *credentialRepository) Delete(ctx context.Context, username string) error {
	query := `DELETE FROM login_credentials WHERE username = $1`

	tag, err := r.db.Exec(ctx, query, username)
	if err != nil {
		return fmt.Errorf("failed to delete credential: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
