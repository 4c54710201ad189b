package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/campus-registry/registry-engine/pkg/apperrors"
	"github.com/campus-registry/registry-engine/pkg/models"
	"github.com/campus-registry/registry-engine/pkg/repositories"
)

// minPasswordLength is enforced at registration and password change.
const minPasswordLength = 8

// AuthService verifies credentials and manages passwords.
type AuthService interface {
	Login(ctx context.Context, username, password string) (*models.Credential, error)
	UpdatePassword(ctx context.Context, username, currentPassword, newPassword string) error
}

type authService struct {
	credentials repositories.CredentialRepository
	logger      *zap.Logger
}

// NewAuthService creates a new auth service.
func NewAuthService(credentials repositories.CredentialRepository, logger *zap.Logger) AuthService {
	return &authService{
		credentials: credentials,
		logger:      logger.Named("auth_service"),
	}
}

// Login verifies the password and approval state. Unknown usernames and
// wrong passwords both return ErrInvalidPassword so responses do not
// reveal which accounts exist.
func (s *authService) Login(ctx context.Context, username, password string) (*models.Credential, error) {
	cred, err := s.credentials.Get(ctx, username)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.logger.Info("login failed, unknown username", zap.String("username", username))
			return nil, apperrors.ErrInvalidPassword
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(password)); err != nil {
		s.logger.Info("login failed, wrong password",
			zap.String("username", username),
			zap.String("role", cred.Role))
		return nil, apperrors.ErrInvalidPassword
	}

	if !cred.Approved {
		s.logger.Info("login refused, account pending approval", zap.String("username", username))
		return nil, apperrors.ErrNotApproved
	}

	s.logger.Info("login succeeded",
		zap.String("username", username),
		zap.String("role", cred.Role))
	return cred, nil
}

// UpdatePassword re-verifies the current password before storing a new
// bcrypt hash.
func (s *authService) UpdatePassword(ctx context.Context, username, currentPassword, newPassword string) error {
	if len(newPassword) < minPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", apperrors.ErrInvalidPassword, minPasswordLength)
	}

	cred, err := s.credentials.Get(ctx, username)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(currentPassword)); err != nil {
		return apperrors.ErrInvalidPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.credentials.UpdatePasswordHash(ctx, username, string(hash)); err != nil {
		return err
	}

	s.logger.Info("password updated", zap.String("username", username))
	return nil
}
