package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/campus-registry/registry-engine/pkg/apperrors"
	"github.com/campus-registry/registry-engine/pkg/crypto"
	"github.com/campus-registry/registry-engine/pkg/models"
	"github.com/campus-registry/registry-engine/pkg/repositories"
)

// RegistrationRequest carries a self-service signup. Accounts are
// created unapproved; an admin must approve before first login.
type RegistrationRequest struct {
	Username     string  `json:"username"`
	Password     string  `json:"password"`
	Role         string  `json:"role"`
	FullName     string  `json:"full_name"`
	Email        string  `json:"email"`
	Phone        string  `json:"phone"`
	City         string  `json:"city"`
	Zip          string  `json:"zip"`
	Major        *string `json:"major,omitempty"`
	LevelOfStudy *string `json:"level_of_study,omitempty"`
	SSN          *string `json:"ssn,omitempty"`
	Experience   *int    `json:"experience,omitempty"`
}

// RegistrationService manages account lifecycle: signup, admin
// approval or rejection, and removal.
type RegistrationService interface {
	Register(ctx context.Context, req *RegistrationRequest) error
	PendingApprovals(ctx context.Context) ([]*models.UserProfile, error)
	Approve(ctx context.Context, username string) error
	Reject(ctx context.Context, username string) error
	Remove(ctx context.Context, username string) error
}

type registrationService struct {
	credentials repositories.CredentialRepository
	profiles    repositories.ProfileRepository
	students    repositories.StudentRepository
	instructors repositories.InstructorRepository
	pii         *crypto.PIIEncryptor // nil means SSNs are stored as given
	logger      *zap.Logger
}

// NewRegistrationService creates a new registration service. A non-nil
// encryptor keeps SSNs encrypted at rest.
func NewRegistrationService(
	credentials repositories.CredentialRepository,
	profiles repositories.ProfileRepository,
	students repositories.StudentRepository,
	instructors repositories.InstructorRepository,
	pii *crypto.PIIEncryptor,
	logger *zap.Logger,
) RegistrationService {
	return &registrationService{
		credentials: credentials,
		profiles:    profiles,
		students:    students,
		instructors: instructors,
		pii:         pii,
		logger:      logger.Named("registration_service"),
	}
}

func (s *registrationService) Register(ctx context.Context, req *RegistrationRequest) error {
	username := strings.TrimSpace(req.Username)
	if username == "" {
		return fmt.Errorf("%w: username is required", apperrors.ErrInvalidRole)
	}
	if !models.IsValidRole(req.Role) {
		return apperrors.ErrInvalidRole
	}
	if len(req.Password) < minPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", apperrors.ErrInvalidPassword, minPasswordLength)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	cred := &models.Credential{
		Username:     username,
		PasswordHash: string(hash),
		Role:         req.Role,
		Approved:     false,
	}
	if err := s.credentials.Create(ctx, cred); err != nil {
		return err
	}

	ssn := req.SSN
	if s.pii != nil && ssn != nil {
		encrypted, err := s.pii.Encrypt(*ssn)
		if err != nil {
			return fmt.Errorf("failed to encrypt ssn: %w", err)
		}
		ssn = &encrypted
	}

	profile := &models.UserProfile{
		Username:     username,
		Role:         req.Role,
		FullName:     req.FullName,
		Email:        req.Email,
		Phone:        req.Phone,
		City:         req.City,
		Zip:          req.Zip,
		Major:        req.Major,
		LevelOfStudy: req.LevelOfStudy,
		SSN:          ssn,
		Experience:   req.Experience,
	}
	if err := s.profiles.Create(ctx, profile); err != nil {
		// Roll back the credential so the username is not stranded
		// half-registered.
		if delErr := s.credentials.Delete(ctx, username); delErr != nil {
			s.logger.Error("failed to roll back credential after profile failure",
				zap.String("username", username),
				zap.Error(delErr))
		}
		return err
	}

	s.logger.Info("registration submitted",
		zap.String("username", username),
		zap.String("role", req.Role))
	return nil
}

func (s *registrationService) PendingApprovals(ctx context.Context) ([]*models.UserProfile, error) {
	return s.profiles.ListPending(ctx)
}

func (s *registrationService) Approve(ctx context.Context, username string) error {
	if err := s.credentials.SetApproved(ctx, username, true); err != nil {
		return err
	}
	s.logger.Info("account approved", zap.String("username", username))
	return nil
}

// Reject discards an unapproved signup entirely.
func (s *registrationService) Reject(ctx context.Context, username string) error {
	cred, err := s.credentials.Get(ctx, username)
	if err != nil {
		return err
	}
	if cred.Approved {
		return fmt.Errorf("%w: account already approved", apperrors.ErrConflict)
	}
	return s.removeAccount(ctx, cred)
}

// Remove deletes an account and its domain records.
func (s *registrationService) Remove(ctx context.Context, username string) error {
	cred, err := s.credentials.Get(ctx, username)
	if err != nil {
		return err
	}
	return s.removeAccount(ctx, cred)
}

func (s *registrationService) removeAccount(ctx context.Context, cred *models.Credential) error {
	switch cred.Role {
	case models.RoleStudent:
		if err := s.students.Delete(ctx, cred.Username); err != nil && !isNotFound(err) {
			return err
		}
	case models.RoleTeacher:
		if err := s.instructors.Delete(ctx, cred.Username); err != nil && !isNotFound(err) {
			return err
		}
	}

	if err := s.profiles.Delete(ctx, cred.Username); err != nil && !isNotFound(err) {
		return err
	}
	if err := s.credentials.Delete(ctx, cred.Username); err != nil {
		return err
	}

	s.logger.Info("account removed",
		zap.String("username", cred.Username),
		zap.String("role", cred.Role))
	return nil
}

func isNotFound(err error) bool {
	return errors.Is(err, apperrors.ErrNotFound)
}
