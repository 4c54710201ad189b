package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"golang.org/x/crypto/bcrypt"

	"github.com/campus-registry/registry-engine/pkg/apperrors"
	"github.com/campus-registry/registry-engine/pkg/models"
)

func hashFor(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func TestLoginSuccess(t *testing.T) {
	creds := &mockCredentialRepo{
		GetFunc: func(_ context.Context, username string) (*models.Credential, error) {
			return &models.Credential{
				Username:     username,
				PasswordHash: hashFor(t, "correct horse"),
				Role:         models.RoleStudent,
				Approved:     true,
			}, nil
		},
	}
	svc := NewAuthService(creds, zaptest.NewLogger(t))

	cred, err := svc.Login(context.Background(), "S001", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, models.RoleStudent, cred.Role)
}

func TestLoginWrongPassword(t *testing.T) {
	creds := &mockCredentialRepo{
		GetFunc: func(_ context.Context, username string) (*models.Credential, error) {
			return &models.Credential{
				Username:     username,
				PasswordHash: hashFor(t, "right"),
				Approved:     true,
			}, nil
		},
	}
	svc := NewAuthService(creds, zaptest.NewLogger(t))

	_, err := svc.Login(context.Background(), "S001", "wrong")
	assert.ErrorIs(t, err, apperrors.ErrInvalidPassword)
}

func TestLoginUnknownUserIndistinguishable(t *testing.T) {
	svc := NewAuthService(&mockCredentialRepo{}, zaptest.NewLogger(t))

	_, err := svc.Login(context.Background(), "ghost", "whatever")
	assert.ErrorIs(t, err, apperrors.ErrInvalidPassword)
}

func TestLoginPendingApproval(t *testing.T) {
	creds := &mockCredentialRepo{
		GetFunc: func(_ context.Context, username string) (*models.Credential, error) {
			return &models.Credential{
				Username:     username,
				PasswordHash: hashFor(t, "secret"),
				Approved:     false,
			}, nil
		},
	}
	svc := NewAuthService(creds, zaptest.NewLogger(t))

	_, err := svc.Login(context.Background(), "S001", "secret")
	assert.ErrorIs(t, err, apperrors.ErrNotApproved)
}

func TestUpdatePassword(t *testing.T) {
	var storedHash string
	creds := &mockCredentialRepo{
		GetFunc: func(_ context.Context, username string) (*models.Credential, error) {
			return &models.Credential{
				Username:     username,
				PasswordHash: hashFor(t, "old password"),
				Approved:     true,
			}, nil
		},
		UpdatePasswordHashFunc: func(_ context.Context, _, hash string) error {
			storedHash = hash
			return nil
		},
	}
	svc := NewAuthService(creds, zaptest.NewLogger(t))

	err := svc.UpdatePassword(context.Background(), "S001", "old password", "new password")
	require.NoError(t, err)
	require.NotEmpty(t, storedHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(storedHash), []byte("new password")))
}

func TestUpdatePasswordWrongCurrent(t *testing.T) {
	creds := &mockCredentialRepo{
		GetFunc: func(_ context.Context, username string) (*models.Credential, error) {
			return &models.Credential{Username: username, PasswordHash: hashFor(t, "old password")}, nil
		},
	}
	svc := NewAuthService(creds, zaptest.NewLogger(t))

	err := svc.UpdatePassword(context.Background(), "S001", "not it", "new password")
	assert.ErrorIs(t, err, apperrors.ErrInvalidPassword)
}

func TestUpdatePasswordTooShort(t *testing.T) {
	svc := NewAuthService(&mockCredentialRepo{}, zaptest.NewLogger(t))

	err := svc.UpdatePassword(context.Background(), "S001", "old", "short")
	assert.ErrorIs(t, err, apperrors.ErrInvalidPassword)
}
