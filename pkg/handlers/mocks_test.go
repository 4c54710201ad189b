package handlers

import (
	"context"

	"github.com/campus-registry/registry-engine/pkg/apperrors"
	"github.com/campus-registry/registry-engine/pkg/auth"
	"github.com/campus-registry/registry-engine/pkg/models"
	"github.com/campus-registry/registry-engine/pkg/repositories"
	"github.com/campus-registry/registry-engine/pkg/services"
)

type mockAskService struct {
	AnswerFunc func(ctx context.Context, identity auth.Identity, question string) *models.AskResult
}

func (m *mockAskService) Answer(ctx context.Context, identity auth.Identity, question string) *models.AskResult {
	if m.AnswerFunc != nil {
		return m.AnswerFunc(ctx, identity, question)
	}
	return models.FailedAsk("no mock behavior", "")
}

type mockAuthService struct {
	LoginFunc          func(ctx context.Context, username, password string) (*models.Credential, error)
	UpdatePasswordFunc func(ctx context.Context, username, current, next string) error
}

func (m *mockAuthService) Login(ctx context.Context, username, password string) (*models.Credential, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, username, password)
	}
	return nil, apperrors.ErrInvalidPassword
}

func (m *mockAuthService) UpdatePassword(ctx context.Context, username, current, next string) error {
	if m.UpdatePasswordFunc != nil {
		return m.UpdatePasswordFunc(ctx, username, current, next)
	}
	return nil
}

type mockRegistrationService struct {
	RegisterFunc func(ctx context.Context, req *services.RegistrationRequest) error
	ApproveFunc  func(ctx context.Context, username string) error
	RejectFunc   func(ctx context.Context, username string) error
	RemoveFunc   func(ctx context.Context, username string) error
	PendingFunc  func(ctx context.Context) ([]*models.UserProfile, error)
}

func (m *mockRegistrationService) Register(ctx context.Context, req *services.RegistrationRequest) error {
	if m.RegisterFunc != nil {
		return m.RegisterFunc(ctx, req)
	}
	return nil
}

func (m *mockRegistrationService) PendingApprovals(ctx context.Context) ([]*models.UserProfile, error) {
	if m.PendingFunc != nil {
		return m.PendingFunc(ctx)
	}
	return nil, nil
}

func (m *mockRegistrationService) Approve(ctx context.Context, username string) error {
	if m.ApproveFunc != nil {
		return m.ApproveFunc(ctx, username)
	}
	return nil
}

func (m *mockRegistrationService) Reject(ctx context.Context, username string) error {
	if m.RejectFunc != nil {
		return m.RejectFunc(ctx, username)
	}
	return nil
}

func (m *mockRegistrationService) Remove(ctx context.Context, username string) error {
	if m.RemoveFunc != nil {
		return m.RemoveFunc(ctx, username)
	}
	return nil
}

type mockEnrollmentService struct {
	EnrollFunc   func(ctx context.Context, studentID string, key repositories.SectionKey) error
	DropFunc     func(ctx context.Context, studentID string, key repositories.SectionKey) error
	ScheduleFunc func(ctx context.Context, studentID string) ([]*models.Enrollment, error)
	RosterFunc   func(ctx context.Context, key repositories.SectionKey) ([]*models.Enrollment, error)
}

func (m *mockEnrollmentService) Enroll(ctx context.Context, studentID string, key repositories.SectionKey) error {
	if m.EnrollFunc != nil {
		return m.EnrollFunc(ctx, studentID, key)
	}
	return nil
}

func (m *mockEnrollmentService) Drop(ctx context.Context, studentID string, key repositories.SectionKey) error {
	if m.DropFunc != nil {
		return m.DropFunc(ctx, studentID, key)
	}
	return nil
}

func (m *mockEnrollmentService) Schedule(ctx context.Context, studentID string) ([]*models.Enrollment, error) {
	if m.ScheduleFunc != nil {
		return m.ScheduleFunc(ctx, studentID)
	}
	return nil, nil
}

func (m *mockEnrollmentService) Roster(ctx context.Context, key repositories.SectionKey) ([]*models.Enrollment, error) {
	if m.RosterFunc != nil {
		return m.RosterFunc(ctx, key)
	}
	return nil, nil
}
