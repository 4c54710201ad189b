package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/campus-registry/registry-engine/pkg/apperrors"
	"github.com/campus-registry/registry-engine/pkg/models"
	"github.com/campus-registry/registry-engine/pkg/repositories"
)

// EnrollmentService manages a student's section registrations.
type EnrollmentService interface {
	Enroll(ctx context.Context, studentID string, key repositories.SectionKey) error
	Drop(ctx context.Context, studentID string, key repositories.SectionKey) error
	Schedule(ctx context.Context, studentID string) ([]*models.Enrollment, error)
	Roster(ctx context.Context, key repositories.SectionKey) ([]*models.Enrollment, error)
}

type enrollmentService struct {
	enrollments repositories.EnrollmentRepository
	sections    repositories.SectionRepository
	courses     repositories.CourseRepository
	logger      *zap.Logger
}

// NewEnrollmentService creates a new enrollment service.
func NewEnrollmentService(
	enrollments repositories.EnrollmentRepository,
	sections repositories.SectionRepository,
	courses repositories.CourseRepository,
	logger *zap.Logger,
) EnrollmentService {
	return &enrollmentService{
		enrollments: enrollments,
		sections:    sections,
		courses:     courses,
		logger:      logger.Named("enrollment_service"),
	}
}

// Enroll registers the student if the section exists, has a seat left,
// and does not collide with their current schedule. Credits are added
// to tot_cred on enrollment and removed again on drop.
func (s *enrollmentService) Enroll(ctx context.Context, studentID string, key repositories.SectionKey) error {
	section, err := s.sections.Get(ctx, key)
	if err != nil {
		return err
	}
	course, err := s.courses.Get(ctx, key.CourseID)
	if err != nil {
		return err
	}

	enrolled, err := s.sections.EnrolledCount(ctx, key)
	if err != nil {
		return err
	}
	if enrolled >= section.Capacity {
		return apperrors.ErrSectionFull
	}

	conflict, err := s.enrollments.HasTimeConflict(ctx, studentID, key)
	if err != nil {
		return err
	}
	if conflict {
		return apperrors.ErrScheduleConflict
	}

	enrollment := &models.Enrollment{
		StudentID: studentID,
		CourseID:  key.CourseID,
		SecID:     key.SecID,
		Semester:  key.Semester,
		Year:      key.Year,
	}
	// The takes row and the tot_cred update commit together.
	if err := s.enrollments.Create(ctx, enrollment, course.Credits); err != nil {
		return err
	}

	s.logger.Info("student enrolled",
		zap.String("student_id", studentID),
		zap.String("course_id", key.CourseID),
		zap.String("sec_id", key.SecID))
	return nil
}

// Drop removes an ungraded enrollment.
func (s *enrollmentService) Drop(ctx context.Context, studentID string, key repositories.SectionKey) error {
	current, err := s.enrollments.ListByStudent(ctx, studentID)
	if err != nil {
		return err
	}
	var target *models.Enrollment
	for _, e := range current {
		if e.CourseID == key.CourseID && e.SecID == key.SecID && e.Semester == key.Semester && e.Year == key.Year {
			target = e
			break
		}
	}
	if target == nil {
		return apperrors.ErrNotFound
	}
	if target.Grade != nil {
		return fmt.Errorf("%w: cannot drop a graded course", apperrors.ErrConflict)
	}

	// A course deleted from the catalog after enrollment still allows
	// the drop; the credit delta is just zero.
	credits := 0
	course, err := s.courses.Get(ctx, key.CourseID)
	if err == nil {
		credits = course.Credits
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return err
	}

	if err := s.enrollments.Delete(ctx, target, credits); err != nil {
		return err
	}

	s.logger.Info("enrollment dropped",
		zap.String("student_id", studentID),
		zap.String("course_id", key.CourseID))
	return nil
}

func (s *enrollmentService) Schedule(ctx context.Context, studentID string) ([]*models.Enrollment, error) {
	return s.enrollments.ListByStudent(ctx, studentID)
}

func (s *enrollmentService) Roster(ctx context.Context, key repositories.SectionKey) ([]*models.Enrollment, error) {
	return s.enrollments.ListBySection(ctx, key)
}
