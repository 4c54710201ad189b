package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/campus-registry/registry-engine/pkg/apperrors"
	"github.com/campus-registry/registry-engine/pkg/models"
	"github.com/campus-registry/registry-engine/pkg/repositories"
)

// CatalogSummary is the admin dashboard overview.
type CatalogSummary struct {
	Students    int `json:"students"`
	Instructors int `json:"instructors"`
	Courses     int `json:"courses"`
	Departments int `json:"departments"`
}

// CatalogService manages courses, sections, and the people records the
// admin maintains.
type CatalogService interface {
	CreateCourse(ctx context.Context, course *models.Course) error
	ListCourses(ctx context.Context) ([]*models.Course, error)
	Prerequisites(ctx context.Context, courseID string) ([]*models.Course, error)
	DeleteCourse(ctx context.Context, courseID string) error

	CreateSection(ctx context.Context, section *models.Section) error
	ListSections(ctx context.Context, semester string, year int) ([]*models.Section, error)
	ListSectionsByTeacher(ctx context.Context, teacherID string) ([]*models.Section, error)
	AssignTeacher(ctx context.Context, key repositories.SectionKey, teacherID string) error
	DeleteSection(ctx context.Context, key repositories.SectionKey) error

	CreateStudent(ctx context.Context, student *models.Student) error
	ListStudents(ctx context.Context) ([]*models.Student, error)
	CreateInstructor(ctx context.Context, instructor *models.Instructor) error
	ListInstructors(ctx context.Context) ([]*models.Instructor, error)

	Departments(ctx context.Context) ([]*models.Department, error)
	TimeSlots(ctx context.Context) ([]*models.TimeSlot, error)
	Summary(ctx context.Context) (*CatalogSummary, error)
}

type catalogService struct {
	courses     repositories.CourseRepository
	sections    repositories.SectionRepository
	students    repositories.StudentRepository
	instructors repositories.InstructorRepository
	reference   repositories.ReferenceRepository
	logger      *zap.Logger
}

// NewCatalogService creates a new catalog service.
func NewCatalogService(
	courses repositories.CourseRepository,
	sections repositories.SectionRepository,
	students repositories.StudentRepository,
	instructors repositories.InstructorRepository,
	reference repositories.ReferenceRepository,
	logger *zap.Logger,
) CatalogService {
	return &catalogService{
		courses:     courses,
		sections:    sections,
		students:    students,
		instructors: instructors,
		reference:   reference,
		logger:      logger.Named("catalog_service"),
	}
}

func (s *catalogService) CreateCourse(ctx context.Context, course *models.Course) error {
	if course.CourseID == "" || course.Title == "" {
		return fmt.Errorf("%w: course_id and title are required", apperrors.ErrConflict)
	}
	if course.Credits <= 0 {
		return fmt.Errorf("%w: credits must be positive", apperrors.ErrConflict)
	}
	if err := s.courses.Create(ctx, course); err != nil {
		return err
	}
	s.logger.Info("course created", zap.String("course_id", course.CourseID))
	return nil
}

func (s *catalogService) ListCourses(ctx context.Context) ([]*models.Course, error) {
	return s.courses.List(ctx)
}

func (s *catalogService) Prerequisites(ctx context.Context, courseID string) ([]*models.Course, error) {
	return s.courses.Prerequisites(ctx, courseID)
}

func (s *catalogService) DeleteCourse(ctx context.Context, courseID string) error {
	if err := s.courses.Delete(ctx, courseID); err != nil {
		return err
	}
	s.logger.Info("course deleted", zap.String("course_id", courseID))
	return nil
}

// CreateSection validates the term and, when a time slot is set,
// refuses double-booking the room.
func (s *catalogService) CreateSection(ctx context.Context, section *models.Section) error {
	if !models.IsValidSemester(section.Semester) {
		return fmt.Errorf("%w: invalid semester %q", apperrors.ErrConflict, section.Semester)
	}
	if section.Capacity <= 0 {
		return fmt.Errorf("%w: capacity must be positive", apperrors.ErrConflict)
	}
	if _, err := s.courses.Get(ctx, section.CourseID); err != nil {
		return err
	}

	if section.TimeSlotID != nil {
		occupied, err := s.sections.RoomOccupied(ctx,
			section.Semester, section.Year,
			section.Building, section.RoomNumber, *section.TimeSlotID)
		if err != nil {
			return err
		}
		if occupied {
			return apperrors.ErrScheduleConflict
		}
	}

	if err := s.sections.Create(ctx, section); err != nil {
		return err
	}
	s.logger.Info("section created",
		zap.String("course_id", section.CourseID),
		zap.String("sec_id", section.SecID),
		zap.String("semester", section.Semester),
		zap.Int("year", section.Year))
	return nil
}

func (s *catalogService) ListSections(ctx context.Context, semester string, year int) ([]*models.Section, error) {
	return s.sections.List(ctx, semester, year)
}

func (s *catalogService) ListSectionsByTeacher(ctx context.Context, teacherID string) ([]*models.Section, error) {
	return s.sections.ListByTeacher(ctx, teacherID)
}

// AssignTeacher checks the instructor exists and is free at the
// section's time slot before recording the assignment.
func (s *catalogService) AssignTeacher(ctx context.Context, key repositories.SectionKey, teacherID string) error {
	exists, err := s.instructors.Exists(ctx, teacherID)
	if err != nil {
		return err
	}
	if !exists {
		return apperrors.ErrNotFound
	}

	section, err := s.sections.Get(ctx, key)
	if err != nil {
		return err
	}
	if section.TimeSlotID != nil {
		occupied, err := s.sections.TeacherOccupied(ctx, key.Semester, key.Year, teacherID, *section.TimeSlotID)
		if err != nil {
			return err
		}
		if occupied {
			return apperrors.ErrScheduleConflict
		}
	}

	if err := s.sections.AssignTeacher(ctx, key, teacherID); err != nil {
		return err
	}
	s.logger.Info("teacher assigned",
		zap.String("teacher_id", teacherID),
		zap.String("course_id", key.CourseID),
		zap.String("sec_id", key.SecID))
	return nil
}

func (s *catalogService) DeleteSection(ctx context.Context, key repositories.SectionKey) error {
	return s.sections.Delete(ctx, key)
}

func (s *catalogService) CreateStudent(ctx context.Context, student *models.Student) error {
	if student.ID == "" || student.Name == "" {
		return fmt.Errorf("%w: id and name are required", apperrors.ErrConflict)
	}
	return s.students.Create(ctx, student)
}

func (s *catalogService) ListStudents(ctx context.Context) ([]*models.Student, error) {
	return s.students.List(ctx)
}

func (s *catalogService) CreateInstructor(ctx context.Context, instructor *models.Instructor) error {
	if instructor.ID == "" || instructor.Name == "" {
		return fmt.Errorf("%w: id and name are required", apperrors.ErrConflict)
	}
	return s.instructors.Create(ctx, instructor)
}

func (s *catalogService) ListInstructors(ctx context.Context) ([]*models.Instructor, error) {
	return s.instructors.List(ctx)
}

func (s *catalogService) Departments(ctx context.Context) ([]*models.Department, error) {
	return s.reference.Departments(ctx)
}

func (s *catalogService) TimeSlots(ctx context.Context) ([]*models.TimeSlot, error) {
	return s.reference.TimeSlots(ctx)
}

func (s *catalogService) Summary(ctx context.Context) (*CatalogSummary, error) {
	students, err := s.students.List(ctx)
	if err != nil {
		return nil, err
	}
	instructors, err := s.instructors.List(ctx)
	if err != nil {
		return nil, err
	}
	courses, err := s.courses.List(ctx)
	if err != nil {
		return nil, err
	}
	departments, err := s.reference.Departments(ctx)
	if err != nil {
		return nil, err
	}
	return &CatalogSummary{
		Students:    len(students),
		Instructors: len(instructors),
		Courses:     len(courses),
		Departments: len(departments),
	}, nil
}
