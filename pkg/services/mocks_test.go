package services

import (
	"context"

	"github.com/campus-registry/registry-engine/pkg/apperrors"
	"github.com/campus-registry/registry-engine/pkg/models"
	"github.com/campus-registry/registry-engine/pkg/repositories"
)

// mockCredentialRepo implements repositories.CredentialRepository with
// overridable functions.
type mockCredentialRepo struct {
	CreateFunc             func(ctx context.Context, cred *models.Credential) error
	GetFunc                func(ctx context.Context, username string) (*models.Credential, error)
	SetApprovedFunc        func(ctx context.Context, username string, approved bool) error
	UpdatePasswordHashFunc func(ctx context.Context, username, hash string) error
	DeleteFunc             func(ctx context.Context, username string) error

	DeleteCalls []string
}

func (m *mockCredentialRepo) Create(ctx context.Context, cred *models.Credential) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, cred)
	}
	return nil
}

func (m *mockCredentialRepo) Get(ctx context.Context, username string) (*models.Credential, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, username)
	}
	return nil, apperrors.ErrNotFound
}

func (m *mockCredentialRepo) SetApproved(ctx context.Context, username string, approved bool) error {
	if m.SetApprovedFunc != nil {
		return m.SetApprovedFunc(ctx, username, approved)
	}
	return nil
}

func (m *mockCredentialRepo) UpdatePasswordHash(ctx context.Context, username, hash string) error {
	if m.UpdatePasswordHashFunc != nil {
		return m.UpdatePasswordHashFunc(ctx, username, hash)
	}
	return nil
}

func (m *mockCredentialRepo) Delete(ctx context.Context, username string) error {
	m.DeleteCalls = append(m.DeleteCalls, username)
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, username)
	}
	return nil
}

type mockProfileRepo struct {
	CreateFunc      func(ctx context.Context, profile *models.UserProfile) error
	GetFunc         func(ctx context.Context, username string) (*models.UserProfile, error)
	ListPendingFunc func(ctx context.Context) ([]*models.UserProfile, error)
	DeleteFunc      func(ctx context.Context, username string) error
}

func (m *mockProfileRepo) Create(ctx context.Context, profile *models.UserProfile) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, profile)
	}
	return nil
}

func (m *mockProfileRepo) Get(ctx context.Context, username string) (*models.UserProfile, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, username)
	}
	return nil, apperrors.ErrNotFound
}

func (m *mockProfileRepo) ListPending(ctx context.Context) ([]*models.UserProfile, error) {
	if m.ListPendingFunc != nil {
		return m.ListPendingFunc(ctx)
	}
	return nil, nil
}

func (m *mockProfileRepo) Delete(ctx context.Context, username string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, username)
	}
	return nil
}

type mockStudentRepo struct {
	CreateFunc func(ctx context.Context, student *models.Student) error
	GetFunc    func(ctx context.Context, id string) (*models.Student, error)
	ListFunc   func(ctx context.Context) ([]*models.Student, error)
	DeleteFunc func(ctx context.Context, id string) error
}

func (m *mockStudentRepo) Create(ctx context.Context, student *models.Student) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, student)
	}
	return nil
}

func (m *mockStudentRepo) Get(ctx context.Context, id string) (*models.Student, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, id)
	}
	return nil, apperrors.ErrNotFound
}

func (m *mockStudentRepo) List(ctx context.Context) ([]*models.Student, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return nil, nil
}

func (m *mockStudentRepo) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

type mockInstructorRepo struct {
	CreateFunc func(ctx context.Context, instructor *models.Instructor) error
	GetFunc    func(ctx context.Context, id string) (*models.Instructor, error)
	ListFunc   func(ctx context.Context) ([]*models.Instructor, error)
	ExistsFunc func(ctx context.Context, id string) (bool, error)
	DeleteFunc func(ctx context.Context, id string) error
}

func (m *mockInstructorRepo) Create(ctx context.Context, instructor *models.Instructor) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, instructor)
	}
	return nil
}

func (m *mockInstructorRepo) Get(ctx context.Context, id string) (*models.Instructor, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, id)
	}
	return nil, apperrors.ErrNotFound
}

func (m *mockInstructorRepo) List(ctx context.Context) ([]*models.Instructor, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return nil, nil
}

func (m *mockInstructorRepo) Exists(ctx context.Context, id string) (bool, error) {
	if m.ExistsFunc != nil {
		return m.ExistsFunc(ctx, id)
	}
	return false, nil
}

func (m *mockInstructorRepo) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

type mockCourseRepo struct {
	CreateFunc        func(ctx context.Context, course *models.Course) error
	GetFunc           func(ctx context.Context, courseID string) (*models.Course, error)
	ListFunc          func(ctx context.Context) ([]*models.Course, error)
	PrerequisitesFunc func(ctx context.Context, courseID string) ([]*models.Course, error)
	DeleteFunc        func(ctx context.Context, courseID string) error
}

func (m *mockCourseRepo) Create(ctx context.Context, course *models.Course) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, course)
	}
	return nil
}

func (m *mockCourseRepo) Get(ctx context.Context, courseID string) (*models.Course, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, courseID)
	}
	return nil, apperrors.ErrNotFound
}

func (m *mockCourseRepo) List(ctx context.Context) ([]*models.Course, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return nil, nil
}

func (m *mockCourseRepo) Prerequisites(ctx context.Context, courseID string) ([]*models.Course, error) {
	if m.PrerequisitesFunc != nil {
		return m.PrerequisitesFunc(ctx, courseID)
	}
	return nil, nil
}

func (m *mockCourseRepo) Delete(ctx context.Context, courseID string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, courseID)
	}
	return nil
}

type mockSectionRepo struct {
	CreateFunc          func(ctx context.Context, section *models.Section) error
	GetFunc             func(ctx context.Context, key repositories.SectionKey) (*models.Section, error)
	ListFunc            func(ctx context.Context, semester string, year int) ([]*models.Section, error)
	ListByTeacherFunc   func(ctx context.Context, teacherID string) ([]*models.Section, error)
	EnrolledCountFunc   func(ctx context.Context, key repositories.SectionKey) (int, error)
	RoomOccupiedFunc    func(ctx context.Context, semester string, year int, building, room, slot string) (bool, error)
	TeacherOccupiedFunc func(ctx context.Context, semester string, year int, teacherID, slot string) (bool, error)
	AssignTeacherFunc   func(ctx context.Context, key repositories.SectionKey, teacherID string) error
	DeleteFunc          func(ctx context.Context, key repositories.SectionKey) error
}

func (m *mockSectionRepo) Create(ctx context.Context, section *models.Section) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, section)
	}
	return nil
}

func (m *mockSectionRepo) Get(ctx context.Context, key repositories.SectionKey) (*models.Section, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, key)
	}
	return nil, apperrors.ErrNotFound
}

func (m *mockSectionRepo) List(ctx context.Context, semester string, year int) ([]*models.Section, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, semester, year)
	}
	return nil, nil
}

func (m *mockSectionRepo) ListByTeacher(ctx context.Context, teacherID string) ([]*models.Section, error) {
	if m.ListByTeacherFunc != nil {
		return m.ListByTeacherFunc(ctx, teacherID)
	}
	return nil, nil
}

func (m *mockSectionRepo) EnrolledCount(ctx context.Context, key repositories.SectionKey) (int, error) {
	if m.EnrolledCountFunc != nil {
		return m.EnrolledCountFunc(ctx, key)
	}
	return 0, nil
}

func (m *mockSectionRepo) RoomOccupied(ctx context.Context, semester string, year int, building, room, slot string) (bool, error) {
	if m.RoomOccupiedFunc != nil {
		return m.RoomOccupiedFunc(ctx, semester, year, building, room, slot)
	}
	return false, nil
}

func (m *mockSectionRepo) TeacherOccupied(ctx context.Context, semester string, year int, teacherID, slot string) (bool, error) {
	if m.TeacherOccupiedFunc != nil {
		return m.TeacherOccupiedFunc(ctx, semester, year, teacherID, slot)
	}
	return false, nil
}

func (m *mockSectionRepo) AssignTeacher(ctx context.Context, key repositories.SectionKey, teacherID string) error {
	if m.AssignTeacherFunc != nil {
		return m.AssignTeacherFunc(ctx, key, teacherID)
	}
	return nil
}

func (m *mockSectionRepo) Delete(ctx context.Context, key repositories.SectionKey) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, key)
	}
	return nil
}

type mockEnrollmentRepo struct {
	CreateFunc          func(ctx context.Context, enrollment *models.Enrollment, credits int) error
	DeleteFunc          func(ctx context.Context, enrollment *models.Enrollment, credits int) error
	ListByStudentFunc   func(ctx context.Context, studentID string) ([]*models.Enrollment, error)
	ListBySectionFunc   func(ctx context.Context, key repositories.SectionKey) ([]*models.Enrollment, error)
	HasTimeConflictFunc func(ctx context.Context, studentID string, key repositories.SectionKey) (bool, error)

	Created        []*models.Enrollment
	CreatedCredits []int
	Deleted        []*models.Enrollment
	DeletedCredits []int
}

func (m *mockEnrollmentRepo) Create(ctx context.Context, enrollment *models.Enrollment, credits int) error {
	m.Created = append(m.Created, enrollment)
	m.CreatedCredits = append(m.CreatedCredits, credits)
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, enrollment, credits)
	}
	return nil
}

func (m *mockEnrollmentRepo) Delete(ctx context.Context, enrollment *models.Enrollment, credits int) error {
	m.Deleted = append(m.Deleted, enrollment)
	m.DeletedCredits = append(m.DeletedCredits, credits)
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, enrollment, credits)
	}
	return nil
}

func (m *mockEnrollmentRepo) ListByStudent(ctx context.Context, studentID string) ([]*models.Enrollment, error) {
	if m.ListByStudentFunc != nil {
		return m.ListByStudentFunc(ctx, studentID)
	}
	return nil, nil
}

func (m *mockEnrollmentRepo) ListBySection(ctx context.Context, key repositories.SectionKey) ([]*models.Enrollment, error) {
	if m.ListBySectionFunc != nil {
		return m.ListBySectionFunc(ctx, key)
	}
	return nil, nil
}

func (m *mockEnrollmentRepo) HasTimeConflict(ctx context.Context, studentID string, key repositories.SectionKey) (bool, error) {
	if m.HasTimeConflictFunc != nil {
		return m.HasTimeConflictFunc(ctx, studentID, key)
	}
	return false, nil
}

type mockReferenceRepo struct {
	DepartmentsFunc func(ctx context.Context) ([]*models.Department, error)
	TimeSlotsFunc   func(ctx context.Context) ([]*models.TimeSlot, error)
}

func (m *mockReferenceRepo) Departments(ctx context.Context) ([]*models.Department, error) {
	if m.DepartmentsFunc != nil {
		return m.DepartmentsFunc(ctx)
	}
	return nil, nil
}

func (m *mockReferenceRepo) TimeSlots(ctx context.Context) ([]*models.TimeSlot, error) {
	if m.TimeSlotsFunc != nil {
		return m.TimeSlotsFunc(ctx)
	}
	return nil, nil
}
