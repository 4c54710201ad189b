package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/campus-registry/registry-engine/pkg/apperrors"
	"github.com/campus-registry/registry-engine/pkg/auth"
	"github.com/campus-registry/registry-engine/pkg/models"
	"github.com/campus-registry/registry-engine/pkg/repositories"
)

func newEnrollmentFixture(t *testing.T, enrollment *mockEnrollmentService) (*http.ServeMux, *auth.SessionStore) {
	t.Helper()
	logger := zaptest.NewLogger(t)
	sessions := auth.NewSessionStore("test-secret")
	mw := auth.NewMiddleware(sessions, logger)
	mux := http.NewServeMux()
	NewEnrollmentHandler(enrollment, nil, logger).RegisterRoutes(mux, mw)
	return mux, sessions
}

const enrollBody = `{"course_id":"CS-101","sec_id":"1","semester":"Fall","year":2026}`

func TestEnrollUsesSessionIdentity(t *testing.T) {
	var studentID string
	var key repositories.SectionKey
	enrollment := &mockEnrollmentService{
		EnrollFunc: func(_ context.Context, id string, k repositories.SectionKey) error {
			studentID, key = id, k
			return nil
		},
	}
	mux, sessions := newEnrollmentFixture(t, enrollment)

	req := httptest.NewRequest(http.MethodPost, "/api/enroll", strings.NewReader(enrollBody))
	req.AddCookie(sessionCookie(t, sessions, auth.Identity{Username: "S001", Role: models.RoleStudent}))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "S001", studentID)
	assert.Equal(t, repositories.SectionKey{CourseID: "CS-101", SecID: "1", Semester: "Fall", Year: 2026}, key)
}

func TestEnrollRejectsTeacherRole(t *testing.T) {
	mux, sessions := newEnrollmentFixture(t, &mockEnrollmentService{})

	req := httptest.NewRequest(http.MethodPost, "/api/enroll", strings.NewReader(enrollBody))
	req.AddCookie(sessionCookie(t, sessions, auth.Identity{Username: "T100", Role: models.RoleTeacher}))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestEnrollSectionFullConflict(t *testing.T) {
	enrollment := &mockEnrollmentService{
		EnrollFunc: func(context.Context, string, repositories.SectionKey) error {
			return apperrors.ErrSectionFull
		},
	}
	mux, sessions := newEnrollmentFixture(t, enrollment)

	req := httptest.NewRequest(http.MethodPost, "/api/enroll", strings.NewReader(enrollBody))
	req.AddCookie(sessionCookie(t, sessions, auth.Identity{Username: "S001", Role: models.RoleStudent}))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "section_full")
}

func TestEnrollInvalidSemester(t *testing.T) {
	mux, sessions := newEnrollmentFixture(t, &mockEnrollmentService{})

	req := httptest.NewRequest(http.MethodPost, "/api/enroll",
		strings.NewReader(`{"course_id":"CS-101","sec_id":"1","semester":"Autumn","year":2026}`))
	req.AddCookie(sessionCookie(t, sessions, auth.Identity{Username: "S001", Role: models.RoleStudent}))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestScheduleReturnsOwnEnrollments(t *testing.T) {
	enrollment := &mockEnrollmentService{
		ScheduleFunc: func(_ context.Context, studentID string) ([]*models.Enrollment, error) {
			require.Equal(t, "S001", studentID)
			return []*models.Enrollment{
				{StudentID: "S001", CourseID: "CS-101", SecID: "1", Semester: "Fall", Year: 2026},
			}, nil
		},
	}
	mux, sessions := newEnrollmentFixture(t, enrollment)

	req := httptest.NewRequest(http.MethodGet, "/api/schedule", nil)
	req.AddCookie(sessionCookie(t, sessions, auth.Identity{Username: "S001", Role: models.RoleStudent}))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "CS-101")
}

func TestRosterRequiresTeachingRole(t *testing.T) {
	mux, sessions := newEnrollmentFixture(t, &mockEnrollmentService{})

	req := httptest.NewRequest(http.MethodGet, "/api/roster?course_id=CS-101&sec_id=1&semester=Fall&year=2026", nil)
	req.AddCookie(sessionCookie(t, sessions, auth.Identity{Username: "S001", Role: models.RoleStudent}))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}
