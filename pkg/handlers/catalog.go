package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/campus-registry/registry-engine/pkg/auth"
	"github.com/campus-registry/registry-engine/pkg/models"
	"github.com/campus-registry/registry-engine/pkg/repositories"
	"github.com/campus-registry/registry-engine/pkg/services"
)

// AssignTeacherRequest names the instructor for a section.
type AssignTeacherRequest struct {
	TeacherID string `json:"teacher_id"`
}

// CatalogHandler exposes the course catalog and the admin's people and
// section management.
type CatalogHandler struct {
	catalog services.CatalogService
	logger  *zap.Logger
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(catalog services.CatalogService, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{catalog: catalog, logger: logger}
}

// RegisterRoutes registers catalog routes. Reads are open to any
// authenticated role; writes are admin-only.
func (h *CatalogHandler) RegisterRoutes(mux *http.ServeMux, mw *auth.Middleware) {
	admin := func(fn http.HandlerFunc) http.Handler {
		return mw.RequireRole(fn, models.RoleAdmin)
	}
	authed := func(fn http.HandlerFunc) http.Handler {
		return mw.Require(fn)
	}

	mux.Handle("GET /api/courses", authed(h.ListCourses))
	mux.Handle("POST /api/courses", admin(h.CreateCourse))
	mux.Handle("GET /api/courses/{course_id}/prereqs", authed(h.Prerequisites))
	mux.Handle("DELETE /api/courses/{course_id}", admin(h.DeleteCourse))

	mux.Handle("GET /api/sections", authed(h.ListSections))
	mux.Handle("POST /api/sections", admin(h.CreateSection))
	mux.Handle("POST /api/sections/assign-teacher", admin(h.AssignTeacher))
	mux.Handle("DELETE /api/sections", admin(h.DeleteSection))

	mux.Handle("GET /api/students", mw.RequireRole(http.HandlerFunc(h.ListStudents), models.RoleAdmin, models.RoleTeacher))
	mux.Handle("POST /api/students", admin(h.CreateStudent))
	mux.Handle("GET /api/instructors", authed(h.ListInstructors))
	mux.Handle("POST /api/instructors", admin(h.CreateInstructor))

	mux.Handle("GET /api/departments", authed(h.Departments))
	mux.Handle("GET /api/timeslots", authed(h.TimeSlots))
	mux.Handle("GET /api/summary", admin(h.Summary))
}

// ListCourses handles GET /api/courses.
func (h *CatalogHandler) ListCourses(w http.ResponseWriter, r *http.Request) {
	courses, err := h.catalog.ListCourses(r.Context())
	if err != nil {
		ServiceError(w, err)
		return
	}
	_ = WriteJSON(w, http.StatusOK, map[string]any{"courses": courses})
}

// CreateCourse handles POST /api/courses.
func (h *CatalogHandler) CreateCourse(w http.ResponseWriter, r *http.Request) {
	var course models.Course
	if err := json.NewDecoder(r.Body).Decode(&course); err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if err := h.catalog.CreateCourse(r.Context(), &course); err != nil {
		ServiceError(w, err)
		return
	}
	_ = WriteJSON(w, http.StatusCreated, course)
}

// Prerequisites handles GET /api/courses/{course_id}/prereqs.
func (h *CatalogHandler) Prerequisites(w http.ResponseWriter, r *http.Request) {
	prereqs, err := h.catalog.Prerequisites(r.Context(), r.PathValue("course_id"))
	if err != nil {
		ServiceError(w, err)
		return
	}
	_ = WriteJSON(w, http.StatusOK, map[string]any{"prerequisites": prereqs})
}

// DeleteCourse handles DELETE /api/courses/{course_id}.
func (h *CatalogHandler) DeleteCourse(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.DeleteCourse(r.Context(), r.PathValue("course_id")); err != nil {
		ServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListSections handles GET /api/sections?semester=Fall&year=2026.
func (h *CatalogHandler) ListSections(w http.ResponseWriter, r *http.Request) {
	semester := r.URL.Query().Get("semester")
	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil || !models.IsValidSemester(semester) {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "semester and numeric year are required")
		return
	}

	sections, err := h.catalog.ListSections(r.Context(), semester, year)
	if err != nil {
		ServiceError(w, err)
		return
	}
	_ = WriteJSON(w, http.StatusOK, map[string]any{"sections": sections})
}

// CreateSection handles POST /api/sections.
func (h *CatalogHandler) CreateSection(w http.ResponseWriter, r *http.Request) {
	var section models.Section
	if err := json.NewDecoder(r.Body).Decode(&section); err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if err := h.catalog.CreateSection(r.Context(), &section); err != nil {
		ServiceError(w, err)
		return
	}
	_ = WriteJSON(w, http.StatusCreated, section)
}

// AssignTeacher handles POST /api/sections/assign-teacher.
func (h *CatalogHandler) AssignTeacher(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SectionKeyRequest
		AssignTeacherRequest
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	key, err := req.SectionKeyRequest.Key()
	if err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	if req.TeacherID == "" {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "teacher_id is required")
		return
	}

	if err := h.catalog.AssignTeacher(r.Context(), key, req.TeacherID); err != nil {
		ServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeleteSection handles DELETE /api/sections.
func (h *CatalogHandler) DeleteSection(w http.ResponseWriter, r *http.Request) {
	key, ok := sectionKeyFromQuery(w, r)
	if !ok {
		return
	}
	if err := h.catalog.DeleteSection(r.Context(), key); err != nil {
		ServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListStudents handles GET /api/students.
func (h *CatalogHandler) ListStudents(w http.ResponseWriter, r *http.Request) {
	students, err := h.catalog.ListStudents(r.Context())
	if err != nil {
		ServiceError(w, err)
		return
	}
	_ = WriteJSON(w, http.StatusOK, map[string]any{"students": students})
}

// CreateStudent handles POST /api/students.
func (h *CatalogHandler) CreateStudent(w http.ResponseWriter, r *http.Request) {
	var student models.Student
	if err := json.NewDecoder(r.Body).Decode(&student); err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if err := h.catalog.CreateStudent(r.Context(), &student); err != nil {
		ServiceError(w, err)
		return
	}
	_ = WriteJSON(w, http.StatusCreated, student)
}

// ListInstructors handles GET /api/instructors.
func (h *CatalogHandler) ListInstructors(w http.ResponseWriter, r *http.Request) {
	instructors, err := h.catalog.ListInstructors(r.Context())
	if err != nil {
		ServiceError(w, err)
		return
	}
	_ = WriteJSON(w, http.StatusOK, map[string]any{"instructors": instructors})
}

// CreateInstructor handles POST /api/instructors.
func (h *CatalogHandler) CreateInstructor(w http.ResponseWriter, r *http.Request) {
	var instructor models.Instructor
	if err := json.NewDecoder(r.Body).Decode(&instructor); err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if err := h.catalog.CreateInstructor(r.Context(), &instructor); err != nil {
		ServiceError(w, err)
		return
	}
	_ = WriteJSON(w, http.StatusCreated, instructor)
}

// Departments handles GET /api/departments.
func (h *CatalogHandler) Departments(w http.ResponseWriter, r *http.Request) {
	departments, err := h.catalog.Departments(r.Context())
	if err != nil {
		ServiceError(w, err)
		return
	}
	_ = WriteJSON(w, http.StatusOK, map[string]any{"departments": departments})
}

// TimeSlots handles GET /api/timeslots.
func (h *CatalogHandler) TimeSlots(w http.ResponseWriter, r *http.Request) {
	slots, err := h.catalog.TimeSlots(r.Context())
	if err != nil {
		ServiceError(w, err)
		return
	}
	_ = WriteJSON(w, http.StatusOK, map[string]any{"time_slots": slots})
}

// Summary handles GET /api/summary.
func (h *CatalogHandler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.catalog.Summary(r.Context())
	if err != nil {
		ServiceError(w, err)
		return
	}
	_ = WriteJSON(w, http.StatusOK, summary)
}

// sectionKeyFromQuery parses the four-part section key from query
// parameters, writing a 400 on failure.
func sectionKeyFromQuery(w http.ResponseWriter, r *http.Request) (repositories.SectionKey, bool) {
	q := r.URL.Query()
	year, err := strconv.Atoi(q.Get("year"))
	key := repositories.SectionKey{
		CourseID: q.Get("course_id"),
		SecID:    q.Get("sec_id"),
		Semester: q.Get("semester"),
		Year:     year,
	}
	if err != nil || key.CourseID == "" || key.SecID == "" || !models.IsValidSemester(key.Semester) {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "course_id, sec_id, semester, and numeric year are required")
		return repositories.SectionKey{}, false
	}
	return key, true
}
