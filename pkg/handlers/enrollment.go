package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/campus-registry/registry-engine/pkg/auth"
	"github.com/campus-registry/registry-engine/pkg/models"
	"github.com/campus-registry/registry-engine/pkg/repositories"
	"github.com/campus-registry/registry-engine/pkg/services"
)

// SectionKeyRequest identifies a section in request payloads.
type SectionKeyRequest struct {
	CourseID string `json:"course_id"`
	SecID    string `json:"sec_id"`
	Semester string `json:"semester"`
	Year     int    `json:"year"`
}

// Key validates and converts the payload to a repository key.
func (r *SectionKeyRequest) Key() (repositories.SectionKey, error) {
	if r.CourseID == "" || r.SecID == "" {
		return repositories.SectionKey{}, fmt.Errorf("course_id and sec_id are required")
	}
	if !models.IsValidSemester(r.Semester) {
		return repositories.SectionKey{}, fmt.Errorf("invalid semester %q", r.Semester)
	}
	return repositories.SectionKey{
		CourseID: r.CourseID,
		SecID:    r.SecID,
		Semester: r.Semester,
		Year:     r.Year,
	}, nil
}

// EnrollmentHandler handles the student-facing registration endpoints
// and the teacher-facing roster views.
type EnrollmentHandler struct {
	enrollment services.EnrollmentService
	catalog    services.CatalogService
	logger     *zap.Logger
}

// NewEnrollmentHandler creates a new EnrollmentHandler.
func NewEnrollmentHandler(enrollment services.EnrollmentService, catalog services.CatalogService, logger *zap.Logger) *EnrollmentHandler {
	return &EnrollmentHandler{enrollment: enrollment, catalog: catalog, logger: logger}
}

// RegisterRoutes registers enrollment routes. Students act only on
// their own schedule; the identity comes from the session, never the
// payload.
func (h *EnrollmentHandler) RegisterRoutes(mux *http.ServeMux, mw *auth.Middleware) {
	student := func(fn http.HandlerFunc) http.Handler {
		return mw.RequireRole(fn, models.RoleStudent)
	}
	teaching := func(fn http.HandlerFunc) http.Handler {
		return mw.RequireRole(fn, models.RoleTeacher, models.RoleAdmin)
	}

	mux.Handle("POST /api/enroll", student(h.Enroll))
	mux.Handle("POST /api/drop", student(h.Drop))
	mux.Handle("GET /api/schedule", student(h.Schedule))
	mux.Handle("GET /api/roster", teaching(h.Roster))
	mux.Handle("GET /api/my-sections", mw.RequireRole(http.HandlerFunc(h.MySections), models.RoleTeacher))
}

// Enroll handles POST /api/enroll.
func (h *EnrollmentHandler) Enroll(w http.ResponseWriter, r *http.Request) {
	identity, key, ok := h.decodeSectionRequest(w, r)
	if !ok {
		return
	}
	if err := h.enrollment.Enroll(r.Context(), identity.Username, key); err != nil {
		ServiceError(w, err)
		return
	}
	_ = WriteJSON(w, http.StatusCreated, map[string]string{"status": "enrolled"})
}

// Drop handles POST /api/drop.
func (h *EnrollmentHandler) Drop(w http.ResponseWriter, r *http.Request) {
	identity, key, ok := h.decodeSectionRequest(w, r)
	if !ok {
		return
	}
	if err := h.enrollment.Drop(r.Context(), identity.Username, key); err != nil {
		ServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Schedule handles GET /api/schedule for the logged-in student.
func (h *EnrollmentHandler) Schedule(w http.ResponseWriter, r *http.Request) {
	identity, err := auth.RequireIdentity(r.Context())
	if err != nil {
		http.Error(w, "authentication required", http.StatusUnauthorized)
		return
	}

	schedule, err := h.enrollment.Schedule(r.Context(), identity.Username)
	if err != nil {
		ServiceError(w, err)
		return
	}
	_ = WriteJSON(w, http.StatusOK, map[string]any{"schedule": schedule})
}

// Roster handles GET /api/roster for teachers and admins.
func (h *EnrollmentHandler) Roster(w http.ResponseWriter, r *http.Request) {
	key, ok := sectionKeyFromQuery(w, r)
	if !ok {
		return
	}
	roster, err := h.enrollment.Roster(r.Context(), key)
	if err != nil {
		ServiceError(w, err)
		return
	}
	_ = WriteJSON(w, http.StatusOK, map[string]any{"roster": roster})
}

// MySections handles GET /api/my-sections for the logged-in teacher.
func (h *EnrollmentHandler) MySections(w http.ResponseWriter, r *http.Request) {
	identity, err := auth.RequireIdentity(r.Context())
	if err != nil {
		http.Error(w, "authentication required", http.StatusUnauthorized)
		return
	}

	sections, err := h.catalog.ListSectionsByTeacher(r.Context(), identity.Username)
	if err != nil {
		ServiceError(w, err)
		return
	}
	_ = WriteJSON(w, http.StatusOK, map[string]any{"sections": sections})
}

func (h *EnrollmentHandler) decodeSectionRequest(w http.ResponseWriter, r *http.Request) (auth.Identity, repositories.SectionKey, bool) {
	identity, err := auth.RequireIdentity(r.Context())
	if err != nil {
		http.Error(w, "authentication required", http.StatusUnauthorized)
		return auth.Identity{}, repositories.SectionKey{}, false
	}

	var req SectionKeyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return auth.Identity{}, repositories.SectionKey{}, false
	}
	key, err := req.Key()
	if err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", err.Error())
		return auth.Identity{}, repositories.SectionKey{}, false
	}
	return identity, key, true
}
