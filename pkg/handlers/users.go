package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/campus-registry/registry-engine/pkg/auth"
	"github.com/campus-registry/registry-engine/pkg/models"
	"github.com/campus-registry/registry-engine/pkg/services"
)

// UsersHandler handles self-service registration and the admin account
// lifecycle endpoints.
type UsersHandler struct {
	registration services.RegistrationService
	logger       *zap.Logger
}

// NewUsersHandler creates a new UsersHandler.
func NewUsersHandler(registration services.RegistrationService, logger *zap.Logger) *UsersHandler {
	return &UsersHandler{registration: registration, logger: logger}
}

// RegisterRoutes registers user routes. Registration is public; the
// approval lifecycle is admin-only.
func (h *UsersHandler) RegisterRoutes(mux *http.ServeMux, mw *auth.Middleware) {
	mux.HandleFunc("POST /api/register", h.Register)

	admin := func(fn http.HandlerFunc) http.Handler {
		return mw.RequireRole(fn, models.RoleAdmin)
	}
	mux.Handle("GET /api/users/pending", admin(h.Pending))
	mux.Handle("POST /api/users/{username}/approve", admin(h.Approve))
	mux.Handle("POST /api/users/{username}/reject", admin(h.Reject))
	mux.Handle("DELETE /api/users/{username}", admin(h.Remove))
}

// Register handles POST /api/register.
func (h *UsersHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req services.RegistrationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if err := h.registration.Register(r.Context(), &req); err != nil {
		ServiceError(w, err)
		return
	}

	_ = WriteJSON(w, http.StatusCreated, map[string]string{
		"status":  "pending",
		"message": "registration submitted, awaiting admin approval",
	})
}

// Pending handles GET /api/users/pending.
func (h *UsersHandler) Pending(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.registration.PendingApprovals(r.Context())
	if err != nil {
		h.logger.Error("Failed to list pending approvals", zap.Error(err))
		ServiceError(w, err)
		return
	}
	_ = WriteJSON(w, http.StatusOK, map[string]any{"pending": profiles})
}

// Approve handles POST /api/users/{username}/approve.
func (h *UsersHandler) Approve(w http.ResponseWriter, r *http.Request) {
	username := r.PathValue("username")
	if err := h.registration.Approve(r.Context(), username); err != nil {
		ServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Reject handles POST /api/users/{username}/reject.
func (h *UsersHandler) Reject(w http.ResponseWriter, r *http.Request) {
	username := r.PathValue("username")
	if err := h.registration.Reject(r.Context(), username); err != nil {
		ServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Remove handles DELETE /api/users/{username}.
func (h *UsersHandler) Remove(w http.ResponseWriter, r *http.Request) {
	username := r.PathValue("username")
	if err := h.registration.Remove(r.Context(), username); err != nil {
		ServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
