package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/campus-registry/registry-engine/pkg/auth"
	"github.com/campus-registry/registry-engine/pkg/services"
)

// LoginRequest is the session login payload.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse reports the established identity.
type LoginResponse struct {
	Username string `json:"username"`
	Role     string `json:"role"`
}

// UpdatePasswordRequest carries a password change for the current user.
type UpdatePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// AuthHandler handles session login, logout, and password updates.
type AuthHandler struct {
	auth     services.AuthService
	sessions *auth.SessionStore
	logger   *zap.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService services.AuthService, sessions *auth.SessionStore, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{auth: authService, sessions: sessions, logger: logger}
}

// RegisterRoutes registers session routes on the given mux.
func (h *AuthHandler) RegisterRoutes(mux *http.ServeMux, mw *auth.Middleware) {
	mux.HandleFunc("POST /api/login", h.Login)
	mux.Handle("POST /api/logout", mw.Require(http.HandlerFunc(h.Logout)))
	mux.Handle("POST /api/password", mw.Require(http.HandlerFunc(h.UpdatePassword)))
}

// Login handles POST /api/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	cred, err := h.auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		ServiceError(w, err)
		return
	}

	identity := auth.Identity{Username: cred.Username, Role: cred.Role}
	if err := h.sessions.Establish(w, r, identity); err != nil {
		h.logger.Error("Failed to establish session", zap.Error(err))
		_ = ErrorResponse(w, http.StatusInternalServerError, "internal_error", "failed to establish session")
		return
	}

	_ = WriteJSON(w, http.StatusOK, LoginResponse{Username: cred.Username, Role: cred.Role})
}

// Logout handles POST /api/logout.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Clear(w, r); err != nil {
		h.logger.Error("Failed to clear session", zap.Error(err))
	}
	w.WriteHeader(http.StatusNoContent)
}

// UpdatePassword handles POST /api/password for the logged-in user.
func (h *AuthHandler) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	identity, err := auth.RequireIdentity(r.Context())
	if err != nil {
		http.Error(w, "authentication required", http.StatusUnauthorized)
		return
	}

	var req UpdatePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if err := h.auth.UpdatePassword(r.Context(), identity.Username, req.CurrentPassword, req.NewPassword); err != nil {
		ServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
