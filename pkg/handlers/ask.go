package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/campus-registry/registry-engine/pkg/auth"
	"github.com/campus-registry/registry-engine/pkg/services"
)

// AskRequest is the natural-language question payload.
type AskRequest struct {
	Question string `json:"question"`
}

// AskHandler exposes the question-answering pipeline.
type AskHandler struct {
	ask    services.AskService
	logger *zap.Logger
}

// NewAskHandler creates a new AskHandler.
func NewAskHandler(ask services.AskService, logger *zap.Logger) *AskHandler {
	return &AskHandler{ask: ask, logger: logger}
}

// RegisterRoutes registers the ask route. Any authenticated role may
// ask; the pipeline itself enforces what each role can see.
func (h *AskHandler) RegisterRoutes(mux *http.ServeMux, mw *auth.Middleware) {
	mux.Handle("POST /api/ask", mw.Require(http.HandlerFunc(h.Ask)))
}

// Ask handles POST /api/ask.
func (h *AskHandler) Ask(w http.ResponseWriter, r *http.Request) {
	identity, err := auth.RequireIdentity(r.Context())
	if err != nil {
		http.Error(w, "authentication required", http.StatusUnauthorized)
		return
	}

	var req AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	result := h.ask.Answer(r.Context(), identity, req.Question)
	if err := WriteJSON(w, http.StatusOK, result); err != nil {
		h.logger.Error("Failed to encode ask response", zap.Error(err))
	}
}
