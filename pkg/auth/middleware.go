package auth

import (
	"net/http"

	"go.uber.org/zap"
)

// Middleware resolves the session cookie into an Identity on the
// request context and enforces role requirements per route.
type Middleware struct {
	sessions *SessionStore
	logger   *zap.Logger
}

// NewMiddleware creates session-backed auth middleware.
func NewMiddleware(sessions *SessionStore, logger *zap.Logger) *Middleware {
	return &Middleware{sessions: sessions, logger: logger.Named("auth")}
}

// Require wraps a handler, rejecting requests without a valid session.
func (m *Middleware) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := m.sessions.IdentityFromRequest(r)
		if !ok {
			http.Error(w, "authentication required", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
	})
}

// RequireRole wraps a handler, additionally rejecting sessions whose
// role is not in the allowed set.
func (m *Middleware) RequireRole(next http.Handler, roles ...string) http.Handler {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}

	return m.Require(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, _ := GetIdentity(r.Context())
		if _, ok := allowed[identity.Role]; !ok {
			m.logger.Warn("Role denied",
				zap.String("username", identity.Username),
				zap.String("role", identity.Role),
				zap.String("path", r.URL.Path))
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	}))
}
