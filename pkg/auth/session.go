// Package auth provides the login session layer. The query pipeline
// trusts the {username, role} pair extracted here completely and never
// re-verifies credentials.
package auth

import (
	"crypto/sha256"
	"net/http"

	"github.com/gorilla/sessions"
)

// SessionName is the name of the login session cookie.
const SessionName = "registry-session"

// Session value keys.
const (
	SessionKeyUsername = "username"
	SessionKeyRole     = "role"
)

// SessionStore signs and verifies login session cookies.
type SessionStore struct {
	store *sessions.CookieStore
}

// NewSessionStore initializes a cookie-based session store.
//
// The secret parameter signs session cookies. It can be any passphrase;
// it is SHA-256 hashed to derive a 32-byte key and must be consistent
// across server restarts.
//
// Security settings:
// - HttpOnly: true (inaccessible to JavaScript)
// - SameSite: Strict (prevents CSRF)
func NewSessionStore(secret string) *SessionStore {
	key := sha256.Sum256([]byte(secret))

	store := sessions.NewCookieStore(key[:])
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   8 * 3600, // one working day
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	}

	return &SessionStore{store: store}
}

// Establish writes a logged-in identity into the session cookie.
func (s *SessionStore) Establish(w http.ResponseWriter, r *http.Request, identity Identity) error {
	session, err := s.store.Get(r, SessionName)
	if err != nil {
		// An undecodable cookie yields a fresh session; proceed with it.
		session, _ = s.store.New(r, SessionName)
	}

	session.Values[SessionKeyUsername] = identity.Username
	session.Values[SessionKeyRole] = identity.Role
	return session.Save(r, w)
}

// Clear expires the session cookie.
func (s *SessionStore) Clear(w http.ResponseWriter, r *http.Request) error {
	session, err := s.store.Get(r, SessionName)
	if err != nil {
		return nil
	}
	session.Options.MaxAge = -1
	return session.Save(r, w)
}

// IdentityFromRequest extracts the authenticated identity from the
// request's session cookie. Returns false if there is no valid session.
func (s *SessionStore) IdentityFromRequest(r *http.Request) (Identity, bool) {
	session, err := s.store.Get(r, SessionName)
	if err != nil {
		return Identity{}, false
	}

	username, ok := session.Values[SessionKeyUsername].(string)
	if !ok || username == "" {
		return Identity{}, false
	}
	role, ok := session.Values[SessionKeyRole].(string)
	if !ok || role == "" {
		return Identity{}, false
	}

	return Identity{Username: username, Role: role}, true
}
