// internal/server/handlers/session.go

package handlers

import (
	"context"
	"net/http"

	"github.com/BrownBean2017/SpotShare-MVP/internal/domain/spot"
	"github.com/BrownBean2017/SpotShare-MVP/internal/service/session"
)

const (
	// SessionCookie names the cookie carrying the session ID
	SessionCookie = "spotshare_session"

	// SessionHeader lets API clients pass the session ID without cookies
	SessionHeader = "X-Session-ID"
)

type contextKey string

const sessionKey = contextKey("session")

// SessionMiddleware attaches the caller's session to the request context,
// starting a new one when the request carries none. Only the browser UI
// routes use it.
func SessionMiddleware(manager *session.Manager, secure bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s, created := manager.GetOrCreate(sessionID(r))
			if created {
				setSessionCookie(w, s.ID, secure)
			}
			serveWithSession(w, r, next, s)
		})
	}
}

// RequireSession attaches an existing session to the request context and
// rejects requests whose session is missing or unknown
func RequireSession(manager *session.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := sessionID(r)
			if id == "" {
				respondWithError(w, http.StatusUnauthorized, "Session required", nil)
				return
			}

			s, ok := manager.Get(id)
			if !ok {
				respondWithError(w, http.StatusUnauthorized, "Session not found or expired", nil)
				return
			}
			serveWithSession(w, r, next, s)
		})
	}
}

// CreateSession starts a session for API clients
func CreateSession(manager *session.Manager, secure bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s := manager.Create()
		setSessionCookie(w, s.ID, secure)
		w.Header().Set(SessionHeader, s.ID)

		respondWithJSON(w, http.StatusCreated, s.Snapshot())
	}
}

// sessionID reads the session ID from the header, then the cookie
func sessionID(r *http.Request) string {
	if id := r.Header.Get(SessionHeader); id != "" {
		return id
	}
	if c, err := r.Cookie(SessionCookie); err == nil {
		return c.Value
	}
	return ""
}

func setSessionCookie(w http.ResponseWriter, id string, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func serveWithSession(w http.ResponseWriter, r *http.Request, next http.Handler, s *session.Session) {
	s.Touch()
	w.Header().Set(SessionHeader, s.ID)

	ctx := context.WithValue(r.Context(), sessionKey, s)
	next.ServeHTTP(w, r.WithContext(ctx))
}

// SessionFrom returns the session attached by SessionMiddleware or RequireSession
func SessionFrom(ctx context.Context) *session.Session {
	s, _ := ctx.Value(sessionKey).(*session.Session)
	return s
}

// GetSession returns the full session state
func GetSession(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, SessionFrom(r.Context()).Snapshot())
}

// SetView switches the active tab
func SetView(w http.ResponseWriter, r *http.Request) {
	var req struct {
		View string `json:"view"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	s := SessionFrom(r.Context())
	if err := s.SetView(session.View(req.View)); err != nil {
		respondWithDomainError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, s.Snapshot())
}

// SetMap shows or hides the map panel
func SetMap(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Show bool `json:"show"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	s := SessionFrom(r.Context())
	s.SetShowMap(req.Show)

	respondWithJSON(w, http.StatusOK, map[string]bool{"showMap": req.Show})
}

// SetFilter replaces the spot filters
func SetFilter(w http.ResponseWriter, r *http.Request) {
	var req spot.Filters
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	s := SessionFrom(r.Context())
	if err := s.SetFilters(req); err != nil {
		respondWithDomainError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, s.VisibleSpots())
}
